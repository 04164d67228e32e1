package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPure_IsOkAndCarriesValue(t *testing.T) {
	p := Pure(42)
	require.True(t, p.IsOk())
	v, ok := p.Value().AsValue()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestFromError_IsErr(t *testing.T) {
	err := errors.New("boom")
	p := FromError[int](err)
	assert.True(t, p.IsErr())
	assert.False(t, p.IsOk())
	assert.Equal(t, err, p.Err())
}

func TestFromContextualLink(t *testing.T) {
	p := FromContextualLink[int](1, 2)
	ctx, contextoid, ok := p.Value().AsContextualLink()
	require.True(t, ok)
	assert.Equal(t, uint64(1), ctx)
	assert.Equal(t, uint64(2), contextoid)
}

func TestFromRelayTo(t *testing.T) {
	boxed := Pure(false)
	p := FromRelayTo(7, boxed)
	target, eff, ok := p.Value().AsRelayTo()
	require.True(t, ok)
	assert.Equal(t, uint64(7), target)
	assert.Same(t, boxed, eff)
}

func TestBind_LeftIdentity(t *testing.T) {
	f := func(v int) *PropagatingEffect[int] { return Pure(v * 2) }
	lhs := Pure(21).Bind(f)
	rhs := f(21)
	lv, _ := lhs.Value().AsValue()
	rv, _ := rhs.Value().AsValue()
	assert.Equal(t, rv, lv)
}

func TestBind_RightIdentity(t *testing.T) {
	m := Pure(5)
	bound := m.Bind(Pure[int])
	mv, _ := m.Value().AsValue()
	bv, _ := bound.Value().AsValue()
	assert.Equal(t, mv, bv)
}

func TestBind_Associativity(t *testing.T) {
	f := func(v int) *PropagatingEffect[int] { return Pure(v + 1) }
	g := func(v int) *PropagatingEffect[int] { return Pure(v * 3) }
	m := Pure(2)

	lhs := m.Bind(f).Bind(g)
	rhs := m.Bind(func(x int) *PropagatingEffect[int] { return f(x).Bind(g) })

	lv, _ := lhs.Value().AsValue()
	rv, _ := rhs.Value().AsValue()
	assert.Equal(t, rv, lv)
}

func TestBind_ErrorShortCircuits(t *testing.T) {
	called := false
	err := errors.New("upstream failure")
	p := FromError[int](err)

	result := p.Bind(func(v int) *PropagatingEffect[int] {
		called = true
		return Pure(v)
	})

	assert.False(t, called, "bound function must not be invoked when error is present")
	assert.True(t, result.IsErr())
	assert.Equal(t, err, result.Err())
}

func TestBind_MergesLogs(t *testing.T) {
	p := &PropagatingEffect[int]{val: NewValue(1), logs: NewLog("first")}
	result := p.Bind(func(v int) *PropagatingEffect[int] {
		return &PropagatingEffect[int]{val: NewValue(v + 1), logs: NewLog("second")}
	})

	assert.Equal(t, []string{"first", "second"}, result.Logs().Entries())
}

func TestMap_TransformsValue(t *testing.T) {
	p := Pure(10)
	result := p.Map(func(v int) int { return v + 5 })
	v, _ := result.Value().AsValue()
	assert.Equal(t, 15, v)
}

func TestMap_PassesThroughError(t *testing.T) {
	err := errors.New("fail")
	p := FromError[int](err)
	result := p.Map(func(v int) int { return v + 5 })
	assert.True(t, result.IsErr())
	assert.Equal(t, err, result.Err())
}

func TestAp_AppliesWrappedFunction(t *testing.T) {
	fnEff := Pure(func(v int) int { return v * 4 })
	p := Pure(3)
	result := p.Ap(fnEff)
	v, ok := result.Value().AsValue()
	require.True(t, ok)
	assert.Equal(t, 12, v)
}

func TestAp_FnErrorTakesPriority(t *testing.T) {
	fnErr := errors.New("fn failed")
	fnEff := FromError[func(int) int](fnErr)
	p := Pure(3)
	result := p.Ap(fnEff)
	assert.True(t, result.IsErr())
	assert.Equal(t, fnErr, result.Err())
}

func TestLog_MonoidIdentity(t *testing.T) {
	empty := Log{}
	l := NewLog("a", "b")

	assert.Equal(t, l.Entries(), empty.Merge(l).Entries())
	assert.Equal(t, l.Entries(), l.Merge(empty).Entries())
}

func TestLog_MergeAssociative(t *testing.T) {
	a := NewLog("a")
	b := NewLog("b")
	c := NewLog("c")

	lhs := a.Merge(b).Merge(c)
	rhs := a.Merge(b.Merge(c))

	assert.Equal(t, lhs.Entries(), rhs.Entries())
}

func TestNone_HasNoValueOrError(t *testing.T) {
	n := None[int]()
	assert.True(t, n.IsOk())
	assert.True(t, n.Value().IsNone())
}
