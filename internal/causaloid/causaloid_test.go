package causaloid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/graph"
)

func boolFn(result bool) SingletonFn[bool] {
	return func(effect.EffectValue[bool]) *effect.PropagatingEffect[bool] {
		return effect.Pure(result)
	}
}

func TestSingleton_Evaluate(t *testing.T) {
	c := NewSingleton[bool](1, "always true", boolFn(true))
	result := c.Evaluate(effect.NewValue(true))
	require.True(t, result.IsOk())
	v, ok := result.Value().AsValue()
	require.True(t, ok)
	assert.True(t, v)
	assert.True(t, c.IsActive())
}

func TestSingleton_NoneOutputIsError(t *testing.T) {
	fn := func(effect.EffectValue[bool]) *effect.PropagatingEffect[bool] {
		return effect.None[bool]()
	}
	c := NewSingleton[bool](1, "broken", fn)
	result := c.Evaluate(effect.NewValue(true))
	assert.True(t, result.IsErr())
}

func TestResetActive(t *testing.T) {
	c := NewSingleton[bool](1, "t", boolFn(true))
	c.Evaluate(effect.NewValue(true))
	require.True(t, c.IsActive())
	c.ResetActive()
	assert.False(t, c.IsActive())
}

func TestContextualSingleton_MissingContext(t *testing.T) {
	fn := func(ev effect.EffectValue[bool], state, ctx any) *effect.PropagatingEffect[bool] {
		return effect.Pure(true)
	}
	accessor := func() (any, error) { return nil, errors.New("no context") }
	c := NewContextualSingleton[bool](1, "ctx", fn, nil, accessor)
	result := c.Evaluate(effect.NewValue(true))
	require.True(t, result.IsErr())
	assert.Contains(t, result.Err().Error(), "context")
}

func TestContextualSingleton_ResolvesContext(t *testing.T) {
	var seenCtx any
	fn := func(ev effect.EffectValue[bool], state, ctx any) *effect.PropagatingEffect[bool] {
		seenCtx = ctx
		return effect.Pure(true)
	}
	accessor := func() (any, error) { return "primary", nil }
	c := NewContextualSingleton[bool](1, "ctx", fn, nil, accessor)
	result := c.Evaluate(effect.NewValue(true))
	require.True(t, result.IsOk())
	assert.Equal(t, "primary", seenCtx)
}

func TestCollection_All(t *testing.T) {
	children := []*Causaloid[bool]{
		NewSingleton[bool](1, "a", boolFn(true)),
		NewSingleton[bool](2, "b", boolFn(true)),
	}
	c := NewCollection[bool](3, "all", children, AggAll())
	result := c.Evaluate(effect.NewValue(true))
	v, ok := result.Value().AsValue()
	require.True(t, ok)
	assert.True(t, v)
}

func TestCollection_AllShortCircuitsOnFirstError(t *testing.T) {
	failing := NewSingleton[bool](1, "fails", func(effect.EffectValue[bool]) *effect.PropagatingEffect[bool] {
		return effect.FromError[bool](errors.New("boom"))
	})
	neverCalled := false
	skipped := NewSingleton[bool](2, "never", func(effect.EffectValue[bool]) *effect.PropagatingEffect[bool] {
		neverCalled = true
		return effect.Pure(true)
	})
	c := NewCollection[bool](3, "all", []*Causaloid[bool]{failing, skipped}, AggAll())
	result := c.Evaluate(effect.NewValue(true))
	assert.True(t, result.IsErr())
	assert.False(t, neverCalled)
}

func TestAggregateLogic_OpenQuestionResolutions(t *testing.T) {
	assert.True(t, AggAtLeast(0).Evaluate(nil), "AtLeast(0) on empty must be vacuously true")
	assert.False(t, AggAtLeast(1).Evaluate(nil), "AtLeast(n>0) on empty must be false")
	assert.False(t, AggMajorityOver(0.5).Evaluate(nil), "MajorityOver on empty must be false")
}

func TestAggregateLogic_AtLeastAndMajority(t *testing.T) {
	assert.True(t, AggAtLeast(2).Evaluate([]bool{true, true, false}))
	assert.False(t, AggAtLeast(3).Evaluate([]bool{true, true, false}))
	assert.True(t, AggMajorityOver(0.5).Evaluate([]bool{true, true, false}))
	assert.False(t, AggMajorityOver(0.7).Evaluate([]bool{true, true, false}))
}

func TestSubgraph_DelegatesToEngine(t *testing.T) {
	g := graph.NewDynamicGraph[Causaloid[bool]]()
	leaf := NewSingleton[bool](0, "leaf", boolFn(true))
	require.NoError(t, g.AddRootNode(0, leaf))
	frozen := g.Freeze(128)

	var sawRoot uint64
	var sawInput bool
	evaluator := func(fg *graph.FrozenGraph[Causaloid[bool]], root uint64, input effect.EffectValue[bool]) *effect.PropagatingEffect[bool] {
		sawRoot = root
		v, _ := input.AsValue()
		sawInput = v
		return effect.Pure(true)
	}

	sub := NewSubgraph[bool](9, "sub", frozen, 0, evaluator)
	result := sub.Evaluate(effect.NewValue(true))
	require.True(t, result.IsOk())
	assert.Equal(t, uint64(0), sawRoot)
	assert.True(t, sawInput)
}

func TestSubgraph_NoEngineBindingIsError(t *testing.T) {
	g := graph.NewDynamicGraph[Causaloid[bool]]()
	leaf := NewSingleton[bool](0, "leaf", boolFn(true))
	require.NoError(t, g.AddRootNode(0, leaf))
	frozen := g.Freeze(128)

	sub := NewSubgraph[bool](9, "sub", frozen, 0, nil)
	result := sub.Evaluate(effect.NewValue(true))
	assert.True(t, result.IsErr())
}
