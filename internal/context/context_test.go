package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
)

func TestContextGraph_AddGetNode(t *testing.T) {
	cg := NewContextGraph()
	require.NoError(t, cg.AddNode(1, NewDatoid(1, "payload")))
	c, ok := cg.GetNode(1)
	require.True(t, ok)
	v, ok := c.AsDatum()
	require.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestContextGraph_AddEdgeWithRelation(t *testing.T) {
	cg := NewContextGraph()
	require.NoError(t, cg.AddNode(1, NewRootContextoid(1)))
	require.NoError(t, cg.AddNode(2, NewTempoid(2, "t0")))
	require.NoError(t, cg.AddEdge(1, 2, RelationPrecedes))
	assert.True(t, cg.ContainsEdge(1, 2))
	kind, ok := cg.RelationOf(1, 2)
	require.True(t, ok)
	assert.Equal(t, RelationPrecedes, kind)
}

func TestContextGraph_UpdateNode(t *testing.T) {
	cg := NewContextGraph()
	require.NoError(t, cg.AddNode(1, NewDatoid(1, "old")))
	require.NoError(t, cg.UpdateNode(1, NewDatoid(1, "new")))
	c, _ := cg.GetNode(1)
	v, _ := c.AsDatum()
	assert.Equal(t, "new", v)
}

func TestSystem_PrimaryIsDefault(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	cg, err := sys.ResolveActive()
	require.NoError(t, err)
	assert.Same(t, sys.Primary(), cg)
}

func TestSystem_ExtraContextLifecycle(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(8, false)
	assert.True(t, sys.ExtraCtxCheckExists(id))
	assert.Equal(t, uint64(0), sys.ExtraCtxGetCurrentID())

	require.NoError(t, sys.ExtraCtxSetCurrentID(id))
	assert.Equal(t, id, sys.ExtraCtxGetCurrentID())

	resolved, err := sys.ResolveActive()
	require.NoError(t, err)
	assert.NotSame(t, sys.Primary(), resolved)

	require.NoError(t, sys.ExtraCtxUnsetCurrentID())
	assert.Equal(t, uint64(0), sys.ExtraCtxGetCurrentID())
}

func TestSystem_SetNonExistentIsError(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	err := sys.ExtraCtxSetCurrentID(42)
	var cerr *causalerr.ContextIndexError
	assert.ErrorAs(t, err, &cerr)
}

func TestSystem_UnsetWhenNoneActiveIsError(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	err := sys.ExtraCtxUnsetCurrentID()
	assert.Error(t, err)
}

func TestSystem_UnsetIsIdempotentlyInvalidAfterFirstUnset(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(1, false)
	require.NoError(t, sys.ExtraCtxSetCurrentID(id))
	require.NoError(t, sys.ExtraCtxUnsetCurrentID())
	assert.Error(t, sys.ExtraCtxUnsetCurrentID())
}

func TestSystem_RemoveActiveContextIsInvalid(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(1, true)
	err := sys.RemoveExtraContext(id)
	assert.Error(t, err)
}

func TestSystem_WithContext_ReleasesOnReturn(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(1, false)

	var sawDifferentGraph bool
	err := sys.WithContext(id, func(cg *ContextGraph) error {
		sawDifferentGraph = cg != sys.Primary()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawDifferentGraph)
	assert.Equal(t, uint64(0), sys.ExtraCtxGetCurrentID())
}

func TestSystem_WithContext_ReleasesOnError(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(1, false)

	err := sys.WithContext(id, func(cg *ContextGraph) error {
		return assert.AnError
	})
	assert.Error(t, err)
	assert.Equal(t, uint64(0), sys.ExtraCtxGetCurrentID())
}

func TestSystem_Accessor_ResolvesPrimaryByDefault(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	accessor := sys.Accessor()
	ctx, err := accessor()
	require.NoError(t, err)
	assert.Same(t, sys.Primary(), ctx)
}

// TestSystem_ExtraCtxNodeEdgeOps covers §4.5's namespaced node/edge
// operations: each one resolves the active extra context and delegates,
// never touching the primary.
func TestSystem_ExtraCtxNodeEdgeOps(t *testing.T) {
	sys := NewSystem(NewContextGraph())
	id := sys.ExtraCtxAddNew(4, false)
	require.NoError(t, sys.ExtraCtxSetCurrentID(id))

	n1, err := sys.ExtraCtxAddNode(NewDatoid(1, "a"))
	require.NoError(t, err)
	n2, err := sys.ExtraCtxAddNode(NewDatoid(2, "b"))
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)

	assert.True(t, sys.ExtraCtxContainsNode(n1))
	got, err := sys.ExtraCtxGetNode(n1)
	require.NoError(t, err)
	v, ok := got.AsDatum()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	require.NoError(t, sys.ExtraCtxAddEdge(n1, n2, RelationPrecedes))
	assert.True(t, sys.ExtraCtxContainsEdge(n1, n2))

	nc, err := sys.ExtraCtxNodeCount()
	require.NoError(t, err)
	assert.Equal(t, 2, nc)

	ec, err := sys.ExtraCtxEdgeCount()
	require.NoError(t, err)
	assert.Equal(t, 1, ec)

	size, err := sys.ExtraCtxSize()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	empty, err := sys.ExtraCtxIsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	require.NoError(t, sys.ExtraCtxRemoveEdge(n1, n2))
	assert.False(t, sys.ExtraCtxContainsEdge(n1, n2))

	require.NoError(t, sys.ExtraCtxRemoveNode(n2))
	assert.False(t, sys.ExtraCtxContainsNode(n2))

	// The primary context is untouched throughout.
	assert.Equal(t, 0, sys.Primary().NumberOfNodes())
}

// TestSystem_ExtraCtxOps_ErrorWhenNoneActive covers the error path: every
// extra_ctx_* operation either errors or reports a zero/false result when
// no extra context is active, never silently falling back to the primary.
func TestSystem_ExtraCtxOps_ErrorWhenNoneActive(t *testing.T) {
	sys := NewSystem(NewContextGraph())

	_, err := sys.ExtraCtxAddNode(NewDatoid(1, "a"))
	assert.Error(t, err)

	_, err = sys.ExtraCtxGetNode(1)
	assert.Error(t, err)

	assert.False(t, sys.ExtraCtxContainsNode(1))
	assert.False(t, sys.ExtraCtxContainsEdge(1, 2))

	assert.Error(t, sys.ExtraCtxRemoveNode(1))
	assert.Error(t, sys.ExtraCtxAddEdge(1, 2, RelationPrecedes))
	assert.Error(t, sys.ExtraCtxRemoveEdge(1, 2))

	_, err = sys.ExtraCtxSize()
	assert.Error(t, err)
	_, err = sys.ExtraCtxIsEmpty()
	assert.Error(t, err)
	_, err = sys.ExtraCtxNodeCount()
	assert.Error(t, err)
	_, err = sys.ExtraCtxEdgeCount()
	assert.Error(t, err)
}
