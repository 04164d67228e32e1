package context

import (
	"sync"

	"github.com/deepcausality-go/deepcausality/internal/graph"
)

type edgeKey struct{ from, to uint64 }

// ContextGraph mirrors C3's structure (§4.5: "Mirrors C3 in structure") but
// stores Contextoid nodes and RelationKind-labeled edges. It wraps
// graph.DynamicGraph directly rather than duplicating its bookkeeping,
// adding only the parallel relation-label map the generic substrate has no
// concept of.
type ContextGraph struct {
	mu    sync.RWMutex
	dyn   *graph.DynamicGraph[Contextoid]
	rels  map[edgeKey]RelationKind
	idGen uint64
}

// NewContextGraph constructs an empty context graph.
func NewContextGraph() *ContextGraph {
	return &ContextGraph{
		dyn:  graph.NewDynamicGraph[Contextoid](),
		rels: make(map[edgeKey]RelationKind),
	}
}

// AddNode inserts c under id.
func (cg *ContextGraph) AddNode(id uint64, c Contextoid) error {
	return cg.dyn.AddNode(id, &c)
}

// AddNodeAuto inserts c under an auto-assigned id and returns it, for
// callers (like the namespaced extra-context operations of §4.5) that
// mirror the source's add_node, which allocates its own index rather than
// taking one from the caller.
func (cg *ContextGraph) AddNodeAuto(c Contextoid) uint64 {
	cg.mu.Lock()
	cg.idGen++
	id := cg.idGen
	cg.mu.Unlock()
	_ = cg.dyn.AddNode(id, &c)
	return id
}

// GetNode returns the contextoid stored under id.
func (cg *ContextGraph) GetNode(id uint64) (Contextoid, bool) {
	c, ok := cg.dyn.GetNode(id)
	if !ok {
		return Contextoid{}, false
	}
	return *c, true
}

// RemoveNode tombstones id.
func (cg *ContextGraph) RemoveNode(id uint64) error {
	return cg.dyn.RemoveNode(id)
}

// UpdateNode replaces the contextoid stored under an existing id.
func (cg *ContextGraph) UpdateNode(id uint64, c Contextoid) error {
	return cg.dyn.UpdateNode(id, &c)
}

// AddEdge adds a directed, RelationKind-labeled edge a->b.
func (cg *ContextGraph) AddEdge(a, b uint64, kind RelationKind) error {
	if err := cg.dyn.AddEdge(a, b, 1.0); err != nil {
		return err
	}
	cg.mu.Lock()
	cg.rels[edgeKey{a, b}] = kind
	cg.mu.Unlock()
	return nil
}

// ContainsEdge reports whether a->b exists.
func (cg *ContextGraph) ContainsEdge(a, b uint64) bool {
	return cg.dyn.ContainsEdge(a, b)
}

// RemoveEdge removes the a->b edge and its relation label.
func (cg *ContextGraph) RemoveEdge(a, b uint64) error {
	if err := cg.dyn.RemoveEdge(a, b); err != nil {
		return err
	}
	cg.mu.Lock()
	delete(cg.rels, edgeKey{a, b})
	cg.mu.Unlock()
	return nil
}

// RelationOf returns the relation label of edge a->b.
func (cg *ContextGraph) RelationOf(a, b uint64) (RelationKind, bool) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	k, ok := cg.rels[edgeKey{a, b}]
	return k, ok
}

// NumberOfNodes reports the live node count.
func (cg *ContextGraph) NumberOfNodes() int { return cg.dyn.NumberOfNodes() }

// NumberOfEdges reports the edge count.
func (cg *ContextGraph) NumberOfEdges() int { return cg.dyn.NumberOfEdges() }

// Size reports the combined node and edge count.
func (cg *ContextGraph) Size() int { return cg.NumberOfNodes() + cg.NumberOfEdges() }

// ContainsNode reports whether id names a live node.
func (cg *ContextGraph) ContainsNode(id uint64) bool { return cg.dyn.ContainsNode(id) }

// IsEmpty reports whether the graph has no nodes.
func (cg *ContextGraph) IsEmpty() bool { return cg.NumberOfNodes() == 0 }
