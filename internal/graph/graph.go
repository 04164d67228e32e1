// Package graph implements the dual-phase causal graph substrate (§3.5,
// §4.3): a mutable DynamicGraph for building, and an immutable FrozenGraph
// compressed-sparse-row structure for evaluation. The package is generic
// over the node payload N so that internal/causaloid and internal/context
// can both store their own node types here without an import cycle.
package graph

import (
	"sort"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
)

// DynamicGraph is the mutable build phase of §3.5. The underlying
// github.com/dominikbraun/graph instance tracks only topology (vertices are
// plain uint64 ids, following the teacher's internal/modes/graph.go pattern
// of pairing the library graph with a parallel bookkeeping map); edge
// weights are kept alongside in weights, mirroring the teacher's own
// comment that EdgeWeight takes only an int and real weights are better
// stored in the caller's own structure.
type DynamicGraph[N any] struct {
	mu       sync.RWMutex
	g        graph.Graph[uint64, uint64]
	nodes    map[uint64]*N
	tomb     map[uint64]bool
	weights  map[edgeKey]float64
	weighted bool
	root     *uint64
}

type edgeKey struct {
	from, to uint64
}

func identityHash(id uint64) uint64 { return id }

// NewDynamicGraph constructs an empty mutable graph.
func NewDynamicGraph[N any]() *DynamicGraph[N] {
	return &DynamicGraph[N]{
		g:       graph.New(identityHash, graph.Directed()),
		nodes:   make(map[uint64]*N),
		tomb:    make(map[uint64]bool),
		weights: make(map[edgeKey]float64),
	}
}

// AddNode inserts payload under id. Returns ErrDuplicateNode if id is
// already live.
func (d *DynamicGraph[N]) AddNode(id uint64, payload *N) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, live := d.nodes[id]; live && !d.tomb[id] {
		return causalerr.ErrDuplicateNode
	}
	if err := d.g.AddVertex(id); err != nil && !d.tomb[id] {
		return causalerr.ErrDuplicateNode
	}
	d.nodes[id] = payload
	delete(d.tomb, id)
	return nil
}

// AddRootNode inserts payload under id and marks it the graph's root.
func (d *DynamicGraph[N]) AddRootNode(id uint64, payload *N) error {
	if err := d.AddNode(id, payload); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	rootID := id
	d.root = &rootID
	return nil
}

// RemoveNode tombstones id (§3.5: "tombstones allowed in the mutable
// phase"); it does not touch the underlying library graph, since edges
// incident to a tombstoned node are simply skipped by Freeze.
func (d *DynamicGraph[N]) RemoveNode(id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.nodes[id]; !ok || d.tomb[id] {
		return causalerr.ErrNodeMissing
	}
	d.tomb[id] = true
	delete(d.nodes, id)
	if d.root != nil && *d.root == id {
		d.root = nil
	}
	return nil
}

// UpdateNode replaces the payload stored under an existing live id.
func (d *DynamicGraph[N]) UpdateNode(id uint64, payload *N) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.liveLocked(id) {
		return causalerr.ErrNodeMissing
	}
	d.nodes[id] = payload
	return nil
}

// ContainsEdge reports whether a->b exists in the dynamic graph.
func (d *DynamicGraph[N]) ContainsEdge(a, b uint64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.weights[edgeKey{a, b}]
	return ok
}

// AddEdge adds a directed edge a->b with the given weight. Adding a
// duplicate edge is an error (§4.3).
func (d *DynamicGraph[N]) AddEdge(a, b uint64, weight float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.liveLocked(a) || !d.liveLocked(b) {
		return causalerr.ErrNodeMissing
	}
	if err := d.g.AddEdge(a, b); err != nil {
		return causalerr.ErrDuplicateEdge
	}
	if weight != 1.0 {
		d.weighted = true
	}
	d.weights[edgeKey{a, b}] = weight
	return nil
}

// RemoveEdge removes the a->b edge.
func (d *DynamicGraph[N]) RemoveEdge(a, b uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.g.RemoveEdge(a, b); err != nil {
		return causalerr.ErrEdgeMissing
	}
	delete(d.weights, edgeKey{a, b})
	return nil
}

func (d *DynamicGraph[N]) liveLocked(id uint64) bool {
	_, ok := d.nodes[id]
	return ok && !d.tomb[id]
}

// ContainsNode reports whether id names a live (non-tombstoned) node.
func (d *DynamicGraph[N]) ContainsNode(id uint64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.liveLocked(id)
}

// GetNode returns the payload stored under id.
func (d *DynamicGraph[N]) GetNode(id uint64) (*N, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.liveLocked(id) {
		return nil, false
	}
	return d.nodes[id], true
}

// NumberOfNodes reports the count of live nodes.
func (d *DynamicGraph[N]) NumberOfNodes() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// NumberOfEdges reports the count of edges tracked in the weight map.
func (d *DynamicGraph[N]) NumberOfEdges() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.weights)
}

// liveIDsSorted returns the live node ids in ascending order, the basis of
// Freeze's deterministic compaction (§4.3 step 1).
func (d *DynamicGraph[N]) liveIDsSorted() []uint64 {
	ids := make([]uint64, 0, len(d.nodes))
	for id := range d.nodes {
		if !d.tomb[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
