package reasoning

import (
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/graph"
)

// AllActive reports whether every causaloid in g is active (§4.4.8): its
// most recent singleton evaluation returned Value(true). An empty graph is
// not all-active, mirroring IsEmpty's precondition role elsewhere in C4.
func AllActive[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]]) bool {
	n := g.NumberOfNodes()
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		c, ok := g.GetNode(uint64(i))
		if !ok || !c.IsActive() {
			return false
		}
	}
	return true
}

// NumberActive counts the causaloids in g whose most recent singleton
// evaluation returned Value(true).
func NumberActive[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]]) int {
	count := 0
	n := g.NumberOfNodes()
	for i := 0; i < n; i++ {
		if c, ok := g.GetNode(uint64(i)); ok && c.IsActive() {
			count++
		}
	}
	return count
}

// PercentActive returns the percentage (0-100) of active causaloids in g.
// An empty graph reports 0.
func PercentActive[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]]) float64 {
	n := g.NumberOfNodes()
	if n == 0 {
		return 0
	}
	return float64(NumberActive(g)) / float64(n) * 100
}
