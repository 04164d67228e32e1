package reasoning

import (
	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/config"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/graph"
	"github.com/deepcausality-go/deepcausality/pkg/cache"
)

// pathKey is the memoization key for a shortest-path lookup.
type pathKey struct {
	start, stop uint64
}

// Engine binds a frozen graph to the reasoning strategies that benefit from
// holding state across calls: currently the shortest-path memoization of
// §4.4.6. The other five strategies are pure functions of a graph and need
// no Engine (ReasonSingleCause, ReasonAllCauses, ReasonFromToCause,
// ReasonSubgraphFromCause, the statistical helpers).
type Engine[V any] struct {
	g        *graph.FrozenGraph[causaloid.Causaloid[V]]
	pathMemo *cache.LRU[pathKey, []uint64]
}

// NewEngine constructs a reasoning engine over g using default tuning.
func NewEngine[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]]) *Engine[V] {
	return NewEngineWithConfig[V](g, nil)
}

// NewEngineWithConfig constructs a reasoning engine over g, sizing the
// shortest-path memo from cfg.Engine.ShortestPathCacheSize. A nil cfg falls
// back to config.Default(). The memo never expires on its own (§4.4.6): it
// is bounded only by capacity and cleared explicitly by Rebind.
func NewEngineWithConfig[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], cfg *config.Config) *Engine[V] {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine[V]{
		g:        g,
		pathMemo: cache.New[pathKey, []uint64](&cache.Config{MaxEntries: cfg.Engine.ShortestPathCacheSize}),
	}
}

// Graph returns the frozen graph this engine reasons over.
func (e *Engine[V]) Graph() *graph.FrozenGraph[causaloid.Causaloid[V]] {
	return e.g
}

// Rebind installs a newly frozen graph generation and discards memoized
// shortest paths, since Freeze may renumber nodes and change edges between
// generations, making stale cached paths meaningless.
func (e *Engine[V]) Rebind(g *graph.FrozenGraph[causaloid.Causaloid[V]]) {
	e.g = g
	e.pathMemo.Clear()
}

// ReasonShortestPathBetweenCauses computes (memoized) the shortest path from
// start to stop, then walks it evaluating each node as a singleton,
// short-circuiting on Value(false) or error (§4.4.6).
func (e *Engine[V]) ReasonShortestPathBetweenCauses(start, stop uint64, data []V, idMap map[uint64]int) *effect.PropagatingEffect[V] {
	if e.g.IsEmpty() {
		return effect.FromError[V](causalerr.ErrEmptyGraph)
	}

	key := pathKey{start, stop}
	path, ok := e.pathMemo.Get(key)
	if !ok {
		p, err := e.g.ShortestPath(start, stop)
		if err != nil {
			return effect.FromError[V](err)
		}
		e.pathMemo.Set(key, p)
		path = p
	}

	logs := effect.Log{}
	for _, node := range path {
		datum, err := resolveInput(data, idMap, node)
		if err != nil {
			return attachLogs(effect.FromError[V](err), logs)
		}
		c, ok := e.g.GetNode(node)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.ErrNodeMissing), logs)
		}
		result := c.Evaluate(effect.NewValue(datum))
		logs = logs.Merge(result.Logs())
		if result.IsErr() {
			return attachLogs(effect.FromError[V](result.Err()), logs)
		}
		truth, ok := asTruth(result)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "path node returned a non-boolean payload")), logs)
		}
		if !truth {
			return attachLogs(effect.Pure(effect.FromBool[V](false)), logs)
		}
	}
	return attachLogs(effect.Pure(effect.FromBool[V](true)), logs)
}
