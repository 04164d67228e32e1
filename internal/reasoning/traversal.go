package reasoning

import (
	"fmt"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/graph"
)

// frame is an explicit DFS stack entry (§4.4.4: "uses an explicit stack of
// iterators"). override, when set, carries a relay's boxed effect as the
// node's input instead of the ordinarily resolved datum (§4.4.5 step 2).
type frame[V any] struct {
	node     uint64
	override *effect.EffectValue[V]
}

// subgraphDFSCore is the shared depth-first traversal underlying both
// ReasonSubgraphFromCause (data-indexed input per node) and the nested
// sub-graph causaloid delegate (broadcast input, mirroring how a collection
// causaloid hands every child the same input). resolve supplies a node's
// input when no relay override applies.
func subgraphDFSCore[V any](
	g *graph.FrozenGraph[causaloid.Causaloid[V]],
	start uint64,
	resolve func(uint64) (effect.EffectValue[V], error),
) *effect.PropagatingEffect[V] {
	if g.IsEmpty() {
		return effect.FromError[V](causalerr.ErrEmptyGraph)
	}
	if _, ok := g.GetNode(start); !ok {
		return effect.FromError[V](causalerr.ErrNodeMissing)
	}

	visited := make(map[uint64]bool)
	stack := []frame[V]{{node: start}}
	logs := effect.Log{}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.node] {
			continue
		}
		visited[f.node] = true

		var inputEV effect.EffectValue[V]
		if f.override != nil {
			inputEV = *f.override
		} else {
			ev, err := resolve(f.node)
			if err != nil {
				return attachLogs(effect.FromError[V](err), logs)
			}
			inputEV = ev
		}

		c, ok := g.GetNode(f.node)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.ErrNodeMissing), logs)
		}
		result := c.Evaluate(inputEV)
		logs = logs.Merge(result.Logs())
		if result.IsErr() {
			return attachLogs(effect.FromError[V](result.Err()), logs)
		}

		// Dynamic relay (§4.4.5).
		if target, boxed, isRelay := result.Value().AsRelayTo(); isRelay {
			if _, exists := g.GetNode(target); !exists {
				return attachLogs(effect.FromError[V](
					fmt.Errorf("%w: relay target index %d", causalerr.ErrNodeMissing, target)), logs)
			}
			if visited[target] {
				// Already visited: the relay becomes the terminal effect,
				// no re-entry (§4.4.5 step 3, §8 property 8).
				return attachLogs(boxed, logs)
			}
			override := boxed.Value()
			stack = append(stack, frame[V]{node: target, override: &override})
			continue
		}

		truth, ok := asTruth(result)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "traversal node returned a non-boolean payload")), logs)
		}
		if !truth {
			// §4.4.4 step 3, §8 property 7.
			return attachLogs(effect.Pure(effect.FromBool[V](false)), logs)
		}

		targets, _ := g.Outgoing(f.node)
		if len(targets) == 0 {
			// §4.4.4 step 4: a terminal (sink) node evaluating true ends
			// the traversal successfully.
			return attachLogs(effect.Pure(effect.FromBool[V](true)), logs)
		}
		for _, t := range targets {
			if !visited[t] {
				stack = append(stack, frame[V]{node: t})
			}
		}
	}

	return attachLogs(effect.Pure(effect.FromBool[V](true)), logs)
}

// ReasonSubgraphFromCause traverses depth-first from start across forward
// edges, resolving each node's input from data via map or identity (§4.4.4).
func ReasonSubgraphFromCause[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], start uint64, data []V, idMap map[uint64]int) *effect.PropagatingEffect[V] {
	resolve := func(nodeID uint64) (effect.EffectValue[V], error) {
		datum, err := resolveInput(data, idMap, nodeID)
		if err != nil {
			return effect.EffectValue[V]{}, err
		}
		return effect.NewValue(datum), nil
	}
	return subgraphDFSCore(g, start, resolve)
}

// NewSubgraphEvaluator returns the causaloid.SubgraphEvaluator that a
// KindGraph causaloid delegates to (§4.2): every node visited during the
// nested traversal receives the same input the sub-graph causaloid itself
// received, exactly as a collection causaloid broadcasts its input to every
// child.
func NewSubgraphEvaluator[V any]() causaloid.SubgraphEvaluator[V] {
	return func(g *graph.FrozenGraph[causaloid.Causaloid[V]], root uint64, input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
		resolve := func(uint64) (effect.EffectValue[V], error) { return input, nil }
		return subgraphDFSCore(g, root, resolve)
	}
}

// reasonFromToCauseCore is the bounded-traversal strategy behind
// ReasonFromToCause/ReasonAllCauses: depth-first from `from`, stopping
// successfully as soon as `to` has been visited and evaluated true. Unlike
// ReasonSubgraphFromCause this strategy does not interpret RelayTo, since
// §4.4.5 scopes relay support to "the adaptive graph evaluator" exercised by
// ReasonSubgraphFromCause and sub-graph causaloids alone.
func reasonFromToCauseCore[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], from, to uint64, data []V, idMap map[uint64]int) *effect.PropagatingEffect[V] {
	if g.IsEmpty() {
		return effect.FromError[V](causalerr.ErrEmptyGraph)
	}
	if _, ok := g.GetNode(from); !ok {
		return effect.FromError[V](causalerr.ErrNodeMissing)
	}
	if _, ok := g.GetNode(to); !ok {
		return effect.FromError[V](causalerr.ErrNodeMissing)
	}

	visited := make(map[uint64]bool)
	stack := []uint64{from}
	logs := effect.Log{}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true

		datum, err := resolveInput(data, idMap, node)
		if err != nil {
			return attachLogs(effect.FromError[V](err), logs)
		}
		c, _ := g.GetNode(node)
		result := c.Evaluate(effect.NewValue(datum))
		logs = logs.Merge(result.Logs())
		if result.IsErr() {
			return attachLogs(effect.FromError[V](result.Err()), logs)
		}
		truth, ok := asTruth(result)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "traversal node returned a non-boolean payload")), logs)
		}
		if !truth {
			return attachLogs(effect.Pure(effect.FromBool[V](false)), logs)
		}
		if node == to {
			return attachLogs(effect.Pure(effect.FromBool[V](true)), logs)
		}

		targets, _ := g.Outgoing(node)
		for _, t := range targets {
			if !visited[t] {
				stack = append(stack, t)
			}
		}
	}

	return attachLogs(effect.FromError[V](
		fmt.Errorf("%w: node %d unreachable from %d", causalerr.ErrNoPath, to, from)), logs)
}

// ReasonFromToCause evaluates every node reached depth-first from `from`
// until `to` is visited and confirmed true (§4.4.3).
func ReasonFromToCause[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], from, to uint64, data []V, idMap map[uint64]int) *effect.PropagatingEffect[V] {
	return reasonFromToCauseCore(g, from, to, data, idMap)
}

// ReasonAllCauses evaluates the whole graph: it delegates to
// ReasonFromToCause with the graph's root and its last index, the greatest
// compacted node index (§4.4.3).
func ReasonAllCauses[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], data []V, idMap map[uint64]int) *effect.PropagatingEffect[V] {
	if g.IsEmpty() {
		return effect.FromError[V](causalerr.ErrEmptyGraph)
	}
	root, ok := g.Root()
	if !ok {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "graph has no root"))
	}
	last := uint64(g.NumberOfNodes() - 1)
	return ReasonFromToCause(g, root, last, data, idMap)
}
