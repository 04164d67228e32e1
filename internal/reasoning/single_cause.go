package reasoning

import (
	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/graph"
)

// ReasonSingleCause evaluates one causaloid against one or more data points
// (§4.4.2). A single datum is evaluated directly; multiple data points are
// evaluated in order, short-circuiting on the first Value(false).
func ReasonSingleCause[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], index uint64, data []V) *effect.PropagatingEffect[V] {
	if g.IsEmpty() {
		return effect.FromError[V](causalerr.ErrEmptyGraph)
	}
	if len(data) == 0 {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "data must not be empty"))
	}
	c, ok := g.GetNode(index)
	if !ok {
		return effect.FromError[V](causalerr.ErrNodeMissing)
	}

	if len(data) == 1 {
		return c.Evaluate(effect.NewValue(data[0]))
	}

	logs := effect.Log{}
	for _, datum := range data {
		result := c.Evaluate(effect.NewValue(datum))
		logs = logs.Merge(result.Logs())
		if result.IsErr() {
			return attachLogs(effect.FromError[V](result.Err()), logs)
		}
		truth, ok := asTruth(result)
		if !ok {
			return attachLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "causal function returned a non-boolean payload")), logs)
		}
		if !truth {
			return attachLogs(effect.Pure(effect.FromBool[V](false)), logs)
		}
	}
	return attachLogs(effect.Pure(effect.FromBool[V](true)), logs)
}
