package causaloid

import (
	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/effect"
)

type aggKind int

const (
	aggAll aggKind = iota
	aggAny
	aggAtLeast
	aggMajorityOver
)

// AggregateLogic combines the boolean results of a collection's children
// (§4.2). Construct with AggAll, AggAny, AggAtLeast, or AggMajorityOver.
type AggregateLogic struct {
	kind aggKind
	n    int
	p    float64
}

// AggAll requires every child to yield Value(true).
func AggAll() AggregateLogic { return AggregateLogic{kind: aggAll} }

// AggAny requires at least one child to yield Value(true).
func AggAny() AggregateLogic { return AggregateLogic{kind: aggAny} }

// AggAtLeast requires at least n children to yield Value(true). Per
// spec.md §9's Open Question resolution, AtLeast(0) is vacuously true and
// AtLeast(n>0) over an empty child list is false — both fall out of the
// plain count>=n comparison with no special-casing.
func AggAtLeast(n int) AggregateLogic { return AggregateLogic{kind: aggAtLeast, n: n} }

// AggMajorityOver requires the fraction of true children to exceed p.
// Per spec.md §9, MajorityOver over an empty child list is false.
func AggMajorityOver(p float64) AggregateLogic { return AggregateLogic{kind: aggMajorityOver, p: p} }

// Evaluate applies the logic to a slice of per-child boolean results.
func (a AggregateLogic) Evaluate(results []bool) bool {
	switch a.kind {
	case aggAll:
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	case aggAny:
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	case aggAtLeast:
		count := 0
		for _, r := range results {
			if r {
				count++
			}
		}
		return count >= a.n
	case aggMajorityOver:
		if len(results) == 0 {
			return false
		}
		count := 0
		for _, r := range results {
			if r {
				count++
			}
		}
		fraction := float64(count) / float64(len(results))
		return fraction > a.p
	default:
		return false
	}
}

// evalCollection evaluates each child in insertion order against input
// (§4.2): the first child error aborts the collection with that error; a
// non-boolean child payload is an error; otherwise results are combined via
// c.logic.
func (c *Causaloid[V]) evalCollection(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	results := make([]bool, 0, len(c.children))
	logs := effect.Log{}

	for _, child := range c.children {
		childResult := child.Evaluate(input)
		logs = logs.Merge(childResult.Logs())
		if childResult.IsErr() {
			return withLogs(effect.FromError[V](childResult.Err()), logs)
		}
		v, ok := childResult.Value().AsValue()
		if !ok {
			return withLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "collection child returned a non-value effect")), logs)
		}
		b, boolOK := effect.AsBool(v)
		if !boolOK {
			return withLogs(effect.FromError[V](causalerr.NewCausalityError(
				causalerr.KindCustom, "collection child returned a non-boolean payload")), logs)
		}
		results = append(results, b)
	}

	outcome := c.logic.Evaluate(results)
	result := effect.Pure(effect.FromBool[V](outcome))
	c.setActiveFrom(result)
	return withLogs(result, logs)
}

func withLogs[V any](p *effect.PropagatingEffect[V], logs effect.Log) *effect.PropagatingEffect[V] {
	for _, entry := range logs.Entries() {
		p = p.WithLog(entry)
	}
	return p
}
