// Package causaloid implements the causal function node (§3.4, §4.2): the
// atomic unit of causation, dispatched by kind (singleton, contextual
// singleton, collection, sub-graph) at a single evaluation entry point.
package causaloid

import (
	"fmt"
	"sync"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/graph"
)

// Kind tags which evaluation strategy a Causaloid uses (§3.4, §9: "dynamic
// dispatch over causaloid kinds... implement as a tagged variant, not
// inheritance").
type Kind int

const (
	// KindSingleton wraps a pure function EffectValue[V] -> PropagatingEffect[V].
	KindSingleton Kind = iota
	// KindContextualSingleton additionally resolves a context capability.
	KindContextualSingleton
	// KindCollection combines child causaloids under an AggregateLogic.
	KindCollection
	// KindGraph delegates to an owned causal sub-graph.
	KindGraph
)

func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "Singleton"
	case KindContextualSingleton:
		return "ContextualSingleton"
	case KindCollection:
		return "Collection"
	case KindGraph:
		return "Graph"
	default:
		return "Unknown"
	}
}

// SingletonFn is the pure causal function of a singleton causaloid.
type SingletonFn[V any] func(effect.EffectValue[V]) *effect.PropagatingEffect[V]

// ContextualFn is the causal function of a contextual singleton causaloid;
// state and ctx are the opaque capabilities supplied at construction (§3.4).
type ContextualFn[V any] func(ev effect.EffectValue[V], state any, ctx any) *effect.PropagatingEffect[V]

// ContextAccessor resolves the currently active context capability for a
// contextual singleton, returning an error if none is available (§4.4.7).
// It is supplied at construction rather than captured once, since the
// active extra-context id may change between evaluations.
type ContextAccessor func() (any, error)

// SubgraphEvaluator is the engine hook a Graph-kind causaloid delegates to
// (§4.2: "delegate to the engine's evaluate_subgraph_from_cause"). It is
// supplied by internal/reasoning at construction time, not imported
// directly, to avoid a causaloid<->reasoning import cycle.
type SubgraphEvaluator[V any] func(g *graph.FrozenGraph[Causaloid[V]], root uint64, input effect.EffectValue[V]) *effect.PropagatingEffect[V]

// Causaloid is the polymorphic causal function node of §3.4.
type Causaloid[V any] struct {
	id          uint64
	description string
	kind        Kind

	singletonFn SingletonFn[V]

	contextualFn ContextualFn[V]
	ctxState     any
	ctxAccessor  ContextAccessor

	children []*Causaloid[V]
	logic    AggregateLogic

	subgraph    *graph.FrozenGraph[Causaloid[V]]
	subgraphRoot uint64
	subgraphEval SubgraphEvaluator[V]

	mu     sync.Mutex
	active bool
}

// NewSingleton constructs a singleton causaloid.
func NewSingleton[V any](id uint64, description string, fn SingletonFn[V]) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindSingleton, singletonFn: fn}
}

// NewContextualSingleton constructs a context-aware singleton causaloid.
func NewContextualSingleton[V any](id uint64, description string, fn ContextualFn[V], state any, ctxAccessor ContextAccessor) *Causaloid[V] {
	return &Causaloid[V]{
		id: id, description: description, kind: KindContextualSingleton,
		contextualFn: fn, ctxState: state, ctxAccessor: ctxAccessor,
	}
}

// NewCollection constructs a collection causaloid combining children under logic.
func NewCollection[V any](id uint64, description string, children []*Causaloid[V], logic AggregateLogic) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindCollection, children: children, logic: logic}
}

// NewSubgraph constructs a sub-graph causaloid. eval is the engine's
// subgraph evaluation function, bound at construction.
func NewSubgraph[V any](id uint64, description string, g *graph.FrozenGraph[Causaloid[V]], root uint64, eval SubgraphEvaluator[V]) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindGraph, subgraph: g, subgraphRoot: root, subgraphEval: eval}
}

// ID returns the causaloid's identifier, unique within its owning graph.
func (c *Causaloid[V]) ID() uint64 { return c.id }

// Description returns the causaloid's human-readable label.
func (c *Causaloid[V]) Description() string { return c.description }

// Kind reports the causaloid's dispatch kind.
func (c *Causaloid[V]) Kind() Kind { return c.kind }

// IsSingleton reports whether this causaloid is a plain or contextual singleton.
func (c *Causaloid[V]) IsSingleton() bool {
	return c.kind == KindSingleton || c.kind == KindContextualSingleton
}

// CausalCollection returns the child causaloids and logic of a collection
// causaloid, or nil/zero if this is not a collection.
func (c *Causaloid[V]) CausalCollection() ([]*Causaloid[V], AggregateLogic) {
	return c.children, c.logic
}

// CausalGraph returns the owned sub-graph and its root, or nil if this is
// not a sub-graph causaloid.
func (c *Causaloid[V]) CausalGraph() (*graph.FrozenGraph[Causaloid[V]], uint64) {
	return c.subgraph, c.subgraphRoot
}

// IsActive reports whether the most recent singleton evaluation of this
// causaloid returned Value(true) (§4.4.8).
func (c *Causaloid[V]) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ResetActive clears the active flag; called by graph.Freeze on every live
// node (§4.2: "reset by the graph's freeze operation").
func (c *Causaloid[V]) ResetActive() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

func (c *Causaloid[V]) setActiveFrom(result *effect.PropagatingEffect[V]) {
	if result.IsErr() {
		return
	}
	v, ok := result.Value().AsValue()
	if !ok {
		return
	}
	b, boolOK := effect.AsBool(v)
	if !boolOK {
		return
	}
	c.mu.Lock()
	c.active = b
	c.mu.Unlock()
}

// Evaluate dispatches on c.Kind() and runs the matching evaluation strategy
// of §4.2. This is the causaloid package's single match at evaluation entry
// (§9).
func (c *Causaloid[V]) Evaluate(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	switch c.kind {
	case KindSingleton:
		return c.evalSingleton(input)
	case KindContextualSingleton:
		return c.evalContextual(input)
	case KindCollection:
		return c.evalCollection(input)
	case KindGraph:
		return c.evalSubgraph(input)
	default:
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "unknown causaloid kind"))
	}
}

func (c *Causaloid[V]) evalSingleton(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	result := c.singletonFn(input)
	if result.IsOk() && result.Value().IsNone() {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "causal_fn returned None output"))
	}
	c.setActiveFrom(result)
	return result
}

func (c *Causaloid[V]) evalContextual(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	ctx, err := c.ctxAccessor()
	if err != nil {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindContextMissing, "context is missing"))
	}
	result := c.contextualFn(input, c.ctxState, ctx)
	if result.IsOk() && result.Value().IsNone() {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "causal_fn returned None output"))
	}
	c.setActiveFrom(result)
	return result
}

func (c *Causaloid[V]) evalSubgraph(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	if c.subgraphEval == nil || c.subgraph == nil {
		return effect.FromError[V](causalerr.NewCausalityError(causalerr.KindCustom, "sub-graph causaloid has no engine binding"))
	}
	result := c.subgraphEval(c.subgraph, c.subgraphRoot, input)
	c.setActiveFrom(result)
	return result
}

func (c *Causaloid[V]) String() string {
	return fmt.Sprintf("Causaloid{id=%d, kind=%s, description=%q}", c.id, c.kind, c.description)
}
