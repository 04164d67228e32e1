// Package deepcausality re-exports the constructors and types most callers
// need to embed the engine, so an external caller does not have to import
// seven internal packages just to build a graph and reason over it. The
// machinery itself lives under internal/ and is documented there; this file
// only aliases and thin generic wrappers (Go does not allow a package-level
// var to be generic, so every re-exported generic function gets a one-line
// forwarding func instead).
package deepcausality

import (
	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/config"
	"github.com/deepcausality-go/deepcausality/internal/context"
	"github.com/deepcausality-go/deepcausality/internal/csm"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/ethos"
	"github.com/deepcausality-go/deepcausality/internal/graph"
	"github.com/deepcausality-go/deepcausality/internal/inferable"
	"github.com/deepcausality-go/deepcausality/internal/reasoning"
)

// Effect algebra (C1).
type (
	PropagatingEffect[V any] = effect.PropagatingEffect[V]
	EffectValue[V any]       = effect.EffectValue[V]
	Log                      = effect.Log
)

func Pure[V any](v V) *PropagatingEffect[V]                 { return effect.Pure[V](v) }
func NewValue[V any](v V) EffectValue[V]                    { return effect.NewValue[V](v) }
func NoneValue[V any]() EffectValue[V]                       { return effect.NoneValue[V]() }
func FromError[V any](err error) *PropagatingEffect[V]       { return effect.FromError[V](err) }
func FromRelayTo[V any](target uint64, boxed *PropagatingEffect[V]) *PropagatingEffect[V] {
	return effect.FromRelayTo[V](target, boxed)
}
func AsBool[V any](v V) (bool, bool) { return effect.AsBool[V](v) }

// Causaloid (C2).
type (
	Causaloid[V any]    = causaloid.Causaloid[V]
	SingletonFn[V any]  = causaloid.SingletonFn[V]
	ContextualFn[V any] = causaloid.ContextualFn[V]
	AggregateLogic      = causaloid.AggregateLogic
)

func NewSingleton[V any](id uint64, description string, fn SingletonFn[V]) *Causaloid[V] {
	return causaloid.NewSingleton[V](id, description, fn)
}

func NewCollection[V any](id uint64, description string, children []*Causaloid[V], logic AggregateLogic) *Causaloid[V] {
	return causaloid.NewCollection[V](id, description, children, logic)
}

// Causal graph substrate (C3).
type (
	DynamicGraph[N any] = graph.DynamicGraph[N]
	FrozenGraph[N any]  = graph.FrozenGraph[N]
)

func NewDynamicGraph[N any]() *DynamicGraph[N] {
	return graph.NewDynamicGraph[N]()
}

// Causal Reasoning Engine (C4).
type Engine[V any] = reasoning.Engine[V]

func NewEngine[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]]) *Engine[V] {
	return reasoning.NewEngine[V](g)
}

func NewEngineWithConfig[V any](g *graph.FrozenGraph[causaloid.Causaloid[V]], cfg *Config) *Engine[V] {
	return reasoning.NewEngineWithConfig[V](g, cfg)
}

// Configuration (ambient stack).
type (
	Config        = config.Config
	GraphConfig   = config.GraphConfig
	EngineConfig  = config.EngineConfig
	LoggingConfig = config.LoggingConfig
)

func DefaultConfig() *Config       { return config.Default() }
func LoadConfig() (*Config, error) { return config.Load() }
func LoadConfigFromFile(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// Context / Contextoid graph (C5).
type (
	Contextoid   = context.Contextoid
	ContextGraph = context.ContextGraph
	System       = context.System
)

func NewContextGraph() *ContextGraph {
	return context.NewContextGraph()
}

func NewSystem(primary *ContextGraph) *System {
	return context.NewSystem(primary)
}

// Causal State Machine (C6).
type (
	CausalState[V any] = csm.CausalState[V]
	CausalAction       = csm.CausalAction
	StatePair[V any]   = csm.StatePair[V]
	CSM[V any]         = csm.CSM[V]
)

func NewCSM[V any](pairs []StatePair[V], effectEthos ethos.EffectEthos, tags []string) *CSM[V] {
	return csm.NewCSM[V](pairs, effectEthos, tags)
}

func NewCausalState[V any](id uint64, cause *Causaloid[V], defaultInput V, version uint64, ctx any) *CausalState[V] {
	return csm.NewCausalState[V](id, cause, defaultInput, version, ctx)
}

// External governance contract (§6).
type (
	EffectEthos    = ethos.EffectEthos
	Verdict        = ethos.Verdict
	ProposedAction = ethos.ProposedAction
	Outcome        = ethos.Outcome
)

// Inferable / Observable helpers (C7).
type (
	InferableItem       = inferable.Item
	EmbeddingObservable = inferable.EmbeddingObservable
)

// Error taxonomy (§7).
var (
	ErrGraphNotFrozen = causalerr.ErrGraphNotFrozen
	ErrEmptyGraph     = causalerr.ErrEmptyGraph
	ErrNodeMissing    = causalerr.ErrNodeMissing
	ErrEdgeMissing    = causalerr.ErrEdgeMissing
	ErrNoPath         = causalerr.ErrNoPath
)
