// Package csm implements the Causal State Machine (§3.7, §4.6): a map of
// state to action that evaluates states against input effects and fires
// admissible actions, optionally gated by an EffectEthos.
package csm

import (
	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/causaloid"
	"github.com/deepcausality-go/deepcausality/internal/effect"
)

// CausalState references a causaloid plus the default input data and
// version a CSM associates with one state id (§3.7).
type CausalState[V any] struct {
	id           uint64
	cause        *causaloid.Causaloid[V]
	defaultInput V
	version      uint64
	ctx          any
}

// NewCausalState constructs a CausalState. ctx is the opaque context value
// passed to an ethos's EvaluateAction when this state fires (§4.6).
func NewCausalState[V any](id uint64, cause *causaloid.Causaloid[V], defaultInput V, version uint64, ctx any) *CausalState[V] {
	return &CausalState[V]{id: id, cause: cause, defaultInput: defaultInput, version: version, ctx: ctx}
}

// ID returns the state's identifier.
func (s *CausalState[V]) ID() uint64 { return s.id }

// Version returns the state's version.
func (s *CausalState[V]) Version() uint64 { return s.version }

// Context returns the opaque context value associated with this state.
func (s *CausalState[V]) Context() any { return s.ctx }

// EvalWithData evaluates the state's causaloid against input, falling back
// to the state's default input when input is the None variant.
func (s *CausalState[V]) EvalWithData(input effect.EffectValue[V]) *effect.PropagatingEffect[V] {
	if input.IsNone() {
		return s.cause.Evaluate(effect.NewValue(s.defaultInput))
	}
	return s.cause.Evaluate(input)
}

// CausalAction is a side-effecting thunk fired when its paired state
// evaluates true and ethos (if any) approves. It returns nil on success or
// an ActionError describing the failure.
type CausalAction func() *causalerr.ActionError

// StatePair binds one CausalState to the CausalAction the CSM fires for it.
type StatePair[V any] struct {
	State  *CausalState[V]
	Action CausalAction
}
