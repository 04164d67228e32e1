package csm

import (
	"sort"
	"sync"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/effect"
	"github.com/deepcausality-go/deepcausality/internal/ethos"
)

// CSM is the Causal State Machine of §3.7: a map of state id to
// (CausalState, CausalAction), guarded by a single reader-writer lock
// rather than per-state locks, since state mutations are rare relative to
// evaluations (§5).
type CSM[V any] struct {
	mu           sync.RWMutex
	stateActions map[uint64]StatePair[V]
	ethos        ethos.EffectEthos
	tags         []string
}

// NewCSM constructs a CSM from the given state/action pairs. ethosImpl and
// tags are optional (pass nil/empty); if ethosImpl is supplied but not
// verified, construction panics (§4.6: "the ethos must be verified... or
// construction panics").
func NewCSM[V any](pairs []StatePair[V], ethosImpl ethos.EffectEthos, tags []string) *CSM[V] {
	if ethosImpl != nil && !ethosImpl.IsVerified() {
		panic("csm: ethos supplied but not verified")
	}
	m := make(map[uint64]StatePair[V], len(pairs))
	for _, p := range pairs {
		m[p.State.ID()] = p
	}
	return &CSM[V]{stateActions: m, ethos: ethosImpl, tags: tags}
}

// AddSingleState adds pair. Fails if its state id already exists.
func (c *CSM[V]) AddSingleState(pair StatePair[V]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := pair.State.ID()
	if _, exists := c.stateActions[id]; exists {
		return causalerr.NewUpdateError(causalerr.UpdateStateExists, id)
	}
	c.stateActions[id] = pair
	return nil
}

// RemoveSingleState removes the state under id. Fails if id is absent.
func (c *CSM[V]) RemoveSingleState(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.stateActions[id]; !exists {
		return causalerr.NewUpdateError(causalerr.UpdateStateMissing, id)
	}
	delete(c.stateActions, id)
	return nil
}

// UpdateSingleState replaces the pair under pair.State.ID(). Fails if that
// id does not already exist.
func (c *CSM[V]) UpdateSingleState(pair StatePair[V]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := pair.State.ID()
	if _, exists := c.stateActions[id]; !exists {
		return causalerr.NewUpdateError(causalerr.UpdateStateMissing, id)
	}
	c.stateActions[id] = pair
	return nil
}

// UpdateAllStates atomically replaces the entire state/action map.
func (c *CSM[V]) UpdateAllStates(pairs []StatePair[V]) {
	m := make(map[uint64]StatePair[V], len(pairs))
	for _, p := range pairs {
		m[p.State.ID()] = p
	}
	c.mu.Lock()
	c.stateActions = m
	c.mu.Unlock()
}

// Len reports the number of registered states.
func (c *CSM[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stateActions)
}

// EvalSingleState evaluates the state under id against input and fires its
// action per the firing discipline of §4.6 / §8 property 9:
//   - Value(true): fire the action (subject to ethos approval, if any).
//   - Value(false): succeed without firing.
//   - anything else: CsmError wrapping "invalid non-deterministic effect".
func (c *CSM[V]) EvalSingleState(id uint64, input effect.EffectValue[V]) error {
	c.mu.RLock()
	pair, exists := c.stateActions[id]
	c.mu.RUnlock()
	if !exists {
		return causalerr.NewUpdateError(causalerr.UpdateStateMissing, id)
	}
	return c.evalPair(pair, input)
}

// EvalAllStates applies EvalSingleState's discipline to every registered
// state, in ascending id order for determinism, short-circuiting on the
// first failure (§4.6).
func (c *CSM[V]) EvalAllStates(input effect.EffectValue[V]) error {
	c.mu.RLock()
	ids := make([]uint64, 0, len(c.stateActions))
	pairs := make(map[uint64]StatePair[V], len(c.stateActions))
	for id, p := range c.stateActions {
		ids = append(ids, id)
		pairs[id] = p
	}
	c.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := c.evalPair(pairs[id], input); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSM[V]) evalPair(pair StatePair[V], input effect.EffectValue[V]) error {
	result := pair.State.EvalWithData(input)
	if result.IsErr() {
		return result.Err()
	}

	v, isValue := result.Value().AsValue()
	if !isValue {
		return causalerr.NewActionCsmError(causalerr.NewActionError("invalid non-deterministic effect"))
	}
	truth, ok := effect.AsBool(v)
	if !ok {
		return causalerr.NewActionCsmError(causalerr.NewActionError("invalid non-deterministic effect"))
	}
	if !truth {
		return nil
	}

	if c.ethos != nil {
		proposed := ethos.ProposedAction{StateID: pair.State.ID()}
		verdict := c.ethos.EvaluateAction(proposed, pair.State.Context(), c.tags)
		if verdict.Outcome == ethos.OutcomeImpermissible {
			return causalerr.NewForbiddenError(c.ethos.ExplainVerdict(verdict))
		}
	}

	if actionErr := pair.Action(); actionErr != nil {
		return causalerr.NewActionCsmError(actionErr)
	}
	return nil
}
