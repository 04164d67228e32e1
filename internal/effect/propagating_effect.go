// Package effect implements the PropagatingEffect value algebra (§4.1): the
// monadic carrier that flows through a causal reasoning traversal. It is
// pure infrastructure with no dependency on the graph or engine packages.
package effect

// PropagatingEffect is the three-field record of §3.3: a tagged value, an
// optional error, and an append-only log. Errors have priority over values:
// IsOk reports false whenever an error is present, regardless of the value.
//
// This implementation fixes the Rust source's third type parameter (the
// error type E) to the built-in error interface, since idiomatic Go code
// does not generalize over error types (see SPEC_FULL.md §3).
type PropagatingEffect[V any] struct {
	val  EffectValue[V]
	err  error
	logs Log
}

// Pure lifts a bare value into the Value variant with no error and an
// empty log (§4.1 left-identity law).
func Pure[V any](v V) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NewValue(v)}
}

// FromValue is an alias for Pure.
func FromValue[V any](v V) *PropagatingEffect[V] {
	return Pure(v)
}

// FromEffectValue wraps an already-constructed EffectValue with no error.
func FromEffectValue[V any](ev EffectValue[V]) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: ev}
}

// FromError constructs a failed effect carrying err and no value.
func FromError[V any](err error) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NoneValue[V](), err: err}
}

// FromContextualLink constructs an effect naming a contextoid without
// dereferencing it.
func FromContextualLink[V any](contextID, contextoidID uint64) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NewContextualLink[V](contextID, contextoidID)}
}

// FromRelayTo constructs a relay directive effect.
func FromRelayTo[V any](target uint64, boxed *PropagatingEffect[V]) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NewRelayTo(target, boxed)}
}

// FromMap constructs an effect carrying a keyed collection of boxed effects.
func FromMap[V any](m map[uint64]*PropagatingEffect[V]) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NewMapValue(m)}
}

// None constructs the empty effect: no value, no error, no log.
func None[V any]() *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: NoneValue[V]()}
}

// IsOk reports whether the effect carries no error.
func (p *PropagatingEffect[V]) IsOk() bool {
	return p.err == nil
}

// IsErr reports whether the effect carries an error.
func (p *PropagatingEffect[V]) IsErr() bool {
	return p.err != nil
}

// Value returns the effect's tagged value.
func (p *PropagatingEffect[V]) Value() EffectValue[V] {
	return p.val
}

// IntoValue returns the effect's tagged value, mirroring the source's
// owning-move accessor (Go has no move semantics, so this is equivalent to
// Value; callers that intend to discard the effect after should use this
// name for readability).
func (p *PropagatingEffect[V]) IntoValue() EffectValue[V] {
	return p.val
}

// Err returns the effect's error, or nil.
func (p *PropagatingEffect[V]) Err() error {
	return p.err
}

// Logs returns the effect's accumulated log.
func (p *PropagatingEffect[V]) Logs() Log {
	return p.logs
}

// WithLog returns a copy of the effect with msg appended to its log.
func (p *PropagatingEffect[V]) WithLog(msg string) *PropagatingEffect[V] {
	return &PropagatingEffect[V]{val: p.val, err: p.err, logs: p.logs.Append(msg)}
}

// Map applies f to the Value payload, leaving all other variants and any
// error untouched (functor map; §4.1).
func (p *PropagatingEffect[V]) Map(f func(V) V) *PropagatingEffect[V] {
	if p.IsErr() {
		return &PropagatingEffect[V]{val: p.val, err: p.err, logs: p.logs}
	}
	v, ok := p.val.AsValue()
	if !ok {
		return &PropagatingEffect[V]{val: p.val, err: p.err, logs: p.logs}
	}
	return &PropagatingEffect[V]{val: NewValue(f(v)), logs: p.logs}
}

// Ap applies a function carried inside another effect to this effect's
// value (applicative apply; §4.1). Logs from both effects are merged;
// errors take priority, fnEff's error winning over p's.
func (p *PropagatingEffect[V]) Ap(fnEff *PropagatingEffect[func(V) V]) *PropagatingEffect[V] {
	mergedLogs := p.logs.Merge(fnEff.logs)

	if fnEff.IsErr() {
		return &PropagatingEffect[V]{val: NoneValue[V](), err: fnEff.err, logs: mergedLogs}
	}
	if p.IsErr() {
		return &PropagatingEffect[V]{val: NoneValue[V](), err: p.err, logs: mergedLogs}
	}

	fn, fnOk := fnEff.val.AsValue()
	v, vOk := p.val.AsValue()
	if !fnOk || !vOk {
		return &PropagatingEffect[V]{val: p.val, logs: mergedLogs}
	}
	return &PropagatingEffect[V]{val: NewValue(fn(v)), logs: mergedLogs}
}

// Bind sequences this effect into a function producing another effect
// (monadic bind; §4.1). If p carries an error, f is not invoked and the
// same error propagates with logs unchanged (error priority, §8 property 5).
// If p's value is not the Value variant, Bind is the identity (the other
// variants are control signals interpreted by the engine, not monadic
// payloads to sequence over).
func (p *PropagatingEffect[V]) Bind(f func(V) *PropagatingEffect[V]) *PropagatingEffect[V] {
	if p.IsErr() {
		return &PropagatingEffect[V]{val: p.val, err: p.err, logs: p.logs}
	}
	v, ok := p.val.AsValue()
	if !ok {
		return &PropagatingEffect[V]{val: p.val, err: p.err, logs: p.logs}
	}

	next := f(v)
	return &PropagatingEffect[V]{
		val:  next.val,
		err:  next.err,
		logs: p.logs.Merge(next.logs),
	}
}
