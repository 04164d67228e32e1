package effect

// BoolLike lets a payload type opt into boolean traversal control without
// the engine branching on the concrete type of V (§6: "V is opaque... the
// engine has no branch per type"). Types that are not bool and do not
// implement BoolLike simply cannot drive graph short-circuiting.
type BoolLike interface {
	// AsBool reports the value's truth and whether it has one.
	AsBool() (bool, bool)
}

// AsBool extracts a truth value from v: the built-in bool is recognized
// directly, any other type is given a chance via BoolLike, and everything
// else reports ok=false.
func AsBool[V any](v V) (bool, bool) {
	switch x := any(v).(type) {
	case bool:
		return x, true
	case BoolLike:
		return x.AsBool()
	default:
		return false, false
	}
}

// FromBool lifts a bool outcome into V, the inverse of AsBool's built-in
// case. Exact when V is bool; for any other V that does not happen to
// satisfy the assertion, it reports the zero value, matching the engine's
// general stance that graph short-circuiting is only available to V=bool
// or BoolLike-compatible payload types.
func FromBool[V any](b bool) V {
	if v, ok := any(b).(V); ok {
		return v
	}
	var zero V
	return zero
}
