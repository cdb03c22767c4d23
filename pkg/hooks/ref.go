package hooks

// Ref is a mutable box that survives across renders without itself
// triggering one when written to (spec.md §4.2 use_ref).
type Ref[T any] struct {
	Current T
}

// UseRef returns the same *Ref identity on every render of this instance,
// initialized to `initial` only on the first.
func UseRef[T any](initial T) (*Ref[T], error) {
	h, err := requireHook("UseRef")
	if err != nil {
		return nil, err
	}
	if err := h.trackHook(KindRef); err != nil {
		return nil, err
	}

	_, raw := h.nextSlot(KindRef, func() any {
		return &Ref[T]{Current: initial}
	})
	return raw.(*Ref[T]), nil
}
