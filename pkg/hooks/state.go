package hooks

import "reflect"

// stateCell is the storage backing one use_state/use_reducer slot.
type stateCell struct {
	value      any
	pending    any
	hasPending bool
}

// Setter is the function returned by UseState/UseReducer. It accepts
// either a plain replacement value or an updater function `func(T) T`
// (spec.md §4.2 use_state). Multiple calls within one synchronous event
// handler are batched: updater functions observe the fold of prior calls
// in this batch, while a plain value instead wins outright over anything
// queued before it (spec.md §4.2, §5 "batching law", §8 invariant 4).
type Setter func(next any)

// UseState returns the current value of this component's next state slot
// and a setter for it. `initial` may be a thunk `func() T` for lazy
// initialization, evaluated only on first render.
func UseState[T any](initial any) (T, Setter, error) {
	h, err := requireHook("UseState")
	if err != nil {
		var zero T
		return zero, nil, err
	}
	if err := h.trackHook(KindState); err != nil {
		var zero T
		return zero, nil, err
	}

	idx, raw := h.nextSlot(KindState, func() any {
		return &stateCell{value: resolveInitial[T](initial)}
	})
	cell := raw.(*stateCell)

	// Fold in any pending writes queued before this render started.
	if cell.hasPending {
		cell.value = cell.pending
		cell.hasPending = false
		cell.pending = nil
	}

	set := func(next any) {
		h.mu.Lock()
		c := h.slots[idx].value.(*stateCell)
		base := c.value
		if c.hasPending {
			base = c.pending
		}
		var newVal any
		if updater, ok := next.(func(T) T); ok {
			newVal = updater(base.(T))
		} else {
			newVal = next
		}
		changed := !stateEqual(base, newVal)
		c.pending = newVal
		c.hasPending = true
		h.mu.Unlock()
		if changed && h.ScheduleRender != nil {
			h.ScheduleRender()
		}
	}

	return cell.value.(T), Setter(set), nil
}

func resolveInitial[T any](initial any) any {
	if thunk, ok := initial.(func() T); ok {
		return thunk()
	}
	return initial.(T)
}

// stateEqual implements the resolved Open Question from spec.md §9:
// Go == for two values of the same comparable type (so pointers compare by
// identity), reflect.DeepEqual for everything else. Setting an equal
// value is a no-op (spec.md §4.2, §8 does not mark it dirty).
func stateEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	av := reflect.ValueOf(a)
	if av.Comparable() && av.Type() == reflect.ValueOf(b).Type() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// UseReducer is UseState with dispatch routed through a reducer function,
// batched the same way (spec.md §4.2 use_reducer).
func UseReducer[S, A any](reducer func(S, A) S, initial S) (S, func(A), error) {
	state, setState, err := UseState[S](initial)
	if err != nil {
		return state, nil, err
	}
	dispatch := func(action A) {
		setState(func(s S) S { return reducer(s, action) })
	}
	return state, dispatch, nil
}
