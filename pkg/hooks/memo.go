package hooks

// memoCell caches a computed value alongside the deps that produced it.
type memoCell struct {
	value any
	deps  []any
	set   bool
}

// UseMemo recomputes compute() only when deps changed since the last
// render, otherwise returning the cached value (spec.md §4.2 use_memo).
func UseMemo[T any](compute func() T, deps []any) (T, error) {
	h, err := requireHook("UseMemo")
	if err != nil {
		var zero T
		return zero, err
	}
	if err := h.trackHook(KindMemo); err != nil {
		var zero T
		return zero, err
	}

	_, raw := h.nextSlot(KindMemo, func() any {
		return &memoCell{value: compute(), deps: deps, set: true}
	})
	cell := raw.(*memoCell)

	if cell.set && depsEqual(cell.deps, deps) {
		return cell.value.(T), nil
	}
	cell.value = compute()
	cell.deps = deps
	cell.set = true
	return cell.value.(T), nil
}

// UseCallback is UseMemo specialized to functions: it returns the same
// function identity across renders as long as deps are unchanged, so
// consumers (e.g. child prop comparisons, effect deps) can rely on
// reference stability (spec.md §4.2 use_callback).
func UseCallback[F any](fn F, deps []any) (F, error) {
	return UseMemo(func() F { return fn }, deps)
}
