package hooks

// UseEffect registers setup to run after this render's VDOM has been
// applied, re-running it only when the elements of deps changed since
// the last render (structural equality, per element). A nil deps slice
// means "run after every render"; an empty non-nil slice means "run
// once, on mount" (spec.md §4.2 use_effect).
//
// setup may return a cleanup function, invoked before the next run and
// on unmount, in the reverse order effects were declared.
func UseEffect(setup func() func(), deps []any) error {
	h, err := requireHook("UseEffect")
	if err != nil {
		return err
	}
	if err := h.trackHook(KindEffect); err != nil {
		return err
	}

	_, raw := h.nextSlot(KindEffect, func() any {
		return &EffectRecord{Deps: deps, HasDeps: deps != nil}
	})
	rec := raw.(*EffectRecord)

	first := rec.Setup == nil && !rec.everRan
	changed := first || deps == nil || !depsEqual(rec.Deps, deps)

	rec.Setup = setup
	rec.Deps = deps
	rec.HasDeps = deps != nil

	if changed {
		rec.pending = true
	}

	h.addEffect(rec)
	return nil
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !stateEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
