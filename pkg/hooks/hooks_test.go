package hooks

import "testing"

func TestUseStateInitialAndUpdate(t *testing.T) {
	h := New()
	var setCount Setter
	var got int

	render := func() {
		h.StartRender()
		h.Render(func() {
			v, set, err := UseState[int](0)
			if err != nil {
				t.Fatalf("UseState: %v", err)
			}
			got = v
			setCount = set
		})
		if err := h.EndRender(); err != nil {
			t.Fatalf("EndRender: %v", err)
		}
	}

	render()
	if got != 0 {
		t.Fatalf("expected initial 0, got %d", got)
	}

	setCount(5)
	render()
	if got != 5 {
		t.Fatalf("expected 5 after set, got %d", got)
	}

	setCount(func(int) int { return 7 })
	render()
	if got != 7 {
		t.Fatalf("expected 7 after updater, got %d", got)
	}
}

func TestUseStateBatchesMultipleSetsBeforeRender(t *testing.T) {
	h := New()
	var setCount Setter
	var got int

	render := func() {
		h.StartRender()
		h.Render(func() {
			v, set, _ := UseState[int](0)
			got = v
			setCount = set
		})
		_ = h.EndRender()
	}

	render()
	setCount(func(n int) int { return n + 1 })
	setCount(func(n int) int { return n + 1 })
	setCount(func(n int) int { return n + 1 })
	render()
	if got != 3 {
		t.Fatalf("expected fold of three increments to equal 3, got %d", got)
	}
}

func TestUseStateNoOpOnEqualValue(t *testing.T) {
	h := New()
	scheduled := 0
	var setCount Setter

	render := func() {
		h.StartRender()
		h.Render(func() {
			_, set, _ := UseState[int](0)
			setCount = set
		})
		_ = h.EndRender()
	}
	render()
	h.ScheduleRender = func() { scheduled++ }

	setCount(0)
	if scheduled != 0 {
		t.Fatalf("expected no schedule for equal value, got %d calls", scheduled)
	}
	setCount(1)
	if scheduled != 1 {
		t.Fatalf("expected one schedule for changed value, got %d", scheduled)
	}
}

func TestUseEffectRunsOnceWithEmptyDeps(t *testing.T) {
	h := New()
	runs := 0

	render := func() {
		h.StartRender()
		h.Render(func() {
			_ = UseEffect(func() func() {
				runs++
				return nil
			}, []any{})
		})
		_ = h.EndRender()
		for _, e := range h.PendingEffects() {
			e.Cleanup = e.Setup()
		}
	}

	render()
	render()
	render()
	if runs != 1 {
		t.Fatalf("expected effect with empty deps to run once, ran %d times", runs)
	}
}

func TestUseEffectReRunsWhenDepsChange(t *testing.T) {
	h := New()
	runs := 0
	dep := 1

	render := func() {
		h.StartRender()
		h.Render(func() {
			_ = UseEffect(func() func() {
				runs++
				return nil
			}, []any{dep})
		})
		_ = h.EndRender()
		for _, e := range h.PendingEffects() {
			e.Cleanup = e.Setup()
		}
	}

	render()
	render()
	if runs != 1 {
		t.Fatalf("expected 1 run with unchanged dep, got %d", runs)
	}
	dep = 2
	render()
	if runs != 2 {
		t.Fatalf("expected re-run after dep change, got %d", runs)
	}
}

func TestUseEffectCleanupRunsOnUnmount(t *testing.T) {
	h := New()
	cleaned := false

	h.StartRender()
	h.Render(func() {
		_ = UseEffect(func() func() {
			return func() { cleaned = true }
		}, []any{})
	})
	_ = h.EndRender()
	for _, e := range h.PendingEffects() {
		e.Cleanup = e.Setup()
	}

	h.Unmount()
	if !cleaned {
		t.Fatal("expected cleanup to run on unmount")
	}
}

func TestUseMemoRecomputesOnlyWhenDepsChange(t *testing.T) {
	h := New()
	computations := 0
	dep := 1

	render := func() int {
		var out int
		h.StartRender()
		h.Render(func() {
			v, _ := UseMemo(func() int {
				computations++
				return dep * 2
			}, []any{dep})
			out = v
		})
		_ = h.EndRender()
		return out
	}

	if v := render(); v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
	render()
	if computations != 1 {
		t.Fatalf("expected memo to skip recompute, got %d computations", computations)
	}
	dep = 5
	if v := render(); v != 10 {
		t.Fatalf("expected 10 after dep change, got %d", v)
	}
	if computations != 2 {
		t.Fatalf("expected recompute after dep change, got %d", computations)
	}
}

func TestUseRefIdentityStableAcrossRenders(t *testing.T) {
	h := New()
	var first, second *Ref[int]

	h.StartRender()
	h.Render(func() {
		r, _ := UseRef(0)
		first = r
	})
	_ = h.EndRender()

	first.Current = 42

	h.StartRender()
	h.Render(func() {
		r, _ := UseRef(0)
		second = r
	})
	_ = h.EndRender()

	if first != second {
		t.Fatal("expected same *Ref identity across renders")
	}
	if second.Current != 42 {
		t.Fatalf("expected mutation to persist, got %d", second.Current)
	}
}

func TestUseContextReceivesProvidedValueAndRerendersOnChange(t *testing.T) {
	ctx := NewContext[string]()
	h := New()
	scheduled := 0
	h.ScheduleRender = func() { scheduled++ }

	var seen string
	renderChild := func() {
		h.StartRender()
		h.Render(func() {
			v, _ := UseContext(ctx)
			seen = v
		})
		_ = h.EndRender()
	}

	ctx.Provide("hello", renderChild)
	if seen != "hello" {
		t.Fatalf("expected %q, got %q", "hello", seen)
	}

	ctx.Provide("hello", func() {})
	if scheduled != 0 {
		t.Fatalf("expected no schedule for unchanged value, got %d", scheduled)
	}

	ctx.Provide("world", func() {})
	if scheduled != 1 {
		t.Fatalf("expected schedule after value change, got %d", scheduled)
	}
}

func TestHookOutOfContextError(t *testing.T) {
	if _, _, err := UseState[int](0); err == nil {
		t.Fatal("expected HookOutOfContextError outside a render")
	} else if _, ok := err.(*HookOutOfContextError); !ok {
		t.Fatalf("expected *HookOutOfContextError, got %T", err)
	}
}

func TestHookOrderViolationDetected(t *testing.T) {
	h := New()
	h.StartRender()
	h.Render(func() {
		_, _, _ = UseState[int](0)
		_, _ = UseRef(0)
	})
	if err := h.EndRender(); err != nil {
		t.Fatalf("first render should record order cleanly: %v", err)
	}

	h.StartRender()
	h.Render(func() {
		_, _, _ = UseState[int](0)
		_ = UseEffect(func() func() { return nil }, nil)
	})
	if err := h.EndRender(); err == nil {
		t.Fatal("expected HookOrderViolationError after swapping hook kinds")
	}
}
