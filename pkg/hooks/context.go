package hooks

import "sync"

// Context is a typed value threaded down through a render subtree without
// being passed as an explicit prop (spec.md §4.2 use_context). Unlike the
// teacher's pkg/vango/context.go, which has no subscriber mechanism, a
// Context here tracks every subscribing instance and schedules a re-render
// for it whenever the provided value changes (equality-based), per
// spec.md §4.2 "re-render this component when the provided value
// changes".
type Context[T any] struct {
	mu    sync.Mutex
	stack sync.Map // goroutine id -> []T
	subs  map[*LifeCycleHook]T

	zero T
}

// NewContext creates a context whose default value (seen by UseContext
// when rendered outside any Provide) is zero.
func NewContext[T any]() *Context[T] {
	return &Context[T]{subs: make(map[*LifeCycleHook]T)}
}

// Provide runs render with value visible to any UseContext(ctx) call made
// during its execution (directly or in a nested render on the same
// goroutine), then notifies every subscriber whose last-seen value
// differs from the new one.
func (c *Context[T]) Provide(value T, render func()) {
	gid := getGoroutineID()
	prev, _ := c.stack.Load(gid)
	var stack []T
	if prev != nil {
		stack = prev.([]T)
	}
	c.stack.Store(gid, append(stack, value))
	defer func() {
		if len(stack) == 0 {
			c.stack.Delete(gid)
		} else {
			c.stack.Store(gid, stack)
		}
	}()

	render()

	c.mu.Lock()
	var toNotify []*LifeCycleHook
	for h, last := range c.subs {
		if !stateEqual(last, value) {
			c.subs[h] = value
			toNotify = append(toNotify, h)
		}
	}
	c.mu.Unlock()
	for _, h := range toNotify {
		if h.ScheduleRender != nil {
			h.ScheduleRender()
		}
	}
}

func (c *Context[T]) currentValue() (T, bool) {
	gid := getGoroutineID()
	raw, ok := c.stack.Load(gid)
	if !ok {
		return c.zero, false
	}
	stack := raw.([]T)
	if len(stack) == 0 {
		return c.zero, false
	}
	return stack[len(stack)-1], true
}

// UseContext reads the nearest enclosing Provide(ctx, ...) value on this
// goroutine's call stack, or ctx's zero value if none is in scope, and
// subscribes the current instance to future changes.
func UseContext[T any](ctx *Context[T]) (T, error) {
	h, err := requireHook("UseContext")
	if err != nil {
		var zero T
		return zero, err
	}
	if err := h.trackHook(KindContext); err != nil {
		var zero T
		return zero, err
	}

	value, _ := ctx.currentValue()

	ctx.mu.Lock()
	if _, already := ctx.subs[h]; !already {
		ctx.subs[h] = value
		ctx.mu.Unlock()
		h.AddContextSubscription(ContextSubscription{
			Unsubscribe: func() {
				ctx.mu.Lock()
				delete(ctx.subs, h)
				ctx.mu.Unlock()
			},
		})
	} else {
		ctx.subs[h] = value
		ctx.mu.Unlock()
	}

	return value, nil
}
