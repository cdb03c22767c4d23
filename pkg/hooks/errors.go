package hooks

import "fmt"

// HookOutOfContextError is returned when a Use* function is called outside
// the synchronous execution of a render function (spec.md §4.2).
type HookOutOfContextError struct {
	Hook string
}

func (e *HookOutOfContextError) Error() string {
	return fmt.Sprintf("hooks: %s called outside a render function (HookOutOfContext)", e.Hook)
}

// HookOrderViolationError is returned when a render calls a different hook
// sequence than its previous render (spec.md §4.2 "Rules of hooks").
type HookOrderViolationError struct {
	Expected int
	Got      int
	Detail   string
}

func (e *HookOrderViolationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("hooks: hook order changed: %s", e.Detail)
	}
	return fmt.Sprintf("hooks: hook order changed: expected %d hooks, got %d", e.Expected, e.Got)
}

// requireHook fetches the current LifeCycleHook or returns a
// HookOutOfContextError naming the caller.
func requireHook(name string) (*LifeCycleHook, error) {
	h := CurrentHook()
	if h == nil {
		return nil, &HookOutOfContextError{Hook: name}
	}
	return h, nil
}
