package hooks

// UseLocation returns the current request's routed location, installed by
// pkg/layout via SetAmbient before rendering (spec.md §4.2 use_location).
// T must match the stored value's type (pkg/transport installs the request
// path as a string); any other T yields the zero value.
func UseLocation[T any]() (T, error) {
	if _, err := requireHook("UseLocation"); err != nil {
		var zero T
		return zero, err
	}
	v, _ := current().location.(T)
	return v, nil
}

// UseConnection exposes metadata about the live client connection
// (pkg/transport installs a ConnectionInfo carrying the remote address and
// negotiated subprotocol) (spec.md §4.2
// use_connection). Returns the zero value outside any connection (e.g.
// server-side prerender).
func UseConnection[T any]() (T, error) {
	if _, err := requireHook("UseConnection"); err != nil {
		var zero T
		return zero, err
	}
	v, _ := current().connection.(T)
	return v, nil
}

// UseScope reads the request-scoped dependency container installed for
// this render (spec.md §4.2 use_scope) — the mechanism application code
// uses to reach request-lifetime services (DB handles, loaders) without a
// package global.
func UseScope[T any]() (T, error) {
	if _, err := requireHook("UseScope"); err != nil {
		var zero T
		return zero, err
	}
	v, _ := current().scope.(T)
	return v, nil
}

// UseDebugValue attaches a label to this instance's hook inspector entry,
// visible only when debug mode is enabled (spec.md §4.2 use_debug_value).
// format, if given, is applied lazily — only when the value is actually
// read by inspection tooling — so expensive formatting never runs in a
// production render.
func UseDebugValue(value any, format func(any) string) error {
	h, err := requireHook("UseDebugValue")
	if err != nil {
		return err
	}
	if !IsDebug() {
		return nil
	}
	h.SetDebugValue(value, format)
	return nil
}
