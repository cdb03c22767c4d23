package hooks

import (
	"runtime"
	"sync"
)

// renderContext holds the reactive state for one goroutine. Each goroutine
// gets its own so that concurrent layouts never interfere with each
// other's "currently rendering hook" (spec.md §9).
type renderContext struct {
	current *LifeCycleHook
	debug   bool

	location   any
	connection any
	scope      any
}

var renderContexts sync.Map // goroutine id -> *renderContext

// getGoroutineID extracts the calling goroutine's id from its stack trace.
// This is an implementation detail, not part of any public contract.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func current() *renderContext {
	gid := getGoroutineID()
	if ctx, ok := renderContexts.Load(gid); ok {
		return ctx.(*renderContext)
	}
	ctx := &renderContext{}
	renderContexts.Store(gid, ctx)
	return ctx
}

// CurrentHook returns the LifeCycleHook currently rendering on this
// goroutine, or nil if no render is in progress.
func CurrentHook() *LifeCycleHook {
	return current().current
}

// withHook runs fn with h set as the current LifeCycleHook, restoring the
// previous value afterward. Exported as Render on *LifeCycleHook.
func withHook(h *LifeCycleHook, fn func()) {
	ctx := current()
	prev := ctx.current
	ctx.current = h
	defer func() { ctx.current = prev }()
	fn()
}

// DebugMode is a process-wide flag (spec.md §6 "Debug mode"). It is read
// via IsDebug, a goroutine-local override lets tests toggle it without a
// global data race, but the documented default path is the package var.
var DebugMode bool

// IsDebug reports whether debug mode is active for the calling goroutine.
func IsDebug() bool {
	if current().debug {
		return true
	}
	return DebugMode
}

// SetDebug forces debug mode for the calling goroutine only; used by tests.
func SetDebug(v bool) { current().debug = v }

// SetAmbient installs the per-connection values UseLocation, UseConnection,
// and UseScope read during this goroutine's render (spec.md §4.2). Called
// by pkg/layout before rendering each instance on behalf of a session.
func SetAmbient(location, connection, scope any) {
	ctx := current()
	ctx.location = location
	ctx.connection = connection
	ctx.scope = scope
}
