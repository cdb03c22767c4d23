package layout

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/loomkit/loom/internal/errkind"
	"github.com/loomkit/loom/pkg/vdom"
)

// handlerEntry is one registered event-handler target: which instance
// owns it, and the descriptor the client's event payload is routed
// through (spec.md §4.4 "Handler descriptor").
type handlerEntry struct {
	instance *ComponentInstance
	handler  vdom.Handler
}

// Layout owns the component instance tree and the dirty set of instances
// awaiting render (spec.md §3 "Layout"). It is mutated only by the
// renderer loop and event dispatcher running on the same single task
// (spec.md §5), so its internal bookkeeping does not need to be safe for
// concurrent Render/Deliver calls — only ScheduleRender (called from
// arbitrary goroutines by state setters and effects) is synchronized.
type Layout struct {
	Logger *slog.Logger
	Debug  bool

	// Location, Connection, and Scope are the per-connection ambient
	// values UseLocation, UseConnection, and UseScope read during render
	// (spec.md §4.2). Set them before the first Render call, or any time
	// between renders (e.g. when a route change updates Location); each
	// call to renderOnce installs the current values for that instance's
	// render via hooks.SetAmbient.
	Location   any
	Connection any
	Scope      any

	root *ComponentInstance

	mu    sync.Mutex
	dirty map[*ComponentInstance]struct{}

	handlersMu sync.Mutex
	handlers   map[string]handlerEntry

	// signal is pinged (non-blocking) every time markDirty adds the first
	// entry to an empty dirty set, so a renderer loop can park on Dirty()
	// instead of busy-polling Render() (spec.md §3 "render() : suspend
	// until at least one instance is dirty").
	signal chan struct{}
}

// New creates a Layout mounted on a root component. The root is not
// rendered here: it starts out dirty with the dirty signal already
// pending, so the first Render call renders it and diffs it against an
// empty document.
func New(rootRender func(props any) *vdom.Node, props any) *Layout {
	l := &Layout{
		Logger:   slog.Default(),
		dirty:    make(map[*ComponentInstance]struct{}),
		handlers: make(map[string]handlerEntry),
		signal:   make(chan struct{}, 1),
	}
	l.root = newInstance(rootRender, props, nil, l)
	l.dirty[l.root] = struct{}{}
	l.signal <- struct{}{}
	return l
}

// CurrentTree returns the root instance's last expanded subtree, or nil
// before the first Render call. A renderer uses this to build a full
// resync (spec.md §8 "Reconnect": "the server re-emits a full
// layout-update at path \"\" with the current full VDOM").
func (l *Layout) CurrentTree() *vdom.Node {
	if l.root == nil {
		return nil
	}
	return l.root.Expanded
}

// Dirty returns the channel a renderer loop selects on to learn that at
// least one instance is awaiting render (spec.md §3 "render() : suspend
// until at least one instance is dirty"). A receive from this channel does
// not guarantee the dirty set is still non-empty by the time Render() is
// called — Render() itself is the source of truth and may legitimately
// return an empty patch slice if another goroutine drained it first.
func (l *Layout) Dirty() <-chan struct{} { return l.signal }

func (l *Layout) logf(format string, args ...any) {
	if l.Logger == nil {
		return
	}
	l.Logger.Warn(fmt.Sprintf(format, args...))
}

func (l *Layout) markDirty(inst *ComponentInstance) {
	l.mu.Lock()
	wasEmpty := len(l.dirty) == 0
	l.dirty[inst] = struct{}{}
	l.mu.Unlock()
	if wasEmpty {
		select {
		case l.signal <- struct{}{}:
		default:
		}
	}
}

// Render produces the patches needed to bring the client's DOM up to
// date with every instance marked dirty since the last call (spec.md §3
// "Layout ... reconciles VDOM diffs"). Dirty instances that are
// descendants of another dirty instance are skipped: their ancestor's
// own re-render walk already refreshes them.
func (l *Layout) Render() []vdom.Patch {
	l.mu.Lock()
	roots := l.pruneToTopmost(l.dirty)
	l.dirty = make(map[*ComponentInstance]struct{})
	l.mu.Unlock()

	var patches []vdom.Patch
	for _, inst := range roots {
		prevExpanded := inst.Expanded
		own := make(owners)
		newExpanded := l.renderAndExpand(inst, inst.BasePath, own)
		diffed := vdom.Diff(prevExpanded, newExpanded)
		l.syncHandlers(newExpanded, own)
		l.debugCheck(newExpanded)
		patches = append(patches, diffed...)
		inst.Expanded = newExpanded
	}
	return patches
}

// pruneToTopmost returns the dirty instances that have no dirty ancestor
// in the set, so each independent dirty subtree is processed exactly
// once.
func (l *Layout) pruneToTopmost(dirty map[*ComponentInstance]struct{}) []*ComponentInstance {
	var roots []*ComponentInstance
	for inst := range dirty {
		covered := false
		for a := inst.Parent; a != nil; a = a.Parent {
			if _, ok := dirty[a]; ok {
				covered = true
				break
			}
		}
		if !covered {
			roots = append(roots, inst)
		}
	}
	return roots
}

// Deliver routes a client event to the handler registered under
// targetID, invoking it with payload (spec.md §3 "deliver"). Handlers
// may be synchronous callbacks (func(payload)) or, per spec.md, may
// suspend — callers that want cooperative suspension should run their
// own goroutine from within the callback and call back into the layout
// asynchronously; Deliver itself never blocks longer than the callback's
// own synchronous portion.
func (l *Layout) Deliver(targetID string, payload any) error {
	l.handlersMu.Lock()
	entry, ok := l.handlers[targetID]
	l.handlersMu.Unlock()
	if !ok {
		return errkind.New(errkind.ProtocolFailure, "no handler registered for target "+targetID)
	}

	return l.invokeHandler(entry, payload)
}

func (l *Layout) invokeHandler(entry handlerEntry, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errkind.New(errkind.EventHandlerFailure, fmt.Sprintf("handler panicked: %v", r))
			l.logf("event handler failure in %s: %v", entry.instance.ID(), r)
		}
	}()

	switch cb := entry.handler.Callback.(type) {
	case func():
		cb()
	case func(any):
		cb(payload)
	case func(any) error:
		return cb(payload)
	default:
		return errkind.New(errkind.EventHandlerFailure, "handler callback has an unsupported signature")
	}
	return nil
}
