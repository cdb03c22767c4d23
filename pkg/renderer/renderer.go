package renderer

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/loomkit/loom/internal/errkind"
	"github.com/loomkit/loom/pkg/layout"
	"github.com/loomkit/loom/pkg/protocol"
	"github.com/loomkit/loom/pkg/vdom"
)

// Renderer drives one Layout for a single connection (spec.md §4.5
// "Per-connection renderer: one layout per connection; sends updates on
// that connection's channel; private state"), grounded on the teacher's
// per-Session ReadLoop/EventLoop/WriteLoop triad (pkg/server/websocket.go).
type Renderer struct {
	Layout  *layout.Layout
	Logger  *slog.Logger
	History *History

	seq atomic.Uint64

	middleware []Middleware
}

// Middleware wraps delivery of one inbound layout-event, in registration
// order (first registered is outermost), grounded on the teacher's
// router.Middleware chain (pkg/router/middleware.go) but retargeted at
// event dispatch instead of HTTP routing, since this engine has no HTTP
// route table of its own. Call next to continue the chain; returning
// without calling it short-circuits delivery.
type Middleware func(target string, payload any, next func() error) error

// Use appends mw to the middleware chain.
func (r *Renderer) Use(mw Middleware) {
	r.middleware = append(r.middleware, mw)
}

// New creates a Renderer over l with a patch-history window sized
// historyCapacity (0 selects DefaultHistoryCapacity).
func New(l *layout.Layout, historyCapacity int) *Renderer {
	return &Renderer{
		Layout:  l,
		Logger:  l.Logger,
		History: NewHistory(historyCapacity),
	}
}

func (r *Renderer) logf(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Warn(msg, args...)
	}
}

// nextSeq assigns the next monotonically increasing patch-batch sequence
// number, used both on the wire (protocol.LayoutUpdateMessage.Seq) and as
// the History index for resync.
func (r *Renderer) nextSeq() uint64 { return r.seq.Add(1) }

// Run drives the renderer loop until ctx is cancelled or recv is closed
// (spec.md §4.5 "Loop semantics"): concurrently (a) await the next update
// from the layout and forward it as a layout-update message, (b) await the
// next incoming message and, if it is layout-event, deliver it to the
// layout. send and recv model one connection's outbound/inbound halves of
// the transport (spec.md §9 "task + channels" design note) — a real
// transport adapter (pkg/transport) wires these to a WebSocket connection.
func (r *Renderer) Run(ctx context.Context, send func([]byte) error, recv <-chan []byte) error {
	errCh := make(chan error, 2)

	go func() { errCh <- r.runOutbound(ctx, send) }()
	go func() { errCh <- r.runInbound(ctx, recv) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Renderer) runOutbound(ctx context.Context, send func([]byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.Layout.Dirty():
			if err := r.renderAndSend(send); err != nil {
				return err
			}
		}
	}
}

// renderAndSend drains the current dirty set, wraps it as a
// layout-update message, records it in history, and sends it. A render
// pass that yields no patches (every dirty mark was a no-op update, per
// spec.md §4.2 "Setting an equal value ... is a no-op") sends nothing.
func (r *Renderer) renderAndSend(send func([]byte) error) error {
	patches := r.Layout.Render()
	if len(patches) == 0 {
		return nil
	}
	wire := protocol.FromPatches(patches)
	seq := r.nextSeq()
	r.History.Add(seq, wire)

	msg := protocol.NewLayoutUpdateMessage(seq, wire)
	b, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return send(b)
}

func (r *Renderer) runInbound(ctx context.Context, recv <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-recv:
			if !ok {
				return errkind.New(errkind.ClientDisconnected, "inbound channel closed")
			}
			r.handleInbound(raw, nil)
		}
	}
}

// handleInbound decodes one raw inbound message and dispatches it. respond,
// when non-nil, is called with the encoded bytes of a direct reply (used by
// resync requests, which answer out of band from the dirty-triggered
// outbound stream); Run itself never needs one since a plain event message
// produces no direct reply.
func (r *Renderer) handleInbound(raw []byte, respond func([]byte) error) {
	typ, err := protocol.DecodeMessageType(raw)
	if err != nil {
		r.logf("protocol failure decoding message envelope", "error", err)
		return
	}

	switch typ {
	case protocol.TypeLayoutEvent:
		r.deliverEvent(raw)
	case protocol.TypeResyncRequest:
		if respond != nil {
			r.handleResync(raw, respond)
		}
	default:
		r.logf("protocol failure: unhandled message type", "type", typ)
	}
}

func (r *Renderer) deliverEvent(raw []byte) {
	ev, err := protocol.DecodeLayoutEvent(raw)
	if err != nil {
		r.logf("protocol failure decoding layout-event", "error", err)
		return
	}

	var payload any
	if len(ev.Data) > 0 {
		args := make([]any, 0, len(ev.Data))
		for _, d := range ev.Data {
			sev, generic, decErr := protocol.DecodeSerializedEvent(d)
			if decErr != nil {
				r.logf("protocol failure decoding event argument", "error", decErr)
				continue
			}
			if sev != nil {
				args = append(args, sev)
			} else {
				args = append(args, generic)
			}
		}
		if len(args) == 1 {
			payload = args[0]
		} else {
			payload = args
		}
	}

	if err := r.dispatch(ev.Target, payload); err != nil {
		// spec.md §9 open question: drop + log for a target released by
		// an in-flight unmount, same as any other delivery failure.
		r.logf("event delivery failed", "target", ev.Target, "error", err)
	}
}

// dispatch runs the middleware chain (outermost first) around the actual
// layout delivery.
func (r *Renderer) dispatch(target string, payload any) error {
	next := func() error { return r.Layout.Deliver(target, payload) }
	for i := len(r.middleware) - 1; i >= 0; i-- {
		mw := r.middleware[i]
		prev := next
		next = func() error { return mw(target, payload, prev) }
	}
	return next()
}

// handleResync answers a reconnecting client's resync-request with either
// the missed patches still in History, or a full re-render of the current
// tree when the requested sequence has aged out of the window (spec.md §8
// "Reconnect").
func (r *Renderer) handleResync(raw []byte, respond func([]byte) error) {
	req, err := protocol.DecodeResyncRequest(raw)
	if err != nil {
		r.logf("protocol failure decoding resync-request", "error", err)
		return
	}

	var msg *protocol.ResyncResponseMessage
	if patches, ok := r.History.Since(req.LastSeq); ok {
		msg = protocol.NewResyncPatches(req.LastSeq, patches)
	} else {
		msg = protocol.NewResyncFull(protocol.NodeToWire(r.FullTree()))
	}

	b, err := protocol.Encode(msg)
	if err != nil {
		r.logf("failed to encode resync response", "error", err)
		return
	}
	if err := respond(b); err != nil {
		r.logf("failed to send resync response", "error", err)
	}
}

// FullTree returns the layout's current full VDOM, the payload of a full
// resync or of the very first layout-update a connection ever receives.
func (r *Renderer) FullTree() *vdom.Node { return r.Layout.CurrentTree() }
