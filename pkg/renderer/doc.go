// Package renderer implements the task+channel state machine that bridges
// a pkg/layout.Layout to a transport (spec.md §4.5 "Renderer Loop"). Two
// variants share the same primitives:
//
//   - Renderer: one Layout per connection, grounded on the teacher's
//     per-Session ReadLoop/WriteLoop/EventLoop goroutine triad
//     (pkg/server/websocket.go) and its dispatchCh/renderCh/events channel
//     layout, collapsed here into one outbound goroutine awaiting
//     Layout.Dirty() and one inbound goroutine awaiting transport messages.
//   - Shared: one Layout serving many connections, each with its own
//     initial-sync snapshot plus a subscription to the live patch
//     broadcast, grounded on the teacher's SessionManager fan-out
//     (pkg/server/manager.go).
//
// Both carry a bounded patch-history ring buffer (History, adapted from
// the teacher's PatchHistory in pkg/server/patch_history.go) so a client
// that drops and reconnects within the window can resync incrementally
// instead of always paying for a full-tree re-send (spec.md §8
// "Reconnect"; SPEC_FULL.md §D.1). Only Shared answers resync-request
// messages, through HandleMessage; Renderer.Run ignores them.
package renderer
