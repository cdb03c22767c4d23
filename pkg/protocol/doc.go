// Package protocol defines the JSON wire format between a Layout and its
// transport (spec.md §6 "Transport"). Every message is a JSON object with a
// "type" discriminator:
//
//   - "layout-update" (server -> client): a batch of patches against the
//     client's mirror of the VDOM, addressed by JSON pointer.
//   - "layout-event" (client -> server): one serialized DOM event routed to
//     a handler target ID.
//   - "resync-request" / "resync-response": reconnect recovery, grounded on
//     the teacher's ControlResyncRequest/ControlResyncPatches/
//     ControlResyncFull control messages (pkg/protocol/control.go), adapted
//     from a binary varint encoding to JSON.
//
// Unlike the teacher's binary codec (varint-encoded frames optimized for
// bandwidth), this package encodes everything with encoding/json: spec.md §6
// specifies a JSON message transport, and the engine's deployment target is
// a browser WebSocket client rather than a bandwidth-constrained peer.
package protocol
