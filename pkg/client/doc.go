// Package client is a Go-modeled thin-client reconciler (spec.md §4.6
// "Client Reconciler"): it applies layout-update patches to a local mirror
// of the server's VDOM and drives an abstract DOM binding (Port) to keep a
// real document in sync. It is grounded on the addressing scheme
// pkg/vdom.Diff already emits (JSON-pointer paths rooted at "", stable
// HIDs for elements) and on the teacher's hydration-era HID design
// (formerly pkg/vdom/hydration.go, now pkg/vdom/idgen.go) for the idea of
// a process-wide stable element identity that survives reconciliation.
//
// There is no literal browser DOM available to this Go process, so Port
// stands in for "the browser's DOM library used by the client for actual
// mounting" that spec.md §1 calls out as explicitly out of scope: a real
// client embeds this reconciler's patch-application logic and supplies a
// Port backed by actual DOM calls (or, as in FakePort, an in-memory model
// used for testing the reconciliation logic itself).
package client
