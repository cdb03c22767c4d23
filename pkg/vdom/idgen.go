package vdom

import (
	"strconv"
	"sync/atomic"
)

var hidCounter uint64

// NewHID mints a fresh, process-unique element identity. Used by Diff
// whenever a node appears for the first time — matched nodes instead
// inherit their counterpart's existing HID (spec.md §4.4 "stable
// identity").
func NewHID() string {
	return "h" + strconv.FormatUint(atomic.AddUint64(&hidCounter, 1), 10)
}

// AssignHIDs recursively mints a fresh HID for every node in a brand new
// subtree (one with no previous counterpart to inherit from), so every
// element within it is individually addressable by later patches.
func AssignHIDs(n *Node) {
	if n == nil {
		return
	}
	if n.Kind == KindElement || n.Kind == KindText {
		n.SetHID(NewHID())
	}
	for _, c := range n.Children {
		AssignHIDs(c)
	}
}
