package client

import "github.com/loomkit/loom/pkg/protocol"

// Port is the pluggable DOM binding the reconciler drives. Every method
// addresses a node by the id the reconciler assigned it at mount time —
// the server's HID when the wire form carried one, a locally synthesized
// id (newLocalID) otherwise (text leaves never carry a HID on the
// wire; see NodeToWire in pkg/protocol/vnode.go).
type Port interface {
	// CreateElement creates a new, unattached element node of the given
	// tag (an empty tag never reaches Port — fragments have no DOM
	// representation and the reconciler flattens their children).
	CreateElement(id, tag string)
	// CreateText creates a new, unattached text node.
	CreateText(id, text string)

	SetText(id, text string)
	SetAttr(id, name, value string)
	RemoveAttr(id, name string)

	// Insert attaches the node identified by id as the child at index of
	// parentID ("" addresses the client's root mount container). Real DOM
	// insertBefore semantics apply: a node that already has a parent is
	// moved rather than duplicated, so Insert also implements Move.
	Insert(parentID string, index int, id string)
	// Remove detaches id (and, in a real DOM, everything beneath it) from
	// its parent.
	Remove(id string)

	AddEventListener(id, event, targetID string, preventDefault, stopPropagation bool)
	RemoveEventListener(id, event string)

	// EvalInlineScript evaluates code (the text content of a no-attribute
	// <script> element, spec.md §4.6 "Script elements"). If evaluation
	// yields a function, the Port calls it immediately and returns its
	// return value as cleanup, called again later on unmount or content
	// change; otherwise cleanup is nil.
	EvalInlineScript(id, code string) (cleanup func(), err error)

	// BindImportSource loads the module referenced by source and calls
	// its bind(node, {sendMessage, onMessage}) entry (spec.md §4.6
	// "Import-source elements"), returning the binding that subsequently
	// owns rendering of the subtree rooted at id.
	BindImportSource(id string, source protocol.ImportSourceWire) (ImportBinding, error)
}

// ImportBinding is the {create, render, unmount} triple an import-source
// module's bind() call returns. Render receives the raw wire form of the
// node's children each time the server re-renders that subtree; Unmount
// is called when the bound node itself is torn down.
type ImportBinding interface {
	Render(children []any)
	Unmount()
}
