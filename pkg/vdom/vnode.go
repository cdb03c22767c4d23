package vdom

// Kind discriminates the variants of the Node union (spec.md §3).
type Kind uint8

const (
	// KindElement is a tagged element. An empty Tag is a transparent
	// fragment: it participates in identity but emits no DOM element.
	KindElement Kind = iota
	// KindText is a plain text leaf.
	KindText
	// KindComponent is an unexpanded component call site: a (render
	// function, props, key-or-index) triple at a position in the tree
	// (spec.md §3 "A component instance is created the first time its
	// (parent, key-or-index, render-function) triple appears at a
	// position"). pkg/layout expands every KindComponent node into its
	// rendered host subtree before a tree ever reaches Diff; this package
	// only describes the call, it never interprets it.
	KindComponent
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Node is the VDOM node: an Element (Kind == KindElement) or a Text leaf
// (Kind == KindText). An Element with Tag == "" is a fragment: its Children
// are spliced into the parent's child list without a wrapper (spec.md §4.3).
// A nil *Node in a child slot is the "zero-width node" produced when a
// render function returns nil.
type Node struct {
	Kind Kind

	// Tag is the element tag name. Empty means "fragment".
	Tag string

	// Attrs holds normalized attribute values. A value is either a string
	// or, for "style", a map[string]string of camelCased style properties.
	Attrs map[string]any

	// Events maps an event name ("click", "submit", ...) to its handler
	// descriptor. Populated by the On builders in this package; pkg/layout
	// assigns each handler's TargetID during reconciliation.
	Events map[string]Handler

	Children []*Node

	// Key scopes reconciliation identity over siblings under one parent
	// (spec.md §3 identity rule). Empty means "no key; match by position".
	Key string

	// Import, when non-nil, means this element is rendered by a
	// browser-side module rather than the normal tag path.
	Import *ImportSource

	// Text is the literal content of a KindText leaf.
	Text string

	// Render is the component function of a KindComponent node. It is
	// compared by identity (reflect.Value.Pointer) to decide whether a
	// position's instance survives a re-render (spec.md §3).
	Render func(props any) *Node

	// Props are the current arguments passed to Render.
	Props any

	// Error carries a render-failure message (spec.md §7). Only ever
	// populated by the layout, and only rendered client-side in debug
	// mode (spec.md §6 "Debug mode").
	Error string

	// hid is the handler-target-independent hydration identity assigned
	// by the layout to interactive elements so that diffs can address a
	// stable position across renders. It is not part of the public VDOM
	// JSON shape (spec.md §6) and is therefore unexported.
	hid string
}

// HID returns the element's assigned identity, or "" if none has been
// assigned yet (e.g. a freshly built node that the layout has not diffed).
func (n *Node) HID() string { return n.hid }

// SetHID assigns the element's identity. Used by Diff and AssignHIDs.
func (n *Node) SetHID(hid string) { n.hid = hid }

// IsFragment reports whether n is a transparent fragment.
func (n *Node) IsFragment() bool {
	return n != nil && n.Kind == KindElement && n.Tag == ""
}

// IsComponent reports whether n is an unexpanded component call site.
func (n *Node) IsComponent() bool {
	return n != nil && n.Kind == KindComponent
}

// HasEventHandlers reports whether n carries any event handler.
func (n *Node) HasEventHandlers() bool {
	return n != nil && len(n.Events) > 0
}

// Handler is the opaque target + dispatch-flag descriptor for one event
// registration (spec.md §3 "Handler descriptor"). TargetID is assigned by
// the layout on first emission and held stable for the life of the
// registration (spec.md §4.4); it is globally unique within one layout.
type Handler struct {
	TargetID         string
	PreventDefault   bool
	StopPropagation  bool
	Callback         any
}

// SourceType distinguishes how the client resolves an ImportSource.Source.
type SourceType uint8

const (
	// SourceURL means the client imports the literal URL.
	SourceURL SourceType = iota
	// SourceName means the client asks the host for a module with that name,
	// which the host serves from the module-fetch endpoint (spec.md §6).
	SourceName
)

func (s SourceType) String() string {
	if s == SourceName {
		return "NAME"
	}
	return "URL"
}

// ImportSource references a browser-side module that renders a subtree on
// the server's behalf (spec.md §3 "Import source").
type ImportSource struct {
	SourceType SourceType
	Source     string

	// Fallback is rendered by the client while the module loads or if it
	// fails to load; it is either a text leaf or a full Node.
	Fallback *Node

	// UnmountBeforeUpdate tells the client to tear down and recreate the
	// binding on every update rather than delegating an incremental patch.
	UnmountBeforeUpdate bool
}

// Equal reports whether two import sources name the same module, which is
// the mismatch check the client performs against a child's ancestor
// (spec.md §4.6 "Import-source elements").
func (s *ImportSource) Equal(other *ImportSource) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.SourceType == other.SourceType && s.Source == other.Source
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Fragment creates a transparent fragment wrapping children.
func Fragment(children ...*Node) *Node {
	return Element("", nil, children)
}
