package vdom

// Child is anything accepted in a children list: a *Node, a string (kept as
// text), nil (elided), or a []Child (flattened one level, spec.md §4.1).
type Child any

// Element builds a pure Element node. attrs may be nil. Children are
// flattened one level; nil entries are elided; strings become text leaves;
// *Node values are embedded as-is.
func Element(tag string, attrs Attrs, children ...Child) *Node {
	return &Node{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    NormalizeAttrs(attrs),
		Children: flattenChildren(children),
	}
}

// Component builds an unexpanded component call site. key scopes identity
// over siblings the same way Node.Key does for elements; pass "" to fall
// back to positional identity (spec.md §3).
func Component(key string, render func(props any) *Node, props any) *Node {
	return &Node{Kind: KindComponent, Key: key, Render: render, Props: props}
}

// Keyed is a convenience for building a keyed element in one call.
func Keyed(key, tag string, attrs Attrs, children ...Child) *Node {
	n := Element(tag, attrs, children...)
	n.Key = key
	return n
}

// ImportElement builds an element rendered by a browser-side module.
func ImportElement(tag string, attrs Attrs, src *ImportSource, children ...Child) *Node {
	n := Element(tag, attrs, children...)
	n.Import = src
	return n
}

func flattenChildren(in []Child) []*Node {
	var out []*Node
	var walk func(Child)
	walk = func(c Child) {
		switch v := c.(type) {
		case nil:
			return
		case *Node:
			if v == nil {
				return
			}
			out = append(out, v)
		case string:
			out = append(out, Text(v))
		case []Child:
			for _, sub := range v {
				walk(sub)
			}
		case []*Node:
			for _, sub := range v {
				walk(sub)
			}
		default:
			// Unrecognized child types are dropped rather than panicking;
			// a malformed render should not crash the renderer loop.
		}
	}
	for _, c := range in {
		walk(c)
	}
	return out
}

// The following are mechanical ergonomic wrappers around Element for the
// tags most component code reaches for. The full tag catalogue is, per
// spec.md §1, out of scope for this engine and belongs to a separate
// helper library layered on top of Element.

func Div(attrs Attrs, children ...Child) *Node    { return Element("div", attrs, children...) }
func Span(attrs Attrs, children ...Child) *Node   { return Element("span", attrs, children...) }
func P(attrs Attrs, children ...Child) *Node      { return Element("p", attrs, children...) }
func Button(attrs Attrs, children ...Child) *Node { return Element("button", attrs, children...) }
func Input(attrs Attrs) *Node                     { return Element("input", attrs) }
func Textarea(attrs Attrs, children ...Child) *Node {
	return Element("textarea", attrs, children...)
}
func Select(attrs Attrs, children ...Child) *Node {
	return Element("select", attrs, children...)
}
func Option(attrs Attrs, children ...Child) *Node {
	return Element("option", attrs, children...)
}
func Form(attrs Attrs, children ...Child) *Node { return Element("form", attrs, children...) }
func A(attrs Attrs, children ...Child) *Node    { return Element("a", attrs, children...) }
func Ul(attrs Attrs, children ...Child) *Node   { return Element("ul", attrs, children...) }
func Li(attrs Attrs, children ...Child) *Node   { return Element("li", attrs, children...) }
func H1(attrs Attrs, children ...Child) *Node   { return Element("h1", attrs, children...) }
func Script(attrs Attrs, children ...Child) *Node {
	return Element("script", attrs, children...)
}
