package vdom

// On attaches a raw event handler descriptor to a node, returning the node
// for chaining. It is normally reached through the typed On* helpers below.
func (n *Node) On(name string, cb any, opts ...HandlerOption) *Node {
	if n.Events == nil {
		n.Events = make(map[string]Handler)
	}
	h := Handler{Callback: cb}
	for _, o := range opts {
		o(&h)
	}
	n.Events[name] = h
	return n
}

// HandlerOption configures flags on a Handler descriptor at build time.
type HandlerOption func(*Handler)

// PreventDefault marks the handler to call event.preventDefault() client-side.
func PreventDefault() HandlerOption { return func(h *Handler) { h.PreventDefault = true } }

// StopPropagation marks the handler to call event.stopPropagation() client-side.
func StopPropagation() HandlerOption { return func(h *Handler) { h.StopPropagation = true } }

// The following are ergonomic wrappers over On, grouped the way the
// client-side serialized event shapes in pkg/protocol are grouped
// (spec.md §6): mouse, keyboard, form, focus, drag, touch, pointer, wheel.

func OnClick(cb any, opts ...HandlerOption) func(*Node) *Node      { return onFn("click", cb, opts) }
func OnDblClick(cb any, opts ...HandlerOption) func(*Node) *Node   { return onFn("dblclick", cb, opts) }
func OnMouseDown(cb any, opts ...HandlerOption) func(*Node) *Node  { return onFn("mousedown", cb, opts) }
func OnMouseUp(cb any, opts ...HandlerOption) func(*Node) *Node    { return onFn("mouseup", cb, opts) }
func OnMouseMove(cb any, opts ...HandlerOption) func(*Node) *Node  { return onFn("mousemove", cb, opts) }
func OnMouseEnter(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("mouseenter", cb, opts) }
func OnMouseLeave(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("mouseleave", cb, opts) }
func OnWheel(cb any, opts ...HandlerOption) func(*Node) *Node      { return onFn("wheel", cb, opts) }

func OnKeyDown(cb any, opts ...HandlerOption) func(*Node) *Node  { return onFn("keydown", cb, opts) }
func OnKeyUp(cb any, opts ...HandlerOption) func(*Node) *Node    { return onFn("keyup", cb, opts) }
func OnKeyPress(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("keypress", cb, opts) }

func OnInput(cb any, opts ...HandlerOption) func(*Node) *Node  { return onFn("input", cb, opts) }
func OnChange(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("change", cb, opts) }
func OnSubmit(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("submit", cb, opts) }
func OnFocus(cb any, opts ...HandlerOption) func(*Node) *Node  { return onFn("focus", cb, opts) }
func OnBlur(cb any, opts ...HandlerOption) func(*Node) *Node   { return onFn("blur", cb, opts) }

func OnDragStart(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("dragstart", cb, opts) }
func OnDrop(cb any, opts ...HandlerOption) func(*Node) *Node      { return onFn("drop", cb, opts) }

func OnTouchStart(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("touchstart", cb, opts) }
func OnTouchEnd(cb any, opts ...HandlerOption) func(*Node) *Node   { return onFn("touchend", cb, opts) }

func OnPointerDown(cb any, opts ...HandlerOption) func(*Node) *Node { return onFn("pointerdown", cb, opts) }
func OnPointerUp(cb any, opts ...HandlerOption) func(*Node) *Node   { return onFn("pointerup", cb, opts) }

func onFn(name string, cb any, opts []HandlerOption) func(*Node) *Node {
	return func(n *Node) *Node { return n.On(name, cb, opts...) }
}

// Apply runs a list of builder-returned decorators (e.g. from On*) against a
// node, so callers can write Apply(Div(nil), OnClick(handler)).
func Apply(n *Node, decorators ...func(*Node) *Node) *Node {
	for _, d := range decorators {
		n = d(n)
	}
	return n
}
