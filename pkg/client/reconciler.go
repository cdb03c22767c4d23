package client

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/loomkit/loom/pkg/protocol"
)

// Reconciler applies a stream of layout-update messages to a local mirror
// of the server VDOM and drives a Port to keep a real DOM in sync
// (spec.md §4.6). It is the client-side counterpart of pkg/layout: where
// pkg/layout diffs two VDOMs into Patches, Reconciler replays those
// Patches (carried as protocol.WirePatch) against whatever it mounted
// last time.
type Reconciler struct {
	Port   Port
	Logger *slog.Logger

	// AllowScriptElements gates inline <script> evaluation (spec.md §4.6,
	// §9 Open Question 3). Script elements are otherwise mounted as inert
	// DOM nodes: their text is attached but never handed to Port.EvalInlineScript.
	// Default false.
	AllowScriptElements bool

	root *mirrorNode
	// byHID indexes mounted elements by their server HID, which is how a
	// Move patch names the node it moves (spec.md §4.3: a keyed move
	// identifies its node by HID, not by its old path, since the old
	// path no longer reflects where the node used to be once siblings
	// around it have already shifted); the patch's path and index give
	// the destination. RecordUserInput looks nodes up here too.
	byHID map[string]*mirrorNode

	localSeq atomic.Uint64
}

// New creates a Reconciler driving port.
func New(port Port) *Reconciler {
	return &Reconciler{Port: port, byHID: make(map[string]*mirrorNode)}
}

func (r *Reconciler) logf(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Warn(msg, args...)
	}
}

// newLocalID synthesizes a client-only node id for a node the wire form
// did not give a HID (text leaves — NodeToWire represents them as a bare
// string with no HID field at all).
func (r *Reconciler) newLocalID() string {
	return fmt.Sprintf("c%d", r.localSeq.Add(1))
}

// Apply applies every patch of msg, in order, to the local mirror and to
// Port. A patch that fails to resolve (stale path, already-removed node)
// is logged and skipped rather than aborting the whole batch — later
// patches in the same message are typically independent of it.
func (r *Reconciler) Apply(msg *protocol.LayoutUpdateMessage) {
	for _, p := range msg.Patches {
		r.applyOne(p)
	}
}

func (r *Reconciler) applyOne(p protocol.WirePatch) {
	switch p.Op {
	case protocol.OpReplace:
		r.replaceAt(p.Path, p.Model)
	case protocol.OpInsert:
		r.insertAt(p.Path, p.Model)
	case protocol.OpRemove:
		r.removeAt(p.Path)
	case protocol.OpMove:
		r.moveAt(p.HID, p.Path, derefIndex(p.Index))
	case protocol.OpSetAttr:
		r.setAttrAt(p.Path, p.Key, p.Value)
	case protocol.OpRemoveAttr:
		r.removeAttrAt(p.Path, p.Key)
	case protocol.OpSetText:
		r.setTextAt(p.Path, p.Value)
	default:
		r.logf("protocol failure: unknown patch op", "op", p.Op)
	}
}

func derefIndex(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func (r *Reconciler) resolve(path string) *mirrorNode {
	idxs := pathIndices(path)
	n := r.root
	for _, i := range idxs {
		if n == nil || i < 0 || i >= len(n.children) {
			return nil
		}
		n = n.children[i]
	}
	return n
}

func (r *Reconciler) resolveParent(path string) (parent *mirrorNode, lastIdx int, ok bool) {
	parentIdxs, last, ok := splitParentPath(path)
	if !ok {
		return nil, 0, false
	}
	n := r.root
	for _, i := range parentIdxs {
		if n == nil || i < 0 || i >= len(n.children) {
			return nil, 0, false
		}
		n = n.children[i]
	}
	if n == nil {
		return nil, 0, false
	}
	return n, last, true
}

// replaceAt handles both the very first mount (path == "", no prior root)
// and replacing an already-mounted subtree — a tag/kind change, an
// import-source change, or an unkeyed-in-a-keyed-list child (spec.md §4.3).
func (r *Reconciler) replaceAt(path string, model any) {
	if path == "" {
		if r.root != nil {
			r.unmount(r.root, true)
		}
		r.root = r.mount("", 0, model, nil)
		return
	}

	parent, idx, ok := r.resolveParent(path)
	if !ok {
		r.logf("protocol failure: cannot resolve replace target", "path", path)
		return
	}
	if idx >= len(parent.children) {
		r.logf("protocol failure: replace index out of range", "path", path)
		return
	}
	r.unmount(parent.children[idx], true)
	child := r.mount(parent.childPortParent, idx, model, parent.ancestorImport())
	child.parent = parent
	parent.children[idx] = child
}

func (r *Reconciler) insertAt(path string, model any) {
	parent, idx, ok := r.resolveParent(path)
	if !ok {
		r.logf("protocol failure: cannot resolve insert parent", "path", path)
		return
	}
	n := r.mount(parent.childPortParent, idx, model, parent.ancestorImport())
	n.parent = parent
	parent.children = insertChild(parent.children, idx, n)
}

func (r *Reconciler) removeAt(path string) {
	parent, idx, ok := r.resolveParent(path)
	if !ok || idx >= len(parent.children) {
		r.logf("protocol failure: cannot resolve remove target", "path", path)
		return
	}
	r.unmount(parent.children[idx], true)
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
}

// moveAt relocates an already-mounted, HID-addressed node (a keyed-child
// reorder, spec.md §4.3 step 2) to newIndex under the parent addressed by
// path. Real DOM insertBefore semantics (mirrored by Port.Insert) detach
// the node from its previous parent automatically.
func (r *Reconciler) moveAt(hid, path string, newIndex int) {
	n, ok := r.byHID[hid]
	if !ok {
		r.logf("protocol failure: move target HID not mounted", "hid", hid)
		return
	}
	newParent, _, ok := r.resolveParent(path)
	if !ok {
		r.logf("protocol failure: cannot resolve move destination", "path", path)
		return
	}

	if old := n.parent; old != nil {
		for i, c := range old.children {
			if c == n {
				old.children = append(old.children[:i], old.children[i+1:]...)
				break
			}
		}
	}
	newParent.children = insertChild(newParent.children, newIndex, n)
	n.parent = newParent

	r.Port.Insert(newParent.childPortParent, newIndex, n.id)
}

func insertChild(children []*mirrorNode, idx int, n *mirrorNode) []*mirrorNode {
	if idx >= len(children) {
		return append(children, n)
	}
	children = append(children, nil)
	copy(children[idx+1:], children[idx:])
	children[idx] = n
	return children
}

// setAttrAt applies an attribute change, with input-flicker avoidance
// (spec.md §4.6, scenario spec.md §8) for value-like attributes of
// user-input elements: a server value that merely restates what the
// client already applied is suppressed once the user has typed ahead of
// it, and only a genuinely new server value overwrites the live buffer.
func (r *Reconciler) setAttrAt(path, key, value string) {
	n := r.resolve(path)
	if n == nil {
		r.logf("protocol failure: cannot resolve setAttr target", "path", path)
		return
	}
	if n.attrs == nil {
		n.attrs = map[string]any{}
	}

	if isUserInputTag(n.tag) && isUserInputAttr(key) {
		prevApplied := n.lastServerValue
		sameAsApplied := prevApplied != nil && *prevApplied == value
		if n.userValue != nil && sameAsApplied {
			// The user has diverged locally and the server is only
			// replaying a value it already sent — leave the live buffer
			// alone.
			n.attrs[key] = value
			return
		}
		v := value
		n.lastServerValue = &v
		n.userValue = nil
	}

	r.Port.SetAttr(n.id, key, value)
	n.attrs[key] = value
}

func (r *Reconciler) removeAttrAt(path, key string) {
	n := r.resolve(path)
	if n == nil {
		r.logf("protocol failure: cannot resolve removeAttr target", "path", path)
		return
	}
	r.Port.RemoveAttr(n.id, key)
	delete(n.attrs, key)
	if isUserInputAttr(key) {
		n.lastServerValue = nil
		n.userValue = nil
	}
}

func (r *Reconciler) setTextAt(path, value string) {
	n := r.resolve(path)
	if n == nil {
		r.logf("protocol failure: cannot resolve setText target", "path", path)
		return
	}
	// An inline (no-attribute) <script> node's text is its source, not
	// rendered content: re-evaluating on change, tearing down whatever
	// the previous evaluation returned, is the documented semantics
	// (spec.md §4.6 "its return value ... is called on unmount/content
	// change").
	if n.tag == "script" && len(n.attrs) == 0 {
		n.text = value
		if !r.AllowScriptElements {
			return
		}
		if n.scriptCleanup != nil {
			n.scriptCleanup()
			n.scriptCleanup = nil
		}
		cleanup, err := r.Port.EvalInlineScript(n.id, value)
		if err != nil {
			r.logf("inline script evaluation failed", "error", err)
			return
		}
		n.scriptCleanup = cleanup
		return
	}

	r.Port.SetText(n.id, value)
	n.text = value
}

// RecordUserInput tells the reconciler the user just produced value for
// the mounted element identified by hid, the other half of input-flicker
// avoidance: the real Port implementation calls this from its input/
// change event handling before forwarding the event upstream.
func (r *Reconciler) RecordUserInput(hid, value string) {
	if n, ok := r.byHID[hid]; ok {
		v := value
		n.userValue = &v
	}
}

// ancestorImport returns n's own import source, to be passed down as the
// parent-import-source context for its children (spec.md §4.6 "a child
// with an import source must match its parent import source").
func (n *mirrorNode) ancestorImport() *protocol.ImportSourceWire {
	if n == nil {
		return nil
	}
	return n.importSource
}

// mount builds a fresh mirrorNode (and its subtree) from model, registers
// it with Port, and attaches it under parentID at index. parentID == ""
// addresses the reconciler's root mount container. ancestorImport is the
// nearest enclosing import-bound node's source, used to validate this
// node's own import source if it declares one.
func (r *Reconciler) mount(parentID string, index int, model any, ancestorImport *protocol.ImportSourceWire) *mirrorNode {
	w, text, isText, isNone := decodeWireModel(model)
	if isNone {
		// spec.md §3: "Returning None from a render produces a
		// zero-width node that occupies the position but emits no
		// client element." Model it as an empty fragment: no Port call,
		// no children.
		return &mirrorNode{id: r.newLocalID(), none: true}
	}
	if isText {
		n := &mirrorNode{id: r.newLocalID(), isText: true, text: text}
		r.Port.CreateText(n.id, text)
		r.Port.Insert(parentID, index, n.id)
		return n
	}

	n := &mirrorNode{
		id:    firstNonEmpty(w.HID, r.newLocalID()),
		tag:   w.TagName,
		key:   w.Key,
		attrs: w.Attributes,
	}
	if w.HID != "" {
		r.byHID[w.HID] = n
	}

	if w.TagName != "" {
		r.Port.CreateElement(n.id, w.TagName)
		r.Port.Insert(parentID, index, n.id)
		for name, v := range w.Attributes {
			r.Port.SetAttr(n.id, name, attrToString(v))
		}
	}
	// An empty tag name is a transparent fragment (spec.md §4.3): its
	// children attach directly to parentID rather than to it, and any
	// later patch addressing *this* node's children must reuse the same
	// real Port parent rather than n's own (never created) id.
	elementParentID := n.id
	if w.TagName == "" {
		elementParentID = parentID
	}
	n.childPortParent = elementParentID

	if w.EventHandlers != nil {
		n.events = w.EventHandlers
		for name, h := range w.EventHandlers {
			r.Port.AddEventListener(n.id, name, h.Target, h.PreventDefault, h.StopPropagation)
		}
	}

	if w.ImportSource != nil {
		mismatch := ancestorImport != nil &&
			(ancestorImport.Source != w.ImportSource.Source || ancestorImport.SourceType != w.ImportSource.SourceType)
		if mismatch {
			r.logf("import source mismatch with ancestor, rendering fallback",
				"source", w.ImportSource.Source, "ancestor", ancestorImport.Source)
			r.mountFallback(n, w.ImportSource.Fallback, elementParentID)
			return n
		}

		binding, err := r.Port.BindImportSource(n.id, *w.ImportSource)
		if err != nil {
			r.logf("import source bind failed, rendering fallback", "source", w.ImportSource.Source, "error", err)
			r.mountFallback(n, w.ImportSource.Fallback, elementParentID)
			return n
		}
		n.importSource = w.ImportSource
		n.binding = binding
		binding.Render(w.Children)
		// The binding renders presentation for the subtree; the
		// reconciler still mounts the same children normally underneath
		// it so the mismatch invariant and ordinary patch addressing
		// keep working for whatever the binding doesn't otherwise touch.
	}

	if w.TagName == "script" && len(w.Attributes) == 0 {
		code := flattenText(w.Children)
		n.text = code
		if r.AllowScriptElements {
			cleanup, err := r.Port.EvalInlineScript(n.id, code)
			if err != nil {
				r.logf("inline script evaluation failed", "error", err)
			} else {
				n.scriptCleanup = cleanup
			}
		}
		return n
	}

	n.children = make([]*mirrorNode, len(w.Children))
	for i, c := range w.Children {
		// Only the immediate parent's import source is checked against a
		// child's own (spec.md §4.6) — an ordinary element (nil here)
		// resets the context for its own children.
		child := r.mount(elementParentID, i, c, n.importSource)
		child.parent = n
		n.children[i] = child
	}
	return n
}

// mountFallback replaces what would have been a bound subtree with its
// declared fallback (text, VDOM, or nothing at all — never the child
// it would otherwise have bound to).
func (r *Reconciler) mountFallback(n *mirrorNode, fallback any, parentID string) {
	fb := r.mount(parentID, 0, fallback, nil)
	fb.parent = n
	n.children = []*mirrorNode{fb}
}

func flattenText(children []any) string {
	var s string
	for _, c := range children {
		if t, ok := c.(string); ok {
			s += t
		}
	}
	return s
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// attrToString stringifies one decoded attribute value. Attribute maps
// arriving through JSON hold string, bool, float64, or (for "style")
// map[string]any rather than the original Go-side types, so this mirrors
// pkg/vdom's own attrToString for the shapes JSON can actually produce.
func attrToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any:
		var b []byte
		for k, sv := range val {
			if len(b) > 0 {
				b = append(b, ';')
			}
			b = append(b, []byte(k+":"+attrToString(sv))...)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// unmount tears down node and, if removeFromDOM, detaches it from Port.
// Children are always torn down for their cleanup side effects (import
// bindings, inline script cleanups) even though removing the top node
// already detaches the whole subtree in a real DOM.
func (r *Reconciler) unmount(n *mirrorNode, removeFromDOM bool) {
	if n == nil {
		return
	}
	if n.binding != nil {
		n.binding.Unmount()
	}
	if n.scriptCleanup != nil {
		n.scriptCleanup()
	}
	for _, c := range n.children {
		r.unmount(c, false)
	}
	for hid, v := range r.byHID {
		if v == n {
			delete(r.byHID, hid)
		}
	}
	if removeFromDOM && !n.none {
		r.Port.Remove(n.id)
	}
}
