package layout

import (
	"fmt"
	"reflect"

	"github.com/loomkit/loom/pkg/hooks"
	"github.com/loomkit/loom/pkg/vdom"
)

// owners maps every node in a freshly expanded tree back to the instance
// that produced it, so handler bookkeeping (syncHandlers) can attribute
// each binding to the instance it must be released from on unmount.
type owners map[*vdom.Node]*ComponentInstance

// renderAndExpand renders inst and recursively expands every nested
// component call within its output into host-only content, reconciling
// inst's direct component children against the previous pass (spec.md §3
// identity rule).
func (l *Layout) renderAndExpand(inst *ComponentInstance, path string, own owners) *vdom.Node {
	inst.BasePath = path
	raw := l.renderOnce(inst)

	newChildren := make(map[childKey]*ComponentInstance, len(inst.Children))
	expanded := l.expandOne(inst, raw, path, 0, newChildren, own)

	for key, child := range inst.Children {
		if newChildren[key] != child {
			child.unmount()
		}
	}
	inst.Children = newChildren

	l.runEffects(inst)

	return expanded
}

// runEffects runs every effect pending on inst since its last render,
// invoking the previous Cleanup (if any) before Setup and storing Setup's
// return value as the new Cleanup (spec.md §4.2 "runs after"), mirroring
// the teacher's Owner.RunPendingEffects.
func (l *Layout) runEffects(inst *ComponentInstance) {
	for _, rec := range inst.Hook.PendingEffects() {
		if rec.Cleanup != nil {
			rec.Cleanup()
			rec.Cleanup = nil
		}
		if rec.Setup != nil {
			rec.Cleanup = rec.Setup()
		}
	}
}

// renderOnce runs inst's render function, trapping a RenderFailure panic
// (spec.md §7: next VDOM becomes an error node, LifeCycleHook reset) and
// a HookOrderViolation (spec.md §7: subtree replaced with an empty node,
// hook state kept, layout continues).
func (l *Layout) renderOnce(inst *ComponentInstance) (raw *vdom.Node) {
	inst.Hook.StartRender()
	hooks.SetAmbient(l.Location, l.Connection, l.Scope)

	func() {
		defer func() {
			if r := recover(); r != nil {
				l.logf("render failure in component %s: %v", inst.ID(), r)
				msg := fmt.Sprintf("%v", r)
				if l.Debug {
					raw = &vdom.Node{Kind: vdom.KindElement, Tag: "", Error: msg}
				} else {
					raw = vdom.Fragment()
				}
				inst.Hook.Reset()
			}
		}()
		inst.Hook.Render(func() {
			raw = inst.Render(inst.Props)
		})
	}()

	if err := inst.Hook.EndRender(); err != nil {
		l.logf("hook order violation in component %s: %v", inst.ID(), err)
		raw = vdom.Fragment()
	}

	inst.rawTree = raw
	return raw
}

// expandOne expands a single node (and, recursively, its children) found
// at `path` within inst's own render output. Component call sites are
// resolved against inst.Children (or created fresh) and recursively
// rendered; everything else is host content, walked in place.
func (l *Layout) expandOne(inst *ComponentInstance, n *vdom.Node, path string, index int, newChildren map[childKey]*ComponentInstance, own owners) *vdom.Node {
	if n == nil {
		return nil
	}

	if n.Kind == vdom.KindComponent {
		return l.expandComponent(inst, n, path, index, newChildren, own)
	}

	own[n] = inst
	if n.Kind == vdom.KindElement && len(n.Children) > 0 {
		for i, c := range n.Children {
			n.Children[i] = l.expandOne(inst, c, childPointer(path, i), i, newChildren, own)
		}
	}
	return n
}

func (l *Layout) expandComponent(inst *ComponentInstance, n *vdom.Node, path string, index int, newChildren map[childKey]*ComponentInstance, own owners) *vdom.Node {
	key := keyOf(n, index)
	child, existed := inst.Children[key]
	propsChanged := true
	if !existed {
		child = newInstance(n.Render, n.Props, inst, l)
	} else {
		propsChanged = !reflect.DeepEqual(child.Props, n.Props)
		child.Props = n.Props
	}
	newChildren[key] = child

	needsRender := !existed || propsChanged || l.isDirty(child)

	var expandedChild *vdom.Node
	if needsRender {
		expandedChild = l.renderAndExpand(child, path, own)
		l.clearDirty(child)
	} else {
		child.BasePath = path
		expandedChild = child.Expanded
	}
	child.Expanded = expandedChild

	if n.Key != "" && expandedChild != nil {
		cp := *expandedChild
		cp.Key = n.Key
		own[&cp] = own[expandedChild]
		return &cp
	}
	return expandedChild
}

func (l *Layout) isDirty(inst *ComponentInstance) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.dirty[inst]
	return ok
}

func (l *Layout) clearDirty(inst *ComponentInstance) {
	l.mu.Lock()
	delete(l.dirty, inst)
	l.mu.Unlock()
}

func childPointer(parent string, i int) string {
	return fmt.Sprintf("%s/children/%d", parent, i)
}

// syncHandlers walks a fully expanded tree and, for every element's event
// bindings, assigns a target ID stable for the life of the element (HID
// plus event name) and refreshes the registry entry's callback — even
// for elements whose binding didn't change, since the callback is a
// fresh closure every render (spec.md §4.4 "held stable for the life of
// the registration"). A target ID is never communicated to the client
// again once first sent in the element's Insert/Replace patch payload,
// so removing a handler entirely (without a key/tag change at that
// position) is not detected here — documented as a scope limit in
// DESIGN.md.
func (l *Layout) syncHandlers(root *vdom.Node, own owners) {
	perInstance := make(map[*ComponentInstance][]string)
	var walk func(*vdom.Node)
	walk = func(n *vdom.Node) {
		if n == nil || n.Kind != vdom.KindElement {
			return
		}
		if len(n.Events) > 0 && n.HID() != "" {
			inst := own[n]
			for name, h := range n.Events {
				tid := n.HID() + "#" + name
				h.TargetID = tid
				n.Events[name] = h
				l.registerHandler(tid, inst, h)
				if inst != nil {
					perInstance[inst] = append(perInstance[inst], tid)
				}
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	for inst, ids := range perInstance {
		inst.handlerIDs = ids
	}
}

func (l *Layout) registerHandler(tid string, inst *ComponentInstance, h vdom.Handler) {
	l.handlersMu.Lock()
	l.handlers[tid] = handlerEntry{instance: inst, handler: h}
	l.handlersMu.Unlock()
}

func (l *Layout) releaseHandlersFor(inst *ComponentInstance) {
	l.handlersMu.Lock()
	for _, id := range inst.handlerIDs {
		delete(l.handlers, id)
	}
	l.handlersMu.Unlock()
	inst.handlerIDs = nil
}
