package layout

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/loomkit/loom/pkg/hooks"
	"github.com/loomkit/loom/pkg/vdom"
)

// childKey is the (key-or-index, render-function) half of spec.md §3's
// component identity triple; the parent half is implicit in which
// instance's Children map the key is looked up in.
type childKey struct {
	key string
	fn  uintptr
}

func keyOf(n *vdom.Node, positionalIndex int) childKey {
	k := n.Key
	if k == "" {
		k = fmt.Sprintf("#%d", positionalIndex)
	}
	return childKey{key: k, fn: reflect.ValueOf(n.Render).Pointer()}
}

var instanceIDCounter uint64

func nextInstanceID() string {
	return fmt.Sprintf("i%d", atomic.AddUint64(&instanceIDCounter, 1))
}

// ComponentInstance is a mounted component: a render function bound to
// its current props, its persistent hook state, and its position in the
// instance tree (spec.md §3 "Component instance").
type ComponentInstance struct {
	id     string
	Render func(props any) *vdom.Node
	Props  any
	Hook   *hooks.LifeCycleHook

	Parent   *ComponentInstance
	Children map[childKey]*ComponentInstance

	// rawTree is this instance's own render output, before any nested
	// component calls within it are expanded.
	rawTree *vdom.Node

	// Expanded is the fully expanded (host-only) subtree this instance
	// last produced. Layout.Render sets it for dirty-set roots, and
	// expandComponent sets it for every nested instance a pass visits,
	// whether that instance was re-rendered or reused unchanged.
	Expanded *vdom.Node

	// BasePath is this instance's JSON-pointer mount point within the
	// overall document, refreshed whenever an ancestor pass visits it.
	BasePath string

	// handlerIDs are the event-handler target IDs currently registered
	// for elements this instance directly rendered, released on unmount.
	handlerIDs []string

	layout *Layout
}

func newInstance(render func(props any) *vdom.Node, props any, parent *ComponentInstance, l *Layout) *ComponentInstance {
	inst := &ComponentInstance{
		id:     nextInstanceID(),
		Render: render,
		Props:  props,
		Hook:   hooks.New(),
		Parent: parent,
		layout: l,
	}
	inst.Hook.ScheduleRender = func() { l.markDirty(inst) }
	return inst
}

// ID returns the instance's process-unique identifier, used as a log tag
// and as the namespace for debug-mode hook inspection.
func (c *ComponentInstance) ID() string { return c.id }

// unmount disposes this instance and every descendant (spec.md §3
// "unmount runs all pending cleanup callbacks"), releasing any handler
// target IDs they held. Descendants are disposed before their parent, and
// each instance runs its own effect cleanups in reverse registration
// order; sibling instances are disposed in map iteration order, so the
// order of cleanups across siblings is not defined.
func (c *ComponentInstance) unmount() {
	for _, child := range c.Children {
		child.unmount()
	}
	c.Children = nil
	c.Hook.Unmount()
	c.layout.releaseHandlersFor(c)
}
