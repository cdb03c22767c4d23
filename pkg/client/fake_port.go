package client

import (
	"fmt"
	"sync"

	"github.com/loomkit/loom/pkg/protocol"
)

// fakeListener is one registered event binding, as FakePort saw it.
type fakeListener struct {
	target          string
	preventDefault  bool
	stopPropagation bool
}

// fakeDOMNode is FakePort's in-memory stand-in for a real DOM node.
type fakeDOMNode struct {
	id       string
	tag      string // "" for a text node
	text     string
	attrs    map[string]string
	children []string // ordered child ids
	parent   string   // "" means attached to the root container (or detached)

	listeners map[string]fakeListener
}

// FakePort is an in-memory Port used by tests (and usable as a minimal,
// dependency-free embedding for non-browser hosts). It keeps enough state
// to assert on the shape of the "DOM" the reconciler built, without
// needing an actual browser.
type FakePort struct {
	mu sync.Mutex

	nodes        map[string]*fakeDOMNode
	rootChildren []string

	evalErr  map[string]error
	bindErr  map[string]error
	bindings map[string]*FakeBinding

	// Calls records every Port method invocation in order, e.g.
	// `"insert parent= index=0 id=h1"`, for tests that want to assert on
	// operation sequence rather than just end state.
	Calls []string
}

// NewFakePort creates an empty FakePort.
func NewFakePort() *FakePort {
	return &FakePort{
		nodes:    make(map[string]*fakeDOMNode),
		evalErr:  make(map[string]error),
		bindErr:  make(map[string]error),
		bindings: make(map[string]*FakeBinding),
	}
}

// FailBind makes a future BindImportSource call for this id return err
// instead of succeeding, to exercise the ImportSourceFailure fallback
// path (spec.md §7).
func (p *FakePort) FailBind(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindErr[id] = err
}

func (p *FakePort) log(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func (p *FakePort) CreateElement(id, tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes[id] = &fakeDOMNode{id: id, tag: tag, attrs: map[string]string{}}
	p.log("createElement id=%s tag=%s", id, tag)
}

func (p *FakePort) CreateText(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes[id] = &fakeDOMNode{id: id, text: text}
	p.log("createText id=%s text=%q", id, text)
}

func (p *FakePort) SetText(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.nodes[id]; ok {
		n.text = text
	}
	p.log("setText id=%s text=%q", id, text)
}

func (p *FakePort) SetAttr(id, name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.nodes[id]; ok {
		if n.attrs == nil {
			n.attrs = map[string]string{}
		}
		n.attrs[name] = value
	}
	p.log("setAttr id=%s name=%s value=%q", id, name, value)
}

func (p *FakePort) RemoveAttr(id, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.nodes[id]; ok {
		delete(n.attrs, name)
	}
	p.log("removeAttr id=%s name=%s", id, name)
}

func (p *FakePort) Insert(parentID string, index int, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detach(id)

	if parentID == "" {
		p.rootChildren = insertID(p.rootChildren, index, id)
	} else if parent, ok := p.nodes[parentID]; ok {
		parent.children = insertID(parent.children, index, id)
	}
	if n, ok := p.nodes[id]; ok {
		n.parent = parentID
	}
	p.log("insert parent=%s index=%d id=%s", parentID, index, id)
}

func (p *FakePort) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detach(id)
	delete(p.nodes, id)
	p.log("remove id=%s", id)
}

// detach removes id from whatever sibling list currently holds it, without
// deleting the node itself (used by both Remove and Insert-as-move).
func (p *FakePort) detach(id string) {
	n, ok := p.nodes[id]
	if !ok {
		return
	}
	if n.parent == "" {
		p.rootChildren = removeID(p.rootChildren, id)
		return
	}
	if parent, ok := p.nodes[n.parent]; ok {
		parent.children = removeID(parent.children, id)
	}
}

func (p *FakePort) AddEventListener(id, event, target string, preventDefault, stopPropagation bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return
	}
	if n.listeners == nil {
		n.listeners = map[string]fakeListener{}
	}
	n.listeners[event] = fakeListener{target: target, preventDefault: preventDefault, stopPropagation: stopPropagation}
	p.log("addEventListener id=%s event=%s target=%s", id, event, target)
}

func (p *FakePort) RemoveEventListener(id, event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.nodes[id]; ok {
		delete(n.listeners, event)
	}
	p.log("removeEventListener id=%s event=%s", id, event)
}

func (p *FakePort) EvalInlineScript(id, code string) (func(), error) {
	p.mu.Lock()
	err := p.evalErr[id]
	p.mu.Unlock()
	p.log("evalInlineScript id=%s code=%q", id, code)
	if err != nil {
		return nil, err
	}
	ranCleanup := false
	return func() {
		ranCleanup = true
		p.mu.Lock()
		p.log("scriptCleanup id=%s ran=%t", id, ranCleanup)
		p.mu.Unlock()
	}, nil
}

func (p *FakePort) BindImportSource(id string, source protocol.ImportSourceWire) (ImportBinding, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.bindErr[id]; err != nil {
		return nil, err
	}
	b := &FakeBinding{ID: id, Source: source}
	p.bindings[id] = b
	p.log("bindImportSource id=%s source=%s", id, source.Source)
	return b, nil
}

// Node returns a snapshot of id's current attrs/text/children for
// assertions. ok is false if no such node exists.
func (p *FakePort) Node(id string) (tag, text string, attrs map[string]string, children []string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, found := p.nodes[id]
	if !found {
		return "", "", nil, nil, false
	}
	attrsCopy := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		attrsCopy[k] = v
	}
	return n.tag, n.text, attrsCopy, append([]string(nil), n.children...), true
}

// RootChildren returns the ids currently attached to the root container,
// in order.
func (p *FakePort) RootChildren() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.rootChildren...)
}

func insertID(ids []string, idx int, id string) []string {
	if idx < 0 || idx >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = id
	return ids
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// FakeBinding is the ImportBinding FakePort.BindImportSource hands back.
type FakeBinding struct {
	ID       string
	Source   protocol.ImportSourceWire
	Rendered [][]any
	Unmounted bool
}

func (b *FakeBinding) Render(children []any) { b.Rendered = append(b.Rendered, children) }
func (b *FakeBinding) Unmount()               { b.Unmounted = true }
