package client

import (
	"testing"

	"github.com/loomkit/loom/pkg/protocol"
	"github.com/loomkit/loom/pkg/vdom"
)

func apply(t *testing.T, r *Reconciler, prev, next *vdom.Node) {
	t.Helper()
	patches := vdom.Diff(prev, next)
	msg := protocol.NewLayoutUpdateMessage(1, protocol.FromPatches(patches))
	r.Apply(msg)
}

func TestMountRootBuildsDOMAndRegistersClickHandler(t *testing.T) {
	tree := vdom.Button(nil, vdom.Text("0"))
	tree.Events = map[string]vdom.Handler{"click": {TargetID: "t1"}}

	port := NewFakePort()
	r := New(port)
	apply(t, r, nil, tree)

	roots := port.RootChildren()
	if len(roots) != 1 {
		t.Fatalf("expected one root node, got %d", len(roots))
	}
	tag, _, _, children, ok := port.Node(roots[0])
	if !ok || tag != "button" {
		t.Fatalf("expected mounted button, got tag=%q ok=%v", tag, ok)
	}
	if len(children) != 1 {
		t.Fatalf("expected one text child, got %d", len(children))
	}
	_, text, _, _, ok := port.Node(children[0])
	if !ok || text != "0" {
		t.Fatalf("expected text child '0', got %q", text)
	}
	foundListener := false
	for _, c := range port.Calls {
		if c == "addEventListener id="+roots[0]+" event=click target=t1" {
			foundListener = true
		}
	}
	if !foundListener {
		t.Fatalf("expected a click listener with target t1 on the button, calls: %v", port.Calls)
	}
}

func TestIncrementalSetTextPatchUpdatesExistingNode(t *testing.T) {
	prev := vdom.Button(nil, vdom.Text("0"))
	port := NewFakePort()
	r := New(port)
	apply(t, r, nil, prev)

	next := vdom.Button(nil, vdom.Text("1"))
	apply(t, r, prev, next)

	roots := port.RootChildren()
	_, _, _, children, _ := port.Node(roots[0])
	_, text, _, _, _ := port.Node(children[0])
	if text != "1" {
		t.Fatalf("expected updated text '1', got %q", text)
	}
}

func TestRemoveNodeDetachesFromParent(t *testing.T) {
	prev := vdom.Div(nil, vdom.Span(nil, vdom.Text("a")), vdom.Span(nil, vdom.Text("b")))
	port := NewFakePort()
	r := New(port)
	apply(t, r, nil, prev)

	next := vdom.Div(nil, vdom.Span(nil, vdom.Text("a")))
	apply(t, r, prev, next)

	roots := port.RootChildren()
	_, _, _, children, _ := port.Node(roots[0])
	if len(children) != 1 {
		t.Fatalf("expected one remaining child after removal, got %d", len(children))
	}
}

func TestInputFlickerAvoidance(t *testing.T) {
	port := NewFakePort()
	r := New(port)

	root := &mirrorNode{id: "in1", tag: "input", attrs: map[string]any{}}
	r.root = root
	r.byHID["in1"] = root
	port.CreateElement("in1", "input")
	port.Insert("", 0, "in1")

	r.setAttrAt("", "value", "hello")
	if _, text, attrs, _, _ := port.Node("in1"); text != "" || attrs["value"] != "hello" {
		t.Fatalf("expected initial value applied, got %q", attrs["value"])
	}

	// The user edits the value locally ("hellx"); the reconciler only
	// learns about it via RecordUserInput (a real Port would call this
	// from its own input-event handling).
	r.RecordUserInput("in1", "hellx")

	// Server re-sends the same old value — must not revert the user's
	// local edit (spec.md §8 input-flicker-avoidance scenario).
	r.setAttrAt("", "value", "hello")
	if _, _, attrs, _, _ := port.Node("in1"); attrs["value"] != "hello" {
		// Port.SetAttr was never called again for "hello", so the fake's
		// recorded attr should still read whatever the last real
		// SetAttr call set it to — also "hello" here since that was the
		// last genuine server value accepted. The real assertion is on
		// call count below.
		t.Fatalf("unexpected attr state: %v", attrs)
	}
	setAttrCalls := 0
	for _, c := range port.Calls {
		if c == `setAttr id=in1 name=value value="hello"` {
			setAttrCalls++
		}
	}
	if setAttrCalls != 1 {
		t.Fatalf("expected exactly one real SetAttr('hello') call, got %d", setAttrCalls)
	}

	// A genuinely new server value must overwrite the buffer.
	r.setAttrAt("", "value", "world")
	if _, _, attrs, _, _ := port.Node("in1"); attrs["value"] != "world" {
		t.Fatalf("expected diverging server value to apply, got %v", attrs)
	}
}

func TestImportSourceMismatchRendersFallbackAndNeverBinds(t *testing.T) {
	parentModel := &protocol.VNodeWire{
		TagName: "div",
		HID:     "h1",
		ImportSource: &protocol.ImportSourceWire{
			Source:     "widgets/chart",
			SourceType: "NAME",
		},
		Children: []any{
			&protocol.VNodeWire{
				TagName: "span",
				HID:     "h2",
				ImportSource: &protocol.ImportSourceWire{
					Source:     "widgets/other",
					SourceType: "NAME",
					Fallback:   "loading",
				},
			},
		},
	}

	port := NewFakePort()
	r := New(port)
	r.Apply(protocol.NewLayoutUpdateMessage(1, []protocol.WirePatch{
		{Op: protocol.OpReplace, Path: "", Model: parentModel},
	}))

	if len(port.bindings) != 1 {
		t.Fatalf("expected exactly one successful bind (the parent), got %d", len(port.bindings))
	}
	if _, ok := port.bindings["h2"]; ok {
		t.Fatal("mismatched child must never be bound")
	}
}

func TestScriptElementWithoutAttributesEvaluatesTextAndCleansUpOnReplace(t *testing.T) {
	model := &protocol.VNodeWire{
		TagName:  "script",
		HID:      "h1",
		Children: []any{"doSomething()"},
	}

	port := NewFakePort()
	r := New(port)
	r.AllowScriptElements = true
	r.Apply(protocol.NewLayoutUpdateMessage(1, []protocol.WirePatch{
		{Op: protocol.OpReplace, Path: "", Model: model},
	}))

	foundEval := false
	for _, c := range port.Calls {
		if c == `evalInlineScript id=h1 code="doSomething()"` {
			foundEval = true
		}
	}
	if !foundEval {
		t.Fatal("expected inline script evaluation call")
	}

	// Replacing the root unmounts the old script node, which must run its
	// cleanup (spec.md §4.6 "called on unmount/content-change").
	r.Apply(protocol.NewLayoutUpdateMessage(2, []protocol.WirePatch{
		{Op: protocol.OpReplace, Path: "", Model: &protocol.VNodeWire{TagName: "div", HID: "h2"}},
	}))

	cleanupRan := false
	for _, c := range port.Calls {
		if c == "scriptCleanup id=h1 ran=true" {
			cleanupRan = true
		}
	}
	if !cleanupRan {
		t.Fatal("expected script cleanup to run on unmount")
	}
}

func TestScriptElementNotEvaluatedUnlessAllowed(t *testing.T) {
	model := &protocol.VNodeWire{
		TagName:  "script",
		HID:      "h1",
		Children: []any{"doSomething()"},
	}

	port := NewFakePort()
	r := New(port) // AllowScriptElements defaults to false
	r.Apply(protocol.NewLayoutUpdateMessage(1, []protocol.WirePatch{
		{Op: protocol.OpReplace, Path: "", Model: model},
	}))

	for _, c := range port.Calls {
		if c == `evalInlineScript id=h1 code="doSomething()"` {
			t.Fatal("script should not be evaluated when AllowScriptElements is false")
		}
	}
}
