package protocol

import (
	"encoding/json"
	"testing"

	"github.com/loomkit/loom/pkg/vdom"
)

func TestNodeToWireElementShape(t *testing.T) {
	n := vdom.Div(vdom.Attrs{"id": "root"}, vdom.Text("hi"))
	n.SetHID("h1")

	w, ok := NodeToWire(n).(*VNodeWire)
	if !ok {
		t.Fatalf("expected *VNodeWire, got %T", NodeToWire(n))
	}
	if w.TagName != "div" || w.HID != "h1" {
		t.Fatalf("unexpected wire node: %+v", w)
	}
	if len(w.Children) != 1 || w.Children[0] != "hi" {
		t.Fatalf("expected text child serialized as bare string, got %+v", w.Children)
	}
}

func TestNodeToWireEventHandlerCarriesTarget(t *testing.T) {
	n := vdom.Button(nil).On("click", func() {})
	n.Events["click"] = vdom.Handler{TargetID: "h1#click", Callback: n.Events["click"].Callback}

	w := NodeToWire(n).(*VNodeWire)
	h, ok := w.EventHandlers["click"]
	if !ok || h.Target != "h1#click" {
		t.Fatalf("expected click handler with target h1#click, got %+v", w.EventHandlers)
	}
}

func TestFromPatchSetText(t *testing.T) {
	p := vdom.Patch{Op: vdom.PatchSetText, Path: "/children/0", HID: "h2", Value: "3"}
	w := FromPatch(p)
	if w.Op != OpSetText || w.Value != "3" || w.HID != "h2" {
		t.Fatalf("unexpected wire patch: %+v", w)
	}
	if w.Index != nil {
		t.Fatal("SetText should not carry an index")
	}
}

func TestFromPatchInsertCarriesIndexAndModel(t *testing.T) {
	n := vdom.Text("x")
	n.SetHID("h3")
	p := vdom.Patch{Op: vdom.PatchInsertNode, Path: "/children/1", ParentHID: "h0", Index: 1, Node: n}
	w := FromPatch(p)
	if w.Op != OpInsert || w.Index == nil || *w.Index != 1 {
		t.Fatalf("unexpected wire patch: %+v", w)
	}
	if w.Model != "x" {
		t.Fatalf("expected text model serialized as bare string, got %+v", w.Model)
	}
}

func TestLayoutUpdateMessageRoundTripsThroughJSON(t *testing.T) {
	patches := FromPatches([]vdom.Patch{
		{Op: vdom.PatchSetText, Path: "/children/0", HID: "h1", Value: "1"},
	})
	msg := NewLayoutUpdateMessage(1, patches)

	raw, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	typ, err := DecodeMessageType(raw)
	if err != nil || typ != TypeLayoutUpdate {
		t.Fatalf("DecodeMessageType: %v, %v", typ, err)
	}

	var decoded LayoutUpdateMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Patches) != 1 || decoded.Patches[0].Value != "1" {
		t.Fatalf("unexpected round trip: %+v", decoded)
	}
}

func TestDecodeLayoutEventRequiresTarget(t *testing.T) {
	_, err := DecodeLayoutEvent([]byte(`{"type":"layout-event","data":[]}`))
	if err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestDecodeLayoutEventOK(t *testing.T) {
	raw := []byte(`{"type":"layout-event","target":"h1#click","data":[{"category":"mouse","type":"click","clientX":0}]}`)
	m, err := DecodeLayoutEvent(raw)
	if err != nil {
		t.Fatalf("DecodeLayoutEvent: %v", err)
	}
	if m.Target != "h1#click" || len(m.Data) != 1 {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestDecodeSerializedEventFallsBackToGeneric(t *testing.T) {
	ev, generic, err := DecodeSerializedEvent(json.RawMessage(`"hello"`))
	if err != nil {
		t.Fatalf("DecodeSerializedEvent: %v", err)
	}
	if ev != nil {
		t.Fatalf("expected no typed event for a bare string argument, got %+v", ev)
	}
	if generic != "hello" {
		t.Fatalf("expected generic fallback \"hello\", got %v", generic)
	}
}

func TestDecodeSerializedEventMouse(t *testing.T) {
	raw := json.RawMessage(`{"category":"mouse","type":"click","timeStamp":1.5,"target":{"tagName":"BUTTON"},"mouse":{"clientX":10,"clientY":20}}`)
	ev, generic, err := DecodeSerializedEvent(raw)
	if err != nil {
		t.Fatalf("DecodeSerializedEvent: %v", err)
	}
	if generic != nil {
		t.Fatalf("expected no generic fallback for a typed event, got %v", generic)
	}
	if ev == nil || ev.Mouse == nil || ev.Mouse.ClientX != 10 {
		t.Fatalf("unexpected decoded event: %+v", ev)
	}
}
