package vdom

import "testing"

func assignHIDs(n *Node, next *int) {
	if n == nil {
		return
	}
	if n.Kind == KindElement || n.Kind == KindText {
		n.SetHID(hidFor(next))
	}
	for _, c := range n.Children {
		assignHIDs(c, next)
	}
}

func hidFor(next *int) string {
	*next++
	return itoa(*next)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func TestDiffSetText(t *testing.T) {
	n := 0
	prev := Text("hello")
	assignHIDs(prev, &n)
	next := Text("world")

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetText || patches[0].Value != "world" {
		t.Fatalf("unexpected patches: %+v", patches)
	}
}

func TestDiffNoOpOnEqualAttrs(t *testing.T) {
	n := 0
	prev := Div(Attrs{"class": "a"}, Text("x"))
	assignHIDs(prev, &n)
	next := Div(Attrs{"class": "a"}, Text("x"))

	if patches := Diff(prev, next); len(patches) != 0 {
		t.Fatalf("expected no patches, got %+v", patches)
	}
}

func TestDiffSetAndRemoveAttr(t *testing.T) {
	n := 0
	prev := Div(Attrs{"class": "a", "id": "x"})
	assignHIDs(prev, &n)
	next := Div(Attrs{"class": "b"})

	patches := Diff(prev, next)
	var sawSet, sawRemove bool
	for _, p := range patches {
		switch p.Op {
		case PatchSetAttr:
			if p.Key == "class" && p.Value == "b" {
				sawSet = true
			}
		case PatchRemoveAttr:
			if p.Key == "id" {
				sawRemove = true
			}
		}
	}
	if !sawSet || !sawRemove {
		t.Fatalf("expected both a SetAttr and a RemoveAttr, got %+v", patches)
	}
}

func TestDiffKeyedReorderEmitsMove(t *testing.T) {
	n := 0
	prev := Ul(nil, Keyed("a", "li", nil, "A"), Keyed("b", "li", nil, "B"))
	assignHIDs(prev, &n)
	next := Ul(nil, Keyed("b", "li", nil, "B"), Keyed("a", "li", nil, "A"))

	patches := Diff(prev, next)
	var moves int
	for _, p := range patches {
		if p.Op == PatchMoveNode {
			moves++
		}
	}
	if moves == 0 {
		t.Fatalf("expected at least one MoveNode patch, got %+v", patches)
	}
}

func TestDiffKeyedInsertCarriesParentHID(t *testing.T) {
	n := 0
	prev := Ul(nil, Keyed("a", "li", nil, "A"))
	assignHIDs(prev, &n)
	next := Ul(nil, Keyed("a", "li", nil, "A"), Keyed("b", "li", nil, "B"))

	patches := Diff(prev, next)
	found := false
	for _, p := range patches {
		if p.Op == PatchInsertNode {
			found = true
			if p.ParentHID == "" {
				t.Fatalf("expected InsertNode to carry the parent's HID, got empty")
			}
		}
	}
	if !found {
		t.Fatal("expected an InsertNode patch for the new keyed child")
	}
}

func TestDiffKeyedRemoveEmitted(t *testing.T) {
	n := 0
	prev := Ul(nil, Keyed("a", "li", nil, "A"), Keyed("b", "li", nil, "B"))
	assignHIDs(prev, &n)
	next := Ul(nil, Keyed("a", "li", nil, "A"))

	patches := Diff(prev, next)
	var removes int
	for _, p := range patches {
		if p.Op == PatchRemoveNode {
			removes++
		}
	}
	if removes != 1 {
		t.Fatalf("expected exactly one RemoveNode, got %d (%+v)", removes, patches)
	}
}

func TestDiffTagChangeReplacesSubtree(t *testing.T) {
	n := 0
	prev := Div(nil, Text("x"))
	assignHIDs(prev, &n)
	next := Span(nil, Text("x"))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("expected a single ReplaceNode, got %+v", patches)
	}
}

func TestDiffMountAssignsHIDsThroughoutSubtree(t *testing.T) {
	tree := Div(nil, Span(nil, Text("a")), Span(nil, Text("b")))
	patches := Diff(nil, tree)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("expected a single mount ReplaceNode, got %+v", patches)
	}
	root := patches[0].Node
	if root.HID() == "" {
		t.Fatal("expected root to receive an HID on mount")
	}
	seen := map[string]bool{root.HID(): true}
	for _, c := range root.Children {
		if c.HID() == "" || seen[c.HID()] {
			t.Fatalf("expected every child to receive a distinct HID, got %q", c.HID())
		}
		seen[c.HID()] = true
	}
}

func TestDiffImportSourceChangeReplaces(t *testing.T) {
	n := 0
	prev := ImportElement("div", nil, &ImportSource{SourceType: SourceName, Source: "widget-a"})
	assignHIDs(prev, &n)
	next := ImportElement("div", nil, &ImportSource{SourceType: SourceName, Source: "widget-b"})

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("expected import-source mismatch to force a ReplaceNode, got %+v", patches)
	}
}
