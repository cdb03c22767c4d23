package vdom

import (
	"fmt"
	"reflect"
)

// Diff compares two trees and returns the patches needed to turn prev into
// next (spec.md §4.3 step 4). Paths are JSON pointers rooted at "" — the
// same addressing spec.md §6 uses for layout-update messages.
func Diff(prev, next *Node) []Patch {
	var patches []Patch
	diff(prev, next, "", &patches)
	return patches
}

func diff(prev, next *Node, path string, patches *[]Patch) {
	if prev == nil && next == nil {
		return
	}
	if next == nil {
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path, HID: hidOf(prev)})
		return
	}
	if prev == nil {
		AssignHIDs(next)
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	}

	// spec.md §4.3: changing the tag (or kind) at a position unmounts the
	// old subtree even if a key matched.
	if prev.Kind != next.Kind || (prev.Kind == KindElement && prev.Tag != next.Tag) {
		next.SetHID(prev.HID())
		for _, c := range next.Children {
			AssignHIDs(c)
		}
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, HID: hidOf(prev), Node: next})
		return
	}

	switch prev.Kind {
	case KindText:
		diffText(prev, next, path, patches)
	case KindElement:
		diffElement(prev, next, path, patches)
	}
}

func diffText(prev, next *Node, path string, patches *[]Patch) {
	next.SetHID(prev.HID())
	if prev.Text != next.Text {
		*patches = append(*patches, Patch{Op: PatchSetText, Path: path, HID: hidOf(prev), Value: next.Text})
	}
}

func diffElement(prev, next *Node, path string, patches *[]Patch) {
	next.SetHID(prev.HID())

	// An import-source element whose source changed is a hard replace:
	// the client must tear down the old binding and call bind() again.
	if !prev.Import.Equal(next.Import) {
		next.SetHID(prev.HID())
		for _, c := range next.Children {
			AssignHIDs(c)
		}
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, HID: hidOf(prev), Node: next})
		return
	}

	diffAttrs(prev, next, path, patches)
	diffChildren(prev, next, path, hidOf(prev), patches)
}

func diffAttrs(prev, next *Node, path string, patches *[]Patch) {
	for k, pv := range prev.Attrs {
		nv, ok := next.Attrs[k]
		if !ok {
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, Path: path, HID: hidOf(prev), Key: k})
			continue
		}
		if !attrsEqual(pv, nv) {
			*patches = append(*patches, Patch{Op: PatchSetAttr, Path: path, HID: hidOf(prev), Key: k, Value: attrToString(nv)})
		}
	}
	for k, nv := range next.Attrs {
		if _, ok := prev.Attrs[k]; !ok {
			*patches = append(*patches, Patch{Op: PatchSetAttr, Path: path, HID: hidOf(prev), Key: k, Value: attrToString(nv)})
		}
	}
}

// diffChildren reconciles the child list of one element, pairing by key
// when either side supplies keys, otherwise by position (spec.md §3
// identity rule, §4.3 step 1-2).
func diffChildren(prev, next *Node, parentPath, parentHID string, patches *[]Patch) {
	pc, nc := prev.Children, next.Children

	if hasKeys(pc) || hasKeys(nc) {
		diffKeyed(pc, nc, parentPath, parentHID, patches)
		return
	}
	diffPositional(pc, nc, parentPath, parentHID, patches)
}

func diffPositional(pc, nc []*Node, parentPath, parentHID string, patches *[]Patch) {
	max := len(pc)
	if len(nc) > max {
		max = len(nc)
	}
	for i := 0; i < max; i++ {
		childPath := childPointer(parentPath, i)
		var p, n *Node
		if i < len(pc) {
			p = pc[i]
		}
		if i < len(nc) {
			n = nc[i]
		}
		if p == nil && n != nil {
			AssignHIDs(n)
			*patches = append(*patches, Patch{Op: PatchInsertNode, Path: childPath, ParentHID: parentHID, Index: i, Node: n})
			continue
		}
		diff(p, n, childPath, patches)
	}
}

// diffKeyed reconciles a keyed child list. Any sibling without a key is
// treated as unkeyed-in-a-keyed-list and always replaced at its position
// (spec.md does not define cross-matching keyed and unkeyed siblings).
func diffKeyed(pc, nc []*Node, parentPath, parentHID string, patches *[]Patch) {
	prevByKey := make(map[string]int, len(pc))
	for i, c := range pc {
		if c.Key != "" {
			prevByKey[c.Key] = i
		}
	}
	matched := make(map[int]bool, len(pc))

	for i, n := range nc {
		childPath := childPointer(parentPath, i)
		if n.Key == "" {
			AssignHIDs(n)
			*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: childPath, Node: n})
			continue
		}
		pi, ok := prevByKey[n.Key]
		if !ok {
			AssignHIDs(n)
			*patches = append(*patches, Patch{Op: PatchInsertNode, Path: childPath, ParentHID: parentHID, Index: i, Node: n})
			continue
		}
		matched[pi] = true
		p := pc[pi]
		if pi != i {
			*patches = append(*patches, Patch{Op: PatchMoveNode, Path: childPath, HID: hidOf(p), Index: i})
		}
		diff(p, n, childPath, patches)
	}

	for i, p := range pc {
		if !matched[i] {
			*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: childPointer(parentPath, i), HID: hidOf(p)})
		}
	}
}

func childPointer(parent string, i int) string {
	return fmt.Sprintf("%s/children/%d", parent, i)
}

func hasKeys(children []*Node) bool {
	for _, c := range children {
		if c != nil && c.Key != "" {
			return true
		}
	}
	return false
}

func hidOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.HID()
}

func attrsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case map[string]string:
		bv, ok := b.(map[string]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if bv[k] != v {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func attrToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
