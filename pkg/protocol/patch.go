package protocol

import "github.com/loomkit/loom/pkg/vdom"

// WireOp is the JSON-serialized name of a patch operation, grounded on the
// teacher's PatchOp enum (pkg/protocol/patch.go) but spelled as the lower-
// kebab strings spec.md §4.3's "add/remove/replace/patch-attr" vocabulary
// uses, rather than a byte-sized wire tag.
type WireOp string

const (
	OpSetText    WireOp = "set-text"
	OpSetAttr    WireOp = "set-attr"
	OpRemoveAttr WireOp = "remove-attr"
	OpInsert     WireOp = "insert"
	OpRemove     WireOp = "remove"
	OpMove       WireOp = "move"
	OpReplace    WireOp = "replace"
)

var opNames = map[vdom.PatchOp]WireOp{
	vdom.PatchSetText:     OpSetText,
	vdom.PatchSetAttr:     OpSetAttr,
	vdom.PatchRemoveAttr:  OpRemoveAttr,
	vdom.PatchInsertNode:  OpInsert,
	vdom.PatchRemoveNode:  OpRemove,
	vdom.PatchMoveNode:    OpMove,
	vdom.PatchReplaceNode: OpReplace,
}

// WirePatch is the JSON form of one vdom.Patch (spec.md §4.3 step 4 "Emit
// diff operations ... at JSON-pointer paths"). Fields irrelevant to Op are
// omitted by the `omitempty` tags rather than always present, keeping small
// patches (the common case: one SetText per event) small on the wire.
type WirePatch struct {
	Op        WireOp `json:"op"`
	Path      string `json:"path"`
	HID       string `json:"hid,omitempty"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`
	ParentHID string `json:"parentHid,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Model     any    `json:"model,omitempty"`
}

// FromPatch converts one diff-engine patch to its wire form.
func FromPatch(p vdom.Patch) WirePatch {
	w := WirePatch{
		Op:        opNames[p.Op],
		Path:      p.Path,
		HID:       p.HID,
		Key:       p.Key,
		Value:     p.Value,
		ParentHID: p.ParentHID,
	}
	if p.Op == vdom.PatchInsertNode || p.Op == vdom.PatchMoveNode {
		idx := p.Index
		w.Index = &idx
	}
	if p.Node != nil {
		w.Model = NodeToWire(p.Node)
	}
	return w
}

// FromPatches converts a full diff batch to its wire form, preserving order
// (spec.md §8 invariant 7 "updates to that connection are emitted in apply
// order").
func FromPatches(patches []vdom.Patch) []WirePatch {
	if len(patches) == 0 {
		return nil
	}
	out := make([]WirePatch, len(patches))
	for i, p := range patches {
		out[i] = FromPatch(p)
	}
	return out
}
