package client

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/loomkit/loom/pkg/protocol"
)

// mirrorNode is the client's local copy of one server VDOM node, enough of
// it to re-navigate by path and to drive Port calls without re-deriving
// anything from the server.
type mirrorNode struct {
	id     string
	parent *mirrorNode

	isText bool
	text   string
	// none marks a zero-width node (a render that returned nothing,
	// spec.md §3): it occupies a position in the mirror but was never
	// given a Port representation, so unmount must not try to remove it.
	none bool

	tag      string
	key      string
	attrs    map[string]any
	events   map[string]protocol.HandlerWire
	children []*mirrorNode

	// childPortParent is the Port parent id this node's own children must
	// attach to: its own id for a real element, or the id it was itself
	// attached under for a transparent fragment (empty tag name) — a
	// fragment never gets a Port representation of its own, so its
	// children's real DOM parent is whatever its own Port-parent was.
	childPortParent string

	importSource *protocol.ImportSourceWire
	binding      ImportBinding

	// scriptCleanup is set for a no-attribute <script> node, the
	// function (if any) its evaluated text returned (spec.md §4.6).
	scriptCleanup func()

	// lastServerValue/userValue implement input-flicker avoidance for
	// user-input elements (spec.md §4.6, scenario in spec.md §8).
	lastServerValue *string
	userValue       *string
}

// decodeWireModel turns the generic value carried by a WirePatch.Model (or
// a child entry of VNodeWire.Children) into either a text string or a
// *protocol.VNodeWire, re-marshaling through JSON since values that cross
// an encoding/json boundary into an `any` field arrive as
// map[string]any/[]any/string rather than typed structs.
func decodeWireModel(model any) (w *protocol.VNodeWire, text string, isText, isNone bool) {
	if model == nil {
		return nil, "", false, true
	}
	if s, ok := model.(string); ok {
		return nil, s, true, false
	}
	if vw, ok := model.(*protocol.VNodeWire); ok {
		return vw, "", false, false
	}
	b, err := json.Marshal(model)
	if err != nil {
		return nil, "", false, true
	}
	var vw protocol.VNodeWire
	if err := json.Unmarshal(b, &vw); err != nil {
		return nil, "", false, true
	}
	return &vw, "", false, false
}

// pathIndices parses a JSON-pointer path of the form
// "/children/0/children/2" (the only shape pkg/vdom.Diff emits) into its
// successive child indices. The empty path (root) yields nil.
func pathIndices(path string) []int {
	if path == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	out := make([]int, 0, len(parts)/2)
	for i := 1; i < len(parts); i += 2 {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func splitParentPath(path string) (parentIdxs []int, lastIdx int, ok bool) {
	idxs := pathIndices(path)
	if len(idxs) == 0 {
		return nil, 0, false
	}
	return idxs[:len(idxs)-1], idxs[len(idxs)-1], true
}

func isUserInputTag(tag string) bool {
	switch tag {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func isUserInputAttr(name string) bool {
	return name == "value" || name == "checked"
}
