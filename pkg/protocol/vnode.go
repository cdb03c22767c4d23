package protocol

import "github.com/loomkit/loom/pkg/vdom"

// VNodeWire is the over-the-wire VDOM shape spec.md §6 specifies verbatim:
//
//	{
//	  "tagName": string,
//	  "key"?: string,
//	  "attributes"?: { string: string | nested-style-map },
//	  "children"?: [ VDOM | string, ... ],
//	  "eventHandlers"?: { eventName: { target, preventDefault, stopPropagation } },
//	  "importSource"?: { source, sourceType: "URL"|"NAME", fallback?, unmountBeforeUpdate? },
//	  "error"?: string
//	}
//
// An empty TagName is the wire form of a fragment (spec.md §4.3 "empty tag
// name is a transparent fragment"). Each entry of Children is either a
// *VNodeWire or a plain string (a text leaf) — represented here as `any`
// since encoding/json happily marshals either.
type VNodeWire struct {
	TagName       string                   `json:"tagName"`
	HID           string                   `json:"hid,omitempty"`
	Key           string                   `json:"key,omitempty"`
	Attributes    map[string]any           `json:"attributes,omitempty"`
	Children      []any                    `json:"children,omitempty"`
	EventHandlers map[string]HandlerWire   `json:"eventHandlers,omitempty"`
	ImportSource  *ImportSourceWire        `json:"importSource,omitempty"`
	Error         string                   `json:"error,omitempty"`
}

// HandlerWire is the wire form of one event registration (spec.md §6
// "eventHandlers"). Callback is never serialized; only Target travels.
type HandlerWire struct {
	Target          string `json:"target"`
	PreventDefault  bool   `json:"preventDefault,omitempty"`
	StopPropagation bool   `json:"stopPropagation,omitempty"`
}

// ImportSourceWire is the wire form of vdom.ImportSource (spec.md §6
// "importSource").
type ImportSourceWire struct {
	Source              string `json:"source"`
	SourceType          string `json:"sourceType"`
	Fallback            any    `json:"fallback,omitempty"`
	UnmountBeforeUpdate bool   `json:"unmountBeforeUpdate,omitempty"`
}

// NodeToWire converts a vdom.Node subtree to its wire form. A text leaf
// becomes a bare string per the "VDOM | string" children union; everything
// else becomes a *VNodeWire. n.Kind must not be vdom.KindComponent — by the
// time a tree reaches this package, pkg/layout has already expanded every
// component call site into host content.
func NodeToWire(n *vdom.Node) any {
	if n == nil {
		return nil
	}
	if n.Kind == vdom.KindText {
		return n.Text
	}

	w := &VNodeWire{
		TagName: n.Tag,
		HID:     n.HID(),
		Key:     n.Key,
		Error:   n.Error,
	}
	if len(n.Attrs) > 0 {
		w.Attributes = n.Attrs
	}
	if len(n.Children) > 0 {
		w.Children = make([]any, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = NodeToWire(c)
		}
	}
	if len(n.Events) > 0 {
		w.EventHandlers = make(map[string]HandlerWire, len(n.Events))
		for name, h := range n.Events {
			w.EventHandlers[name] = HandlerWire{
				Target:          h.TargetID,
				PreventDefault:  h.PreventDefault,
				StopPropagation: h.StopPropagation,
			}
		}
	}
	if n.Import != nil {
		w.ImportSource = &ImportSourceWire{
			Source:              n.Import.Source,
			SourceType:          n.Import.SourceType.String(),
			Fallback:            NodeToWire(n.Import.Fallback),
			UnmountBeforeUpdate: n.Import.UnmountBeforeUpdate,
		}
	}
	return w
}
