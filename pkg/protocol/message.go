package protocol

import (
	"encoding/json"

	"github.com/loomkit/loom/internal/errkind"
)

// MessageType is the "type" discriminator carried by every message on the
// wire (spec.md §6).
type MessageType string

const (
	TypeLayoutUpdate    MessageType = "layout-update"
	TypeLayoutEvent     MessageType = "layout-event"
	TypeConnectionOpen  MessageType = "connection-open"
	TypeConnectionClose MessageType = "connection-close"
	TypeResyncRequest   MessageType = "resync-request"
	TypeResyncResponse  MessageType = "resync-response"
)

// envelope is used only to sniff a message's type before decoding the rest
// of its fields into the concrete message struct.
type envelope struct {
	Type MessageType `json:"type"`
}

// LayoutUpdateMessage carries the patches produced by one Layout.Render
// pass (spec.md §6 "layout-update"). Seq lets the client track the last
// applied update for resync purposes (spec.md §D.1 of SPEC_FULL.md); the
// single-patch "model replaces the subtree at path" case spec.md §6
// describes is simply a Patches slice of length one with Op "replace" and
// Path "" for a full-root re-render.
type LayoutUpdateMessage struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Patches []WirePatch `json:"patches"`
}

// NewLayoutUpdateMessage wraps a patch batch for transmission.
func NewLayoutUpdateMessage(seq uint64, patches []WirePatch) *LayoutUpdateMessage {
	return &LayoutUpdateMessage{Type: TypeLayoutUpdate, Seq: seq, Patches: patches}
}

// LayoutEventMessage is a client-reported DOM event awaiting dispatch
// (spec.md §6 "layout-event"). Data is the handler's argument list; for
// built-in DOM events it is a single-element slice holding a SerializedEvent.
type LayoutEventMessage struct {
	Type   MessageType       `json:"type"`
	Target string            `json:"target"`
	Data   []json.RawMessage `json:"data"`
}

// ConnectionMessage is the client-local synthetic connection-open /
// connection-close notification (spec.md §6); it never actually crosses the
// wire. pkg/transport does not synthesize one, and pkg/renderer logs one it
// receives as an unhandled message type.
type ConnectionMessage struct {
	Type MessageType `json:"type"`
}

// DecodeMessageType sniffs a raw message's type tag without decoding the
// rest of its payload.
func DecodeMessageType(raw []byte) (MessageType, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return "", errkind.Wrap(errkind.ProtocolFailure, "malformed message envelope", err)
	}
	if e.Type == "" {
		return "", errkind.New(errkind.ProtocolFailure, "message missing \"type\"")
	}
	return e.Type, nil
}

// DecodeLayoutEvent decodes a "layout-event" message body.
func DecodeLayoutEvent(raw []byte) (*LayoutEventMessage, error) {
	var m LayoutEventMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errkind.Wrap(errkind.ProtocolFailure, "malformed layout-event message", err)
	}
	if m.Target == "" {
		return nil, errkind.New(errkind.ProtocolFailure, "layout-event message missing target")
	}
	return &m, nil
}

// Encode marshals any message value to its wire bytes.
func Encode(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, errkind.Wrap(errkind.ProtocolFailure, "failed to encode message", err)
	}
	return b, nil
}
