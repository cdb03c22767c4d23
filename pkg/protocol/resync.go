package protocol

import (
	"encoding/json"

	"github.com/loomkit/loom/internal/errkind"
)

// ResyncRequestMessage is sent by a reconnecting client naming the last
// sequence number it successfully applied (translated from the teacher's
// binary ResyncRequest, pkg/protocol/control.go).
type ResyncRequestMessage struct {
	Type    MessageType `json:"type"`
	LastSeq uint64      `json:"lastSeq"`
}

// ResyncResponseMessage answers a resync request either with the missed
// patch frames (when they are still in pkg/renderer's history ring buffer)
// or a Full re-render of the whole tree when the requested sequence has
// aged out (translated from the teacher's ControlResyncPatches /
// ControlResyncFull).
type ResyncResponseMessage struct {
	Type    MessageType `json:"type"`
	FromSeq uint64      `json:"fromSeq"`
	Patches []WirePatch `json:"patches,omitempty"`
	Full    any         `json:"full,omitempty"`
}

// NewResyncPatches builds an incremental resync response.
func NewResyncPatches(fromSeq uint64, patches []WirePatch) *ResyncResponseMessage {
	return &ResyncResponseMessage{Type: TypeResyncResponse, FromSeq: fromSeq, Patches: patches}
}

// NewResyncFull builds a full-tree resync response.
func NewResyncFull(model any) *ResyncResponseMessage {
	return &ResyncResponseMessage{Type: TypeResyncResponse, Full: model}
}

// DecodeResyncRequest decodes a "resync-request" message body.
func DecodeResyncRequest(raw []byte) (*ResyncRequestMessage, error) {
	var m ResyncRequestMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errkind.Wrap(errkind.ProtocolFailure, "malformed resync-request message", err)
	}
	return &m, nil
}
