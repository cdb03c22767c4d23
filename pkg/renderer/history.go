package renderer

import (
	"sync"

	"github.com/loomkit/loom/pkg/protocol"
)

// frame is one sent patch batch kept for potential replay.
type frame struct {
	seq     uint64
	patches []protocol.WirePatch
}

// History is a thread-safe ring buffer of recently emitted patch batches,
// adapted from the teacher's PatchHistory (pkg/server/patch_history.go).
// The teacher buffers pre-encoded binary frame bytes for fast replay; this
// buffer keeps the structured patch slices instead, since a resync
// response re-wraps them in a fresh ResyncResponseMessage rather than
// replaying the original bytes verbatim (spec.md §6 resync is a distinct
// message type, not a raw retransmit).
type History struct {
	mu       sync.RWMutex
	entries  []frame
	head     int
	count    int
	capacity int
	minSeq   uint64
	maxSeq   uint64
}

// DefaultHistoryCapacity mirrors the teacher's PatchHistory default.
const DefaultHistoryCapacity = 100

// NewHistory creates a ring buffer holding up to capacity patch batches.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{entries: make([]frame, capacity), capacity: capacity}
}

// Add records the patches sent under seq. Call only after a successful
// write to the transport.
func (h *History) Add(seq uint64, patches []protocol.WirePatch) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := make([]protocol.WirePatch, len(patches))
	copy(cp, patches)

	h.entries[h.head] = frame{seq: seq, patches: cp}
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}

	h.maxSeq = seq
	if h.count == 1 {
		h.minSeq = seq
	} else if h.count == h.capacity {
		oldest := h.entries[h.head]
		h.minSeq = oldest.seq
	}
}

// Since returns the concatenated patches for every frame with seq in
// (afterSeq, h.MaxSeq()], in order, and whether the full range is still
// held (false means the gap is too old and a full resync is required).
func (h *History) Since(afterSeq uint64) ([]protocol.WirePatch, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil, false
	}
	if afterSeq+1 < h.minSeq || afterSeq >= h.maxSeq {
		return nil, afterSeq == h.maxSeq
	}

	bySeq := make(map[uint64][]protocol.WirePatch, h.count)
	for i := 0; i < h.count; i++ {
		idx := (h.head - h.count + i + h.capacity) % h.capacity
		e := h.entries[idx]
		bySeq[e.seq] = e.patches
	}

	var out []protocol.WirePatch
	for seq := afterSeq + 1; seq <= h.maxSeq; seq++ {
		p, ok := bySeq[seq]
		if !ok {
			return nil, false
		}
		out = append(out, p...)
	}
	return out, true
}

// MinSeq returns the oldest sequence still held.
func (h *History) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.minSeq
}

// MaxSeq returns the newest sequence held.
func (h *History) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSeq
}

// Count returns the number of frames currently buffered.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear empties the buffer, used when a session resumes fresh.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		h.entries[i] = frame{}
	}
	h.head, h.count, h.minSeq, h.maxSeq = 0, 0, 0, 0
}
