package renderer

import (
	"context"
	"sync"

	"github.com/loomkit/loom/pkg/layout"
	"github.com/loomkit/loom/pkg/protocol"
)

// Shared drives one Layout for many connections at once (spec.md §4.5
// "Shared renderer: one layout serves many connections; each connection
// keeps a per-connection initial-sync queue plus the live patch stream"),
// grounded on the teacher's SessionManager (pkg/server/manager.go), which
// fans a single render stream out to every attached session. Unlike the
// per-connection Renderer, event delivery and rendering happen exactly
// once regardless of how many connections are joined — the layout itself
// is the single source of truth every viewer mirrors.
type Shared struct {
	r *Renderer

	mu     sync.Mutex
	subs   map[uint64]chan []byte
	nextID uint64
}

// NewShared wraps l for multi-connection serving.
func NewShared(l *layout.Layout, historyCapacity int) *Shared {
	return &Shared{r: New(l, historyCapacity), subs: make(map[uint64]chan []byte)}
}

// Renderer exposes the underlying single-layout Renderer, e.g. for tests
// that want to inspect History directly.
func (s *Shared) Renderer() *Renderer { return s.r }

// Run drives the broadcast loop until ctx is cancelled: await the layout
// going dirty, render once, fan the resulting patch batch out to every
// joined connection's queue.
func (s *Shared) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.r.Layout.Dirty():
			if err := s.renderAndBroadcast(); err != nil {
				return err
			}
		}
	}
}

func (s *Shared) renderAndBroadcast() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patches := s.r.Layout.Render()
	if len(patches) == 0 {
		return nil
	}
	wire := protocol.FromPatches(patches)
	seq := s.r.nextSeq()
	s.r.History.Add(seq, wire)

	b, err := protocol.Encode(protocol.NewLayoutUpdateMessage(seq, wire))
	if err != nil {
		return err
	}

	for _, ch := range s.subs {
		select {
		case ch <- b:
		default:
			// A slow consumer drops a frame rather than stalling the
			// broadcast for every other connection (spec.md §9 design
			// note: "back-pressure is not required because updates are
			// idempotent replays of the latest VDOM"); the dropped
			// connection recovers via a resync-request.
		}
	}
	return nil
}

// Subscription is what Join hands a newly attached connection: the bytes
// of a full initial sync, plus the channel every subsequent broadcast
// lands on.
type Subscription struct {
	ID      uint64
	Initial []byte
	Updates <-chan []byte
}

// DefaultQueueSize is used by Join when queueSize <= 0.
const DefaultQueueSize = 32

// Join registers a new connection and returns its initial-sync snapshot
// plus its live update channel. The snapshot and the subscription are
// taken under the same lock the broadcaster uses, so no patch emitted
// after Join returns can be missed and no patch already folded into the
// snapshot is re-sent.
func (s *Shared) Join(queueSize int) *Subscription {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	ch := make(chan []byte, queueSize)
	s.subs[id] = ch

	return &Subscription{ID: id, Initial: s.snapshotLocked(), Updates: ch}
}

func (s *Shared) snapshotLocked() []byte {
	tree := s.r.Layout.CurrentTree()
	patch := protocol.WirePatch{Op: protocol.OpReplace, Path: "", Model: protocol.NodeToWire(tree)}
	b, _ := protocol.Encode(protocol.NewLayoutUpdateMessage(0, []protocol.WirePatch{patch}))
	return b
}

// Leave removes a connection's subscription (spec.md §7 "ClientDisconnected
// ... shared renderers retain the layout and remove only the per-client
// output queue").
func (s *Shared) Leave(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// HandleMessage decodes and dispatches one inbound message from any joined
// connection. respond, if non-nil, receives the encoded bytes of a direct
// reply (used for resync-request, which answers only the requesting
// connection rather than the broadcast stream).
func (s *Shared) HandleMessage(raw []byte, respond func([]byte) error) {
	s.r.handleInbound(raw, respond)
}
