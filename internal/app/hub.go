package app

import (
	"sync"

	"github.com/ayusman/leaptrack/internal/tracker"
)

// subscriberBuffer is how many snapshots a subscriber may lag behind
// before it is dropped.
const subscriberBuffer = 16

// StateHub holds the latest tracker snapshot and fans it out to
// subscribers. It is safe for concurrent use.
type StateHub struct {
	mu      sync.RWMutex
	latest  tracker.Snapshot
	hasData bool
	subs    map[chan tracker.Snapshot]struct{}
}

// NewStateHub creates an empty hub.
func NewStateHub() *StateHub {
	return &StateHub{
		subs: make(map[chan tracker.Snapshot]struct{}),
	}
}

// Publish stores snap as the latest value and sends it to subscribers.
// A subscriber whose buffer is full is dropped and its channel closed.
func (h *StateHub) Publish(snap tracker.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snap
	h.hasData = true

	for ch := range h.subs {
		select {
		case ch <- snap:
		default:
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Latest returns the most recent snapshot and whether one was published.
func (h *StateHub) Latest() (tracker.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasData
}

// Subscribe registers a new subscriber. The returned channel is closed when
// the subscriber falls behind or cancel is called.
func (h *StateHub) Subscribe() (<-chan tracker.Snapshot, func()) {
	ch := make(chan tracker.Snapshot, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (h *StateHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
