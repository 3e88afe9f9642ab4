package tick

import (
	"sync"
	"time"

	"github.com/sarchlab/coreidle/machine"
)

// A BroadcastHub is the shared broadcast timer. One ticker serves all
// subscribed cores: on every period, the hub wakes each of them. The ticker
// only runs while at least one core is subscribed.
type BroadcastHub struct {
	period time.Duration
	wake   func(machine.CoreID)

	mu         sync.Mutex
	subscribed machine.CoreMask
	running    bool

	ticker *time.Ticker
	done   chan struct{}
}

// NewBroadcastHub creates the hub. The wake callback is invoked for every
// subscribed core on every period.
func NewBroadcastHub(
	period time.Duration,
	wake func(machine.CoreID),
) *BroadcastHub {
	h := &BroadcastHub{
		period: period,
		wake:   wake,
		ticker: time.NewTicker(period),
		done:   make(chan struct{}),
	}

	h.ticker.Stop()

	go h.run()

	return h
}

func (h *BroadcastHub) run() {
	for {
		select {
		case <-h.ticker.C:
			h.broadcast()
		case <-h.done:
			return
		}
	}
}

func (h *BroadcastHub) broadcast() {
	h.mu.Lock()
	mask := h.subscribed
	h.mu.Unlock()

	for _, c := range mask.Cores() {
		h.wake(c)
	}
}

// Subscribe hands a core's wakeup duty to the hub.
func (h *BroadcastHub) Subscribe(c machine.CoreID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribed.Set(c)

	if !h.running {
		h.ticker.Reset(h.period)
		h.running = true
	}
}

// Unsubscribe returns a core's wakeup duty to its own timer. Unsubscribing a
// core that is not subscribed is a no-op.
func (h *BroadcastHub) Unsubscribe(c machine.CoreID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribed.Clear(c)

	if h.subscribed.IsEmpty() && h.running {
		h.ticker.Stop()
		h.running = false
	}
}

// Subscribed returns true if the hub currently wakes the core.
func (h *BroadcastHub) Subscribed(c machine.CoreID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.subscribed.Has(c)
}

// Stop shuts the hub down permanently.
func (h *BroadcastHub) Stop() {
	h.ticker.Stop()
	close(h.done)
}
