// Package tick provides the periodic timers of the machine: one local timer
// per core, and a shared broadcast hub that takes over wakeup duty for cores
// whose local timer is stopped by a deep idle state.
package tick

import (
	"sync"
	"time"

	"github.com/sarchlab/coreidle/machine"
)

// A LocalTimer is the periodic timer of one core. While it runs, it fires
// the tick callback once per period. It can be suspended and resumed any
// number of times before it is stopped for good.
type LocalTimer struct {
	core   machine.CoreID
	period time.Duration
	fire   func(machine.CoreID)

	mu        sync.Mutex
	ticker    *time.Ticker
	suspended bool
	done      chan struct{}
}

// NewLocalTimer creates and starts the local timer of one core.
func NewLocalTimer(
	core machine.CoreID,
	period time.Duration,
	fire func(machine.CoreID),
) *LocalTimer {
	t := &LocalTimer{
		core:   core,
		period: period,
		fire:   fire,
		ticker: time.NewTicker(period),
		done:   make(chan struct{}),
	}

	go t.run()

	return t
}

func (t *LocalTimer) run() {
	for {
		select {
		case <-t.ticker.C:
			t.fire(t.core)
		case <-t.done:
			return
		}
	}
}

// Suspend pauses tick delivery. Suspending an already-suspended timer is a
// no-op.
func (t *LocalTimer) Suspend() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.suspended {
		return
	}

	t.ticker.Stop()
	t.suspended = true
}

// Resume restarts tick delivery with a full fresh period.
func (t *LocalTimer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.suspended {
		return
	}

	t.ticker.Reset(t.period)
	t.suspended = false
}

// Suspended returns true if the timer is currently paused.
func (t *LocalTimer) Suspended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.suspended
}

// Stop shuts the timer down permanently.
func (t *LocalTimer) Stop() {
	t.ticker.Stop()
	close(t.done)
}
