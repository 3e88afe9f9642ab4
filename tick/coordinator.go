package tick

import (
	"time"

	"github.com/sarchlab/coreidle/machine"
)

// A Coordinator owns one local timer per core plus the shared broadcast hub,
// and switches cores between the two. It is the production implementation of
// the registry's Broadcaster.
type Coordinator struct {
	timers []*LocalTimer
	hub    *BroadcastHub
}

// NewCoordinator creates local timers for every core of the machine and the
// shared hub. Every tick, local or broadcast, posts a reschedule request to
// its core.
func NewCoordinator(m *machine.Machine, period time.Duration) *Coordinator {
	wake := func(c machine.CoreID) {
		if p := m.Proc(c); p != nil {
			p.SetNeedResched()
		}
	}

	c := &Coordinator{
		timers: make([]*LocalTimer, m.CoreCount()),
		hub:    NewBroadcastHub(period, wake),
	}

	for i := range c.timers {
		c.timers[i] = NewLocalTimer(machine.CoreID(i), period, wake)
	}

	return c
}

// EnterBroadcast suspends the core's local timer and hands its wakeup duty
// to the broadcast hub.
func (c *Coordinator) EnterBroadcast(core machine.CoreID) {
	if int(core) >= len(c.timers) {
		return
	}

	c.timers[core].Suspend()
	c.hub.Subscribe(core)
}

// ExitBroadcast returns the core's wakeup duty to its local timer.
func (c *Coordinator) ExitBroadcast(core machine.CoreID) {
	if int(core) >= len(c.timers) {
		return
	}

	c.hub.Unsubscribe(core)
	c.timers[core].Resume()
}

// Hub returns the shared broadcast hub.
func (c *Coordinator) Hub() *BroadcastHub {
	return c.hub
}

// LocalTimer returns the local timer of a core, or nil.
func (c *Coordinator) LocalTimer(core machine.CoreID) *LocalTimer {
	if core < 0 || int(core) >= len(c.timers) {
		return nil
	}
	return c.timers[core]
}

// Stop shuts down every timer and the hub.
func (c *Coordinator) Stop() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.hub.Stop()
}
