package machine

import (
	"runtime"
	"sync/atomic"
)

const (
	flagNeedResched uint32 = 1 << iota
	flagPolling
)

// A Proc is the executor of one logical core. It owns a dedicated goroutine
// that runs submitted functions in FIFO order, so any function executed
// through a Proc is guaranteed to run on that core and cannot migrate
// mid-execution.
type Proc struct {
	id CoreID

	work chan func()
	wake chan struct{}
	quit chan struct{}

	flags atomic.Uint32

	lockOSThread bool
	pinThread    bool
}

func newProc(id CoreID, lockOSThread, pinThread bool) *Proc {
	p := &Proc{
		id:           id,
		work:         make(chan func(), 64),
		wake:         make(chan struct{}, 1),
		quit:         make(chan struct{}),
		lockOSThread: lockOSThread,
		pinThread:    pinThread,
	}

	go p.run()

	return p
}

// ID returns the core this Proc executes on behalf of.
func (p *Proc) ID() CoreID {
	return p.id
}

func (p *Proc) run() {
	if p.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	if p.pinThread {
		// Pinning is best effort. On platforms without affinity syscalls
		// the executor still works, just without the binding.
		_ = pinCurrentThread(p.id)
	}

	for {
		select {
		case fn := <-p.work:
			fn()
		case <-p.quit:
			return
		}
	}
}

// Exec runs fn on this core and waits for it to complete.
func (p *Proc) Exec(fn func()) {
	done := make(chan struct{})
	p.work <- func() {
		fn()
		close(done)
	}
	<-done
}

// Submit queues fn to run on this core without waiting for it.
func (p *Proc) Submit(fn func()) {
	p.work <- fn
}

func (p *Proc) stop() {
	close(p.quit)
}

// NeedResched returns true if a reschedule request is pending on this core.
func (p *Proc) NeedResched() bool {
	return p.flags.Load()&flagNeedResched != 0
}

// SetNeedResched posts a reschedule request to this core. If the core has
// advertised that it is polling, the wake notification is skipped since the
// poll loop observes the flag directly.
func (p *Proc) SetNeedResched() {
	old := p.flags.Or(flagNeedResched)
	if old&flagPolling != 0 {
		return
	}

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// ClearNeedResched withdraws a pending reschedule request.
func (p *Proc) ClearNeedResched() {
	p.flags.And(^flagNeedResched)
}

// SetPollingAndTest advertises that this core is entering a polling idle
// state, and reports whether a reschedule request was already pending. When
// it returns true the caller must skip the poll loop entirely.
func (p *Proc) SetPollingAndTest() bool {
	old := p.flags.Or(flagPolling)
	return old&flagNeedResched != 0
}

// ClearPolling withdraws the polling advertisement.
func (p *Proc) ClearPolling() {
	p.flags.And(^flagPolling)
}

// IsPolling returns true if this core currently advertises polling.
func (p *Proc) IsPolling() bool {
	return p.flags.Load()&flagPolling != 0
}

// KickPoll requests that a poll loop running on this core exits.
func (p *Proc) KickPoll() {
	p.SetNeedResched()
}

// WakeChan exposes the wake notification channel, so deep simulated idle
// states can block on it instead of burning cycles.
func (p *Proc) WakeChan() <-chan struct{} {
	return p.wake
}
