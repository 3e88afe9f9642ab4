package idle

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/coreidle/hooking"
	"github.com/sarchlab/coreidle/machine"
)

// A Registry is the authority on which idle-state driver governs which core.
// All registration, unregistration, and reference counting is serialized by
// one mutex; lookups read the assignment table lock-free.
type Registry struct {
	hooking.HookableBase

	mu  sync.Mutex
	tab table

	possible  machine.CoreMask
	coreCount int

	broadcaster Broadcaster
	fanout      Fanout

	off atomic.Bool

	warnLogger *log.Logger
}

// Builder configures and creates Registries.
type Builder struct {
	coreCount   int
	perCore     bool
	broadcaster Broadcaster
	fanout      Fanout
	warnLogger  *log.Logger
}

// MakeBuilder creates a Builder with the default configuration: one
// system-wide driver slot, no broadcast timer, serial fan-out.
func MakeBuilder() Builder {
	return Builder{
		coreCount: 1,
	}
}

// WithCoreCount sets the possible-core count the registry manages.
func (b Builder) WithCoreCount(n int) Builder {
	b.coreCount = n
	return b
}

// WithPerCoreDrivers switches the assignment table from one system-wide slot
// to one slot per core, so drivers with disjoint core sets can coexist.
func (b Builder) WithPerCoreDrivers() Builder {
	b.perCore = true
	return b
}

// WithBroadcaster sets the broadcast-timer switch invoked for drivers with
// timer-stopping states.
func (b Builder) WithBroadcaster(bc Broadcaster) Builder {
	b.broadcaster = bc
	return b
}

// WithFanout sets how per-core calls are delivered to their target cores.
// Pass the machine so the calls run on the cores they address.
func (b Builder) WithFanout(f Fanout) Builder {
	b.fanout = f
	return b
}

// WithWarnLogger sets the logger that reports protocol violations.
func (b Builder) WithWarnLogger(l *log.Logger) Builder {
	b.warnLogger = l
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.coreCount <= 0 || b.coreCount > machine.MaxCores {
		log.Panicf("core count %d out of range", b.coreCount)
	}
}

// Build creates the Registry.
func (b Builder) Build() *Registry {
	b.parametersMustBeValid()

	r := &Registry{
		possible:    machine.MaskRange(0, machine.CoreID(b.coreCount-1)),
		coreCount:   b.coreCount,
		broadcaster: b.broadcaster,
		fanout:      b.fanout,
		warnLogger:  b.warnLogger,
	}

	if b.perCore {
		r.tab = newPerCoreTable(b.coreCount)
	} else {
		r.tab = newSingleTable()
	}

	if r.broadcaster == nil {
		r.broadcaster = nopBroadcaster{}
	}

	if r.fanout == nil {
		r.fanout = serialFanout{}
	}

	if r.warnLogger == nil {
		r.warnLogger = log.Default()
	}

	return r
}

// CoreCount returns the possible-core count the registry manages.
func (r *Registry) CoreCount() int {
	return r.coreCount
}

// Enable turns idle management on. The registry starts enabled.
func (r *Registry) Enable() {
	r.off.Store(false)
}

// Disable administratively turns idle management off. Registration fails
// with ErrUnavailable while disabled; drivers already registered stay.
func (r *Registry) Disable() {
	r.off.Store(true)
}

// Enabled returns true if idle management is on.
func (r *Registry) Enabled() bool {
	return !r.off.Load()
}

// Register validates the driver, derives its runtime fields, claims every
// core in its mask, switches those cores to broadcast-timer mode if the
// catalog has timer-stopping states, and installs the poll state into slot
// 0. On a claim conflict every core claimed so far is released and ErrBusy
// is returned; the table is left as if the call never happened.
func (r *Registry) Register(d *Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d == nil || d.StateCount() == 0 {
		return ErrInvalidDriver
	}

	if r.off.Load() {
		return ErrUnavailable
	}

	d.init(r.possible)

	if !r.tab.claim(d.Cores, d) {
		return ErrBusy
	}

	if d.bctimer {
		r.fanout.OnEach(d.Cores, func(c machine.CoreID) {
			r.broadcaster.EnterBroadcast(c)
			r.InvokeHook(hooking.HookCtx{
				Domain: r,
				Pos:    HookPosBroadcastEnter,
				Item:   d,
				Detail: c,
			})
		})
	}

	installPollState(d)

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    HookPosRegister,
		Item:   d,
	})

	return nil
}

// Unregister removes the driver from every core it governs. A driver that
// still has users is left fully installed: the refusal indicates a bug in
// the caller and is reported through the warn logger and the
// UnregisterRefused hook, not as an error.
func (r *Registry) Unregister(d *Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.refcnt > 0 {
		r.warnLogger.Printf(
			"warning: unregistering driver %s with %d active users, refused",
			d.Name, d.refcnt)
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosUnregisterRefused,
			Item:   d,
		})

		return
	}

	if d.bctimer {
		d.bctimer = false
		r.fanout.OnEach(d.Cores, func(c machine.CoreID) {
			r.broadcaster.ExitBroadcast(c)
			r.InvokeHook(hooking.HookCtx{
				Domain: r,
				Pos:    HookPosBroadcastExit,
				Item:   d,
				Detail: c,
			})
		})
	}

	r.tab.release(d.Cores, d)

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    HookPosUnregister,
		Item:   d,
	})
}

// Driver returns the driver governing a core, or nil. It never blocks: the
// slot pointer is read atomically and is only ever published after the
// driver's derived fields are fully initialized.
func (r *Registry) Driver(c machine.CoreID) *Driver {
	if c < 0 || int(c) >= r.coreCount {
		return nil
	}

	return r.tab.driver(c)
}

// Drivers returns every distinct driver currently installed, in core order.
func (r *Registry) Drivers() []*Driver {
	r.mu.Lock()
	defer r.mu.Unlock()

	var drivers []*Driver
	seen := make(map[*Driver]bool)

	for c := 0; c < r.coreCount; c++ {
		d := r.tab.driver(machine.CoreID(c))
		if d == nil || seen[d] {
			continue
		}

		seen[d] = true
		drivers = append(drivers, d)
	}

	return drivers
}

// Ref looks up the driver governing a core and takes a reference on it. The
// driver cannot be unregistered until the reference is released. Returns nil
// if no driver governs the core.
func (r *Registry) Ref(c machine.CoreID) *Driver {
	if c < 0 || int(c) >= r.coreCount {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.tab.driver(c)
	if d != nil {
		d.refcnt++
	}

	return d
}

// Unref releases a reference on the driver governing a core. Releasing past
// zero is a bug in the caller: it is reported and the count stays at zero.
func (r *Registry) Unref(c machine.CoreID) {
	if c < 0 || int(c) >= r.coreCount {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.tab.driver(c)
	if d == nil {
		return
	}

	if d.refcnt <= 0 {
		r.warnLogger.Printf(
			"warning: releasing driver %s past zero references", d.Name)
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosRefUnderflow,
			Item:   d,
			Detail: c,
		})

		return
	}

	d.refcnt--
}

// RefCount returns the number of active users of a driver.
func (r *Registry) RefCount(d *Driver) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return d.refcnt
}
