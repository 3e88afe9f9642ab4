package machine

import (
	"log"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"
)

// A Machine owns a fixed set of logical cores and their executors. The core
// count is decided at build time and never changes afterwards.
type Machine struct {
	procs    []*Proc
	possible CoreMask
}

// Builder configures and creates Machines.
type Builder struct {
	coreCount    int
	lockOSThread bool
	pinThreads   bool
}

// MakeBuilder creates a new Builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{}
}

// WithCoreCount sets the number of logical cores. When not set, the count is
// discovered from the host.
func (b Builder) WithCoreCount(n int) Builder {
	b.coreCount = n
	return b
}

// WithOSThreadLock makes every executor lock itself to an OS thread.
func (b Builder) WithOSThreadLock() Builder {
	b.lockOSThread = true
	return b
}

// WithAffinityPinning makes every executor lock itself to an OS thread and
// bind that thread to the matching host CPU, where the platform supports it.
func (b Builder) WithAffinityPinning() Builder {
	b.lockOSThread = true
	b.pinThreads = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.coreCount < 0 || b.coreCount > MaxCores {
		log.Panicf("core count %d out of range", b.coreCount)
	}
}

// Build creates the Machine and starts one executor per core.
func (b Builder) Build() *Machine {
	b.parametersMustBeValid()

	n := b.coreCount
	if n == 0 {
		n = hostCoreCount()
	}

	m := &Machine{
		procs:    make([]*Proc, n),
		possible: MaskRange(0, CoreID(n-1)),
	}

	for i := range m.procs {
		m.procs[i] = newProc(CoreID(i), b.lockOSThread, b.pinThreads)
	}

	return m
}

func hostCoreCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}

	if n > MaxCores {
		n = MaxCores
	}

	return n
}

// CoreCount returns the number of cores in the machine.
func (m *Machine) CoreCount() int {
	return len(m.procs)
}

// Possible returns the mask of all cores in the machine.
func (m *Machine) Possible() CoreMask {
	return m.possible
}

// Proc returns the executor of a core, or nil if the core does not exist.
func (m *Machine) Proc(c CoreID) *Proc {
	if c < 0 || int(c) >= len(m.procs) {
		return nil
	}
	return m.procs[c]
}

// OnEach runs fn on every core in the mask that exists in this machine, and
// waits for all of them to complete before returning.
func (m *Machine) OnEach(mask CoreMask, fn func(CoreID)) {
	var wg sync.WaitGroup

	for _, c := range mask.Cores() {
		if int(c) >= len(m.procs) {
			continue
		}

		core := c
		wg.Add(1)
		m.procs[core].Submit(func() {
			defer wg.Done()
			fn(core)
		})
	}

	wg.Wait()
}

// Shutdown stops every executor. Functions already queued are discarded.
func (m *Machine) Shutdown() {
	for _, p := range m.procs {
		p.stop()
	}
}
