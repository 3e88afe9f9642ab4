// Package idle implements the idle-state driver registry. It arbitrates
// exclusive ownership of cores between drivers, tracks active users of each
// driver, coordinates the shared broadcast timer for timer-stopping idle
// states, and provides the built-in poll idle state.
package idle

import (
	"time"

	"github.com/sarchlab/coreidle/machine"
)

// Maximum lengths of the name and description of an idle state. Longer
// strings are truncated at registration.
const (
	NameLen = 16
	DescLen = 32
)

// PowerUnknown marks a state whose power draw is unknown or not applicable.
const PowerUnknown = -1

// StateFlags is the bit-set of idle state attributes.
type StateFlags uint32

const (
	// FlagTimeValid marks a state whose exit latency and target residency
	// are measured rather than guessed.
	FlagTimeValid StateFlags = 1 << iota

	// FlagTimerStop marks a state that stops the core's local periodic
	// timer, so the core needs the broadcast timer to wake up.
	FlagTimerStop
)

// An EnterFunc executes an idle state on the calling core. It returns the
// index of the state actually entered.
type EnterFunc func(dev *Device, drv *Driver, index int) int

// A State describes one entry in a driver's catalog of idle states.
type State struct {
	Name string
	Desc string

	ExitLatency     time.Duration
	TargetResidency time.Duration

	// Power is the relative power draw in milliwatts, or PowerUnknown.
	Power int

	Flags StateFlags

	Enter EnterFunc

	Disabled bool
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// A Device is the per-core handle passed to EnterFuncs. It carries the core
// identity and per-state usage counters maintained by whoever runs the idle
// loop; the registry itself never reads the counters.
type Device struct {
	core machine.CoreID
	proc *machine.Proc

	// Usage has one slot per catalog slot of the governing driver.
	Usage []StateUsage
}

// StateUsage accumulates how often and how long a core stayed in one state.
type StateUsage struct {
	Count     uint64
	Residency time.Duration
}

// NewDevice creates the idle device of one core.
func NewDevice(core machine.CoreID, proc *machine.Proc) *Device {
	return &Device{
		core: core,
		proc: proc,
	}
}

// Core returns the core this device belongs to.
func (d *Device) Core() machine.CoreID {
	return d.core
}

// Proc returns the executor of the device's core.
func (d *Device) Proc() *machine.Proc {
	return d.proc
}

// RecordEntry accumulates one completed sojourn in a state.
func (d *Device) RecordEntry(index int, residency time.Duration) {
	for len(d.Usage) <= index {
		d.Usage = append(d.Usage, StateUsage{})
	}

	d.Usage[index].Count++
	d.Usage[index].Residency += residency
}
