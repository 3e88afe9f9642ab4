package system

import (
	"github.com/sarchlab/coreidle/datarecording"
	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
	"github.com/sarchlab/coreidle/monitoring"
	"github.com/sarchlab/coreidle/tick"
)

// A System bundles a machine, a driver registry, the timers, and the
// observation surfaces into one runnable unit.
type System struct {
	id string

	machine     *machine.Machine
	registry    *idle.Registry
	coordinator *tick.Coordinator
	devices     []*idle.Device

	recorder  datarecording.DataRecorder
	collector *datarecording.Collector
	monitor   *monitoring.Monitor
}

// ID returns the unique ID of this run.
func (s *System) ID() string {
	return s.id
}

// Machine returns the machine the system runs on.
func (s *System) Machine() *machine.Machine {
	return s.machine
}

// Registry returns the driver registry.
func (s *System) Registry() *idle.Registry {
	return s.registry
}

// Coordinator returns the timer coordinator.
func (s *System) Coordinator() *tick.Coordinator {
	return s.coordinator
}

// Device returns the idle device of a core, or nil.
func (s *System) Device(c machine.CoreID) *idle.Device {
	if c < 0 || int(c) >= len(s.devices) {
		return nil
	}
	return s.devices[c]
}

// Recorder returns the data recorder used in the system.
func (s *System) Recorder() datarecording.DataRecorder {
	return s.recorder
}

// Collector returns the hook that records registry events.
func (s *System) Collector() *datarecording.Collector {
	return s.collector
}

// Monitor returns the monitor used in the system, or nil when monitoring is
// disabled.
func (s *System) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Terminate shuts the system down and flushes the recorder.
func (s *System) Terminate() {
	s.recorder.Close()
	s.coordinator.Stop()
	s.machine.Shutdown()
}
