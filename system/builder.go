// Package system assembles a complete coreidle runtime: the machine, the
// driver registry, the timers, and the observation surfaces.
package system

import (
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/coreidle/datarecording"
	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
	"github.com/sarchlab/coreidle/monitoring"
	"github.com/sarchlab/coreidle/tick"
)

// Builder can be used to build a system.
type Builder struct {
	coreCount       int
	perCoreDrivers  bool
	osThreadPinning bool
	tickPeriod      time.Duration
	monitorOn       bool
	monitorPort     int
	outputFileName  string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:  true,
		tickPeriod: 4 * time.Millisecond,
	}
}

// WithCoreCount sets the number of logical cores. When not set, the count is
// discovered from the host.
func (b Builder) WithCoreCount(n int) Builder {
	b.coreCount = n
	return b
}

// WithPerCoreDrivers lets drivers with disjoint core sets coexist, instead
// of one driver system-wide.
func (b Builder) WithPerCoreDrivers() Builder {
	b.perCoreDrivers = true
	return b
}

// WithOSThreadPinning binds every core executor to an OS thread and, where
// supported, to the matching host CPU.
func (b Builder) WithOSThreadPinning() Builder {
	b.osThreadPinning = true
	return b
}

// WithTickPeriod sets the period of the local and broadcast timers.
func (b Builder) WithTickPeriod(period time.Duration) Builder {
	b.tickPeriod = period
	return b
}

// WithoutMonitoring sets the system to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if b.tickPeriod <= 0 {
		panic("tick period must be positive")
	}
}

// Build builds the system.
func (b Builder) Build() *System {
	b.parametersMustBeValid()

	s := &System{}
	s.id = xid.New().String()

	machineBuilder := machine.MakeBuilder().WithCoreCount(b.coreCount)
	if b.osThreadPinning {
		machineBuilder = machineBuilder.WithAffinityPinning()
	}
	s.machine = machineBuilder.Build()

	s.coordinator = tick.NewCoordinator(s.machine, b.tickPeriod)

	registryBuilder := idle.MakeBuilder().
		WithCoreCount(s.machine.CoreCount()).
		WithBroadcaster(s.coordinator).
		WithFanout(s.machine)
	if b.perCoreDrivers {
		registryBuilder = registryBuilder.WithPerCoreDrivers()
	}
	s.registry = registryBuilder.Build()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "coreidle_run_" + s.id
	}
	s.recorder = datarecording.New(outputPath)

	s.collector = datarecording.NewCollector(s.recorder)
	s.registry.AcceptHook(s.collector)

	s.devices = make([]*idle.Device, s.machine.CoreCount())
	for i := range s.devices {
		core := machine.CoreID(i)
		s.devices[i] = idle.NewDevice(core, s.machine.Proc(core))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterRegistry(s.registry)
		s.monitor.RegisterMachine(s.machine)
		s.monitor.StartServer()
	}

	return s
}
