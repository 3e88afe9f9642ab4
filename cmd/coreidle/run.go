package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
	"github.com/sarchlab/coreidle/sysfs"
	"github.com/sarchlab/coreidle/system"
)

var runFlags = struct {
	cores        int
	perCore      bool
	pin          bool
	duration     time.Duration
	latencyLimit time.Duration
	monitor      bool
	monitorPort  int
	output       string
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo idle loop on every core under idle management",
	Run:   runDemo,
}

func init() {
	runCmd.Flags().IntVar(&runFlags.cores, "cores", 0,
		"number of logical cores, 0 to discover from the host")
	runCmd.Flags().BoolVar(&runFlags.perCore, "per-core", false,
		"allow one driver per disjoint core set instead of one system-wide")
	runCmd.Flags().BoolVar(&runFlags.pin, "pin", false,
		"pin core executors to host CPUs")
	runCmd.Flags().DurationVar(&runFlags.duration, "duration", 2*time.Second,
		"how long to run the demo")
	runCmd.Flags().DurationVar(&runFlags.latencyLimit, "latency-limit",
		time.Millisecond,
		"deepest tolerated exit latency when picking a state")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"start the monitoring server")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port for the monitoring server, 0 for a random port")
	runCmd.Flags().StringVar(&runFlags.output, "output", "",
		"output file name for the recording database")

	rootCmd.AddCommand(runCmd)
}

func runDemo(_ *cobra.Command, _ []string) {
	builder := system.MakeBuilder().
		WithCoreCount(runFlags.cores).
		WithOutputFileName(runFlags.output)
	if runFlags.perCore {
		builder = builder.WithPerCoreDrivers()
	}
	if runFlags.pin {
		builder = builder.WithOSThreadPinning()
	}
	if runFlags.monitor {
		if runFlags.monitorPort > 0 {
			builder = builder.WithMonitorPort(runFlags.monitorPort)
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	s := builder.Build()
	defer s.Terminate()

	driver := &idle.Driver{
		Name:   "demo",
		States: demoCatalog(),
	}

	err := s.Registry().Register(driver)
	if err != nil {
		fmt.Printf("cannot register driver: %s\n", err)
		return
	}

	runIdleLoops(s)

	s.Registry().Unregister(driver)

	printSummary(s, driver)
}

// demoCatalog returns the idle states of the demo driver: the host's real
// catalog when readable, a synthetic one otherwise. Either way the enter
// behavior is a simulated sleep, since actually halting a core is the
// platform's business, not ours.
func demoCatalog() []idle.State {
	states, err := sysfs.ReadCatalog(0)
	if err != nil {
		states = syntheticCatalog()
	}

	for i := range states {
		if states[i].Enter == nil {
			states[i].Enter = simulatedEnter()
		}
	}

	return states
}

func syntheticCatalog() []idle.State {
	return []idle.State{
		{
			// Replaced by the built-in poll state at registration.
			Name: "POLL",
		},
		{
			Name:            "C1",
			Desc:            "simulated shallow sleep",
			ExitLatency:     2 * time.Microsecond,
			TargetResidency: 20 * time.Microsecond,
			Power:           idle.PowerUnknown,
			Flags:           idle.FlagTimeValid,
		},
		{
			Name:            "C6",
			Desc:            "simulated deep sleep",
			ExitLatency:     100 * time.Microsecond,
			TargetResidency: 400 * time.Microsecond,
			Power:           idle.PowerUnknown,
			Flags:           idle.FlagTimeValid | idle.FlagTimerStop,
		},
	}
}

// simulatedEnter naps in short slices until a reschedule request arrives.
func simulatedEnter() idle.EnterFunc {
	return func(dev *idle.Device, _ *idle.Driver, index int) int {
		p := dev.Proc()
		for !p.NeedResched() {
			time.Sleep(100 * time.Microsecond)
		}

		return index
	}
}

// selectState picks the deepest enabled state within the latency limit.
// This is a fixed bound, not a predictive governor.
func selectState(d *idle.Driver) int {
	chosen := 0
	for i, st := range d.States {
		if st.Disabled || st.Enter == nil {
			continue
		}
		if st.ExitLatency > runFlags.latencyLimit {
			continue
		}
		chosen = i
	}

	return chosen
}

func runIdleLoops(s *system.System) {
	var stop atomic.Bool
	var wg sync.WaitGroup

	for c := 0; c < s.Machine().CoreCount(); c++ {
		core := machine.CoreID(c)

		wg.Add(1)
		s.Machine().Proc(core).Submit(func() {
			defer wg.Done()
			idleLoop(s, core, &stop)
		})
	}

	time.Sleep(runFlags.duration)

	stop.Store(true)
	for c := 0; c < s.Machine().CoreCount(); c++ {
		s.Machine().Proc(machine.CoreID(c)).KickPoll()
	}

	wg.Wait()
}

// idleLoop is what a core does when it has nothing to do: take a reference
// on its driver, enter a state until the next reschedule request, account
// for the sojourn, repeat.
func idleLoop(s *system.System, core machine.CoreID, stop *atomic.Bool) {
	dev := s.Device(core)
	p := dev.Proc()

	for !stop.Load() {
		drv := s.Registry().Ref(core)
		if drv == nil {
			return
		}

		index := selectState(drv)

		start := time.Now()
		entered := drv.States[index].Enter(dev, drv, index)
		residency := time.Since(start)

		dev.RecordEntry(entered, residency)
		s.Collector().RecordIdleEntry(core, drv, entered, residency)

		s.Registry().Unref(core)
		p.ClearNeedResched()
	}
}

func printSummary(s *system.System, d *idle.Driver) {
	fmt.Printf("\ncore  %-16s %10s %14s\n", "state", "entries", "residency")

	for c := 0; c < s.Machine().CoreCount(); c++ {
		dev := s.Device(machine.CoreID(c))

		for i, usage := range dev.Usage {
			if usage.Count == 0 {
				continue
			}

			fmt.Printf("%4d  %-16s %10d %14s\n",
				c, d.States[i].Name, usage.Count, usage.Residency)
		}
	}
}
