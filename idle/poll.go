package idle

import (
	"github.com/sarchlab/coreidle/machine"
)

// PollingAvailable returns true if the platform has a cheap spin-wait
// primitive the built-in poll state can be built on. The Go runtime always
// provides one, so the poll state is installed on every platform.
func PollingAvailable() bool {
	return true
}

// pollEnter busy-waits until a reschedule request arrives. The core
// advertises that it is polling so wakers can skip the wake notification,
// and yields the processor on every iteration.
func pollEnter(dev *Device, _ *Driver, index int) int {
	p := dev.Proc()

	if !p.SetPollingAndTest() {
		for !p.NeedResched() {
			machine.Relax()
		}
	}
	p.ClearPolling()

	return index
}

// installPollState overwrites catalog slot 0 with the built-in poll state.
func installPollState(d *Driver) {
	if !PollingAvailable() {
		return
	}

	state := &d.States[0]
	state.Name = truncate("POLL", NameLen)
	state.Desc = truncate("COREIDLE CORE POLL IDLE", DescLen)
	state.ExitLatency = 0
	state.TargetResidency = 0
	state.Power = PowerUnknown
	state.Flags = FlagTimeValid
	state.Enter = pollEnter
	state.Disabled = false
}
