package idle

import (
	"github.com/sarchlab/coreidle/machine"
)

//go:generate mockgen -destination "mock_idle_test.go" -package $GOPACKAGE -write_package_comment=false -source broadcaster.go

// A Broadcaster switches one core's periodic-timer broadcast mode. The
// registry calls it on each core of a driver's mask when the driver has
// timer-stopping states. Both calls are delivered on the target core and
// must complete before they return.
type Broadcaster interface {
	// EnterBroadcast hands the core's wakeup duty to the shared broadcast
	// timer.
	EnterBroadcast(c machine.CoreID)

	// ExitBroadcast returns wakeup duty to the core's local timer.
	ExitBroadcast(c machine.CoreID)
}

// A Fanout runs a function on every core in a mask and waits for all of them
// to complete. machine.Machine implements it.
type Fanout interface {
	OnEach(mask machine.CoreMask, fn func(machine.CoreID))
}

// nopBroadcaster is used when no broadcast timer is wired in. Drivers with
// timer-stopping states still register, they just get no wakeup substitute.
type nopBroadcaster struct{}

func (nopBroadcaster) EnterBroadcast(machine.CoreID) {}
func (nopBroadcaster) ExitBroadcast(machine.CoreID)  {}

// serialFanout runs the function inline on the calling goroutine, one core
// at a time. It is the default when no machine is wired in.
type serialFanout struct{}

func (serialFanout) OnEach(mask machine.CoreMask, fn func(machine.CoreID)) {
	for _, c := range mask.Cores() {
		fn(c)
	}
}
