package idle

import (
	"github.com/sarchlab/coreidle/machine"
)

// A Driver is one idle-state driver: a catalog of states plus the set of
// cores it applies to. The caller populates Name, States, and optionally
// Cores before registration; refcnt and bctimer are derived by the registry
// at registration time and must not be touched by the caller.
type Driver struct {
	Name string

	// States is the ordered catalog, shallowest first. Slot 0 is replaced
	// by the built-in poll state at registration when polling is
	// available.
	States []State

	// Cores is the set of cores this driver governs. A zero mask defaults
	// to all possible cores at registration.
	Cores machine.CoreMask

	// refcnt counts active users of the driver. It is only touched while
	// holding the registry lock.
	refcnt int

	// bctimer is true if any state in the catalog stops the local timer.
	bctimer bool
}

// StateCount returns the number of states in the catalog.
func (d *Driver) StateCount() int {
	return len(d.States)
}

// BroadcastTimer returns true if registering this driver turned the shared
// broadcast timer on for its cores.
func (d *Driver) BroadcastTimer() bool {
	return d.bctimer
}

// init computes the derived fields at registration time.
func (d *Driver) init(possible machine.CoreMask) {
	d.refcnt = 0

	if d.Cores.IsEmpty() {
		d.Cores = possible
	}

	d.bctimer = false
	for i := len(d.States) - 1; i >= 0; i-- {
		if d.States[i].Flags&FlagTimerStop != 0 {
			d.bctimer = true
			break
		}
	}

	for i := range d.States {
		d.States[i].Name = truncate(d.States[i].Name, NameLen)
		d.States[i].Desc = truncate(d.States[i].Desc, DescLen)
	}
}
