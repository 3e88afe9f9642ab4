package idle

import (
	"sync/atomic"

	"github.com/sarchlab/coreidle/machine"
)

// A table maps each core to the driver currently governing it. Reads are
// lock-free; claim and release must only be called while holding the
// registry lock. Release is idempotent: it skips slots that do not point at
// the given driver, which claim relies on when rolling back a partial claim.
type table interface {
	driver(c machine.CoreID) *Driver
	claim(mask machine.CoreMask, d *Driver) bool
	release(mask machine.CoreMask, d *Driver)
}

// A singleTable allows at most one driver system-wide. Any occupant
// conflicts with a new claim, regardless of mask overlap.
type singleTable struct {
	curr atomic.Pointer[Driver]
}

func newSingleTable() *singleTable {
	return &singleTable{}
}

func (t *singleTable) driver(machine.CoreID) *Driver {
	return t.curr.Load()
}

func (t *singleTable) claim(_ machine.CoreMask, d *Driver) bool {
	if t.curr.Load() != nil {
		return false
	}

	t.curr.Store(d)

	return true
}

func (t *singleTable) release(_ machine.CoreMask, d *Driver) {
	if t.curr.Load() == d {
		t.curr.Store(nil)
	}
}

// A perCoreTable gives every core its own slot, so disjoint drivers can
// coexist. The slot arena is sized by the possible-core count at build time.
type perCoreTable struct {
	slots []atomic.Pointer[Driver]
}

func newPerCoreTable(coreCount int) *perCoreTable {
	return &perCoreTable{
		slots: make([]atomic.Pointer[Driver], coreCount),
	}
}

func (t *perCoreTable) driver(c machine.CoreID) *Driver {
	if c < 0 || int(c) >= len(t.slots) {
		return nil
	}
	return t.slots[c].Load()
}

func (t *perCoreTable) claim(mask machine.CoreMask, d *Driver) bool {
	for _, c := range mask.Cores() {
		if int(c) >= len(t.slots) {
			continue
		}

		if t.slots[c].Load() != nil {
			t.release(mask, d)
			return false
		}

		t.slots[c].Store(d)
	}

	return true
}

func (t *perCoreTable) release(mask machine.CoreMask, d *Driver) {
	for _, c := range mask.Cores() {
		if int(c) >= len(t.slots) {
			continue
		}

		if t.slots[c].Load() != d {
			continue
		}

		t.slots[c].Store(nil)
	}
}
