package datarecording

import (
	"time"

	"github.com/sarchlab/coreidle/hooking"
	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
)

// A DriverLifecycleEntry is one registration, unregistration, or broadcast
// switchover.
type DriverLifecycleEntry struct {
	Time    int64
	Event   string
	Driver  string
	Cores   string
	States  int
	BcTimer bool
}

// A ViolationEntry is one protocol violation reported by the registry.
type ViolationEntry struct {
	Time   int64
	Kind   string
	Driver string
}

// An IdleEntrySample is one completed sojourn of a core in an idle state.
type IdleEntrySample struct {
	Time      int64
	Core      int
	Driver    string
	State     string
	Index     int
	Residency int64
}

// Table names used by the Collector.
const (
	DriverLifecycleTable = "driver_lifecycle"
	ViolationTable       = "violations"
	IdleEntryTable       = "idle_entries"
)

// A Collector is a hook that records registry lifecycle events and protocol
// violations into a DataRecorder. Idle-entry samples are pushed in by
// whoever runs the idle loop.
type Collector struct {
	recorder DataRecorder
}

// NewCollector creates a Collector and its tables. Attach it to a registry
// with AcceptHook.
func NewCollector(recorder DataRecorder) *Collector {
	c := &Collector{recorder: recorder}

	recorder.CreateTable(DriverLifecycleTable, DriverLifecycleEntry{})
	recorder.CreateTable(ViolationTable, ViolationEntry{})
	recorder.CreateTable(IdleEntryTable, IdleEntrySample{})

	return c
}

// Func records the hook contexts fired by the registry.
func (c *Collector) Func(ctx hooking.HookCtx) {
	d, ok := ctx.Item.(*idle.Driver)
	if !ok {
		return
	}

	now := time.Now().UnixNano()

	switch ctx.Pos {
	case idle.HookPosRegister, idle.HookPosUnregister:
		c.recorder.InsertData(DriverLifecycleTable, DriverLifecycleEntry{
			Time:    now,
			Event:   ctx.Pos.Name,
			Driver:  d.Name,
			Cores:   d.Cores.String(),
			States:  d.StateCount(),
			BcTimer: d.BroadcastTimer(),
		})
	case idle.HookPosBroadcastEnter, idle.HookPosBroadcastExit:
		core, _ := ctx.Detail.(machine.CoreID)
		c.recorder.InsertData(DriverLifecycleTable, DriverLifecycleEntry{
			Time:    now,
			Event:   ctx.Pos.Name,
			Driver:  d.Name,
			Cores:   machine.MaskOf(core).String(),
			States:  d.StateCount(),
			BcTimer: true,
		})
	case idle.HookPosUnregisterRefused, idle.HookPosRefUnderflow:
		c.recorder.InsertData(ViolationTable, ViolationEntry{
			Time:   now,
			Kind:   ctx.Pos.Name,
			Driver: d.Name,
		})
	}
}

// RecordIdleEntry records one completed sojourn in an idle state.
func (c *Collector) RecordIdleEntry(
	core machine.CoreID,
	d *idle.Driver,
	index int,
	residency time.Duration,
) {
	stateName := ""
	if index >= 0 && index < d.StateCount() {
		stateName = d.States[index].Name
	}

	c.recorder.InsertData(IdleEntryTable, IdleEntrySample{
		Time:      time.Now().UnixNano(),
		Core:      int(core),
		Driver:    d.Name,
		State:     stateName,
		Index:     index,
		Residency: int64(residency),
	})
}
