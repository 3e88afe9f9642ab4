package idle

import (
	"github.com/sarchlab/coreidle/hooking"
)

// Hook positions fired by the registry. Item is always the *Driver involved;
// Detail carries the core for per-core positions.
var (
	// HookPosRegister fires after a driver is successfully registered.
	HookPosRegister = &hooking.HookPos{Name: "Register"}

	// HookPosUnregister fires after a driver is successfully unregistered.
	HookPosUnregister = &hooking.HookPos{Name: "Unregister"}

	// HookPosUnregisterRefused fires when unregistration is refused
	// because the driver still has users. This is a protocol violation by
	// the caller.
	HookPosUnregisterRefused = &hooking.HookPos{Name: "UnregisterRefused"}

	// HookPosRefUnderflow fires when a reference is released past zero.
	// This is a protocol violation by the caller.
	HookPosRefUnderflow = &hooking.HookPos{Name: "RefUnderflow"}

	// HookPosBroadcastEnter fires on each core as it is switched to
	// broadcast-timer mode.
	HookPosBroadcastEnter = &hooking.HookPos{Name: "BroadcastEnter"}

	// HookPosBroadcastExit fires on each core as it is switched back to
	// its local timer.
	HookPosBroadcastExit = &hooking.HookPos{Name: "BroadcastExit"}
)

// ViolationPositions lists the positions that report caller bugs rather than
// runtime conditions. They are what a diagnostic sink should watch.
func ViolationPositions() []*hooking.HookPos {
	return []*hooking.HookPos{
		HookPosUnregisterRefused,
		HookPosRefUnderflow,
	}
}
