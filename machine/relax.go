package machine

import "runtime"

// Relax yields the processor for one beat of a busy-wait loop. It is the
// spin-wait primitive the built-in poll idle state is built on.
func Relax() {
	runtime.Gosched()
}
