//go:build linux

package machine

import "golang.org/x/sys/unix"

// pinCurrentThread binds the calling OS thread to one host CPU. The caller
// must have locked the goroutine to its thread first.
func pinCurrentThread(c CoreID) error {
	var set unix.CPUSet
	set.Set(int(c))

	return unix.SchedSetaffinity(0, &set)
}
