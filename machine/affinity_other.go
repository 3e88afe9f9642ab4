//go:build !linux

package machine

// pinCurrentThread is a no-op on platforms without affinity syscalls.
func pinCurrentThread(CoreID) error {
	return nil
}
