// The coreidle command runs demo workloads under idle management and
// inspects the idle-state catalogs of the host.
package main

func main() {
	Execute()
}
