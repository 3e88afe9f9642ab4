// Package sysfs reads idle-state catalogs from the Linux cpuidle sysfs
// interface, typically rooted at /sys/devices/system/cpu. The states it
// returns are descriptive only: their Enter callbacks are nil and must be
// filled in by whoever executes them.
package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/coreidle/idle"
)

// DefaultRoot is where the kernel exposes the cpu device tree.
const DefaultRoot = "/sys/devices/system/cpu"

// ReadCatalog reads the idle-state catalog of one cpu from the default root.
func ReadCatalog(cpu int) ([]idle.State, error) {
	return ReadCatalogFrom(DefaultRoot, cpu)
}

// ReadCatalogFrom reads the idle-state catalog of one cpu from a custom
// root. States come back in sysfs index order, shallowest first.
func ReadCatalogFrom(root string, cpu int) ([]idle.State, error) {
	dir := filepath.Join(root, fmt.Sprintf("cpu%d", cpu), "cpuidle")

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("no cpuidle directory for cpu%d: %w", cpu, err)
	}

	var states []idle.State
	for i := 0; ; i++ {
		stateDir := filepath.Join(dir, fmt.Sprintf("state%d", i))
		if _, err := os.Stat(stateDir); err != nil {
			break
		}

		s, err := readState(stateDir)
		if err != nil {
			return nil, fmt.Errorf("cpu%d state%d: %w", cpu, i, err)
		}

		states = append(states, s)
	}

	if len(states) == 0 {
		return nil, fmt.Errorf("cpu%d has no idle states", cpu)
	}

	return states, nil
}

func readState(dir string) (idle.State, error) {
	s := idle.State{
		Flags: idle.FlagTimeValid,
		Power: idle.PowerUnknown,
	}

	name, err := readString(dir, "name")
	if err != nil {
		return s, err
	}
	s.Name = name

	desc, err := readString(dir, "desc")
	if err != nil {
		return s, err
	}
	s.Desc = desc

	latency, err := readInt(dir, "latency")
	if err != nil {
		return s, err
	}
	s.ExitLatency = time.Duration(latency) * time.Microsecond

	residency, err := readInt(dir, "residency")
	if err != nil {
		return s, err
	}
	s.TargetResidency = time.Duration(residency) * time.Microsecond

	// power and disable are optional attributes.
	if power, err := readInt(dir, "power"); err == nil && power > 0 {
		s.Power = int(power)
	}

	if disable, err := readInt(dir, "disable"); err == nil {
		s.Disabled = disable != 0
	}

	return s, nil
}

func readString(dir, attr string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(raw)), nil
}

func readInt(dir, attr string) (int64, error) {
	str, err := readString(dir, attr)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(str, 10, 64)
}

// PossibleCores reads the possible-core count from the default root.
func PossibleCores() (int, error) {
	return PossibleCoresFrom(DefaultRoot)
}

// PossibleCoresFrom parses the `possible` file, which holds a core-id range
// like "0-7" or a single "0", and returns the core count.
func PossibleCoresFrom(root string) (int, error) {
	str, err := readString(root, "possible")
	if err != nil {
		return 0, err
	}

	last := str
	if idx := strings.LastIndex(str, "-"); idx >= 0 {
		last = str[idx+1:]
	}

	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("malformed possible file %q: %w", str, err)
	}

	return n + 1, nil
}
