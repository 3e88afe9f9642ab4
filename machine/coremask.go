// Package machine provides the bounded logical-core substrate that the idle
// management runtime operates on. Each core is served by a dedicated
// executor, and cores are addressed by CoreID and grouped by CoreMask.
package machine

import (
	"fmt"
	"log"
	"math/bits"
	"strings"
)

// MaxCores is the upper bound of the core-id space.
const MaxCores = 1024

const maskWords = MaxCores / 64

// CoreID identifies one logical core.
type CoreID int

// A CoreMask is a fixed-width set of core IDs.
type CoreMask [maskWords]uint64

// MaskOf creates a CoreMask containing the given cores.
func MaskOf(cores ...CoreID) CoreMask {
	var m CoreMask
	for _, c := range cores {
		m.Set(c)
	}
	return m
}

// MaskRange creates a CoreMask containing all cores from first to last,
// inclusive on both ends.
func MaskRange(first, last CoreID) CoreMask {
	var m CoreMask
	for c := first; c <= last; c++ {
		m.Set(c)
	}
	return m
}

func mustBeInRange(c CoreID) {
	if c < 0 || c >= MaxCores {
		log.Panicf("core id %d out of range", c)
	}
}

// Set adds a core to the mask.
func (m *CoreMask) Set(c CoreID) {
	mustBeInRange(c)
	m[c/64] |= 1 << (uint(c) % 64)
}

// Clear removes a core from the mask.
func (m *CoreMask) Clear(c CoreID) {
	mustBeInRange(c)
	m[c/64] &^= 1 << (uint(c) % 64)
}

// Has returns true if the mask contains the core.
func (m CoreMask) Has(c CoreID) bool {
	if c < 0 || c >= MaxCores {
		return false
	}
	return m[c/64]&(1<<(uint(c)%64)) != 0
}

// IsEmpty returns true if the mask contains no core.
func (m CoreMask) IsEmpty() bool {
	for _, w := range m {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of cores in the mask.
func (m CoreMask) Count() int {
	n := 0
	for _, w := range m {
		n += bits.OnesCount64(w)
	}
	return n
}

// Intersects returns true if the two masks share at least one core.
func (m CoreMask) Intersects(o CoreMask) bool {
	for i, w := range m {
		if w&o[i] != 0 {
			return true
		}
	}
	return false
}

// Cores returns the cores in the mask in ascending order.
func (m CoreMask) Cores() []CoreID {
	cores := make([]CoreID, 0, m.Count())
	for i, w := range m {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			cores = append(cores, CoreID(i*64+bit))
			w &^= 1 << uint(bit)
		}
	}
	return cores
}

// String renders the mask in core-list format, e.g. "0-3,7".
func (m CoreMask) String() string {
	cores := m.Cores()
	if len(cores) == 0 {
		return ""
	}

	var sb strings.Builder
	start := cores[0]
	prev := cores[0]
	flush := func(last CoreID) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		if start == last {
			fmt.Fprintf(&sb, "%d", start)
		} else {
			fmt.Fprintf(&sb, "%d-%d", start, last)
		}
	}

	for _, c := range cores[1:] {
		if c != prev+1 {
			flush(prev)
			start = c
		}
		prev = c
	}
	flush(prev)

	return sb.String()
}
