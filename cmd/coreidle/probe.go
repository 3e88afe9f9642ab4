package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/sysfs"
)

var probeFlags = struct {
	cpu  int
	root string
}{}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Dump the idle-state catalog of one cpu from sysfs",
	Run:   probe,
}

func init() {
	probeCmd.Flags().IntVar(&probeFlags.cpu, "cpu", 0,
		"cpu whose catalog to read")
	probeCmd.Flags().StringVar(&probeFlags.root, "root", sysfs.DefaultRoot,
		"root of the cpu device tree")

	rootCmd.AddCommand(probeCmd)
}

func probe(_ *cobra.Command, _ []string) {
	if n, err := sysfs.PossibleCoresFrom(probeFlags.root); err == nil {
		fmt.Printf("possible cores: %d\n", n)
	}

	states, err := sysfs.ReadCatalogFrom(probeFlags.root, probeFlags.cpu)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read catalog: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-4s %-16s %-32s %12s %12s %8s %s\n",
		"slot", "name", "desc", "latency", "residency", "power", "disabled")

	for i, s := range states {
		power := "?"
		if s.Power != idle.PowerUnknown {
			power = fmt.Sprintf("%dmW", s.Power)
		}

		fmt.Printf("%-4d %-16s %-32s %12s %12s %8s %t\n",
			i, s.Name, s.Desc, s.ExitLatency, s.TargetResidency,
			power, s.Disabled)
	}
}
