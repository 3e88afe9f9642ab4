package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coreidle",
	Short: "Coreidle manages idle-state drivers for the cores of a machine.",
	Long: `Coreidle manages idle-state drivers for the cores of a machine. ` +
		`It arbitrates which driver governs which core, coordinates the ` +
		`broadcast timer for deep idle states, and records what every core ` +
		`did while idle.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env file is optional.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
