package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "sweepbench",
	Short:   "Measure how a test suite behaves across concurrency levels",
	Version: version,
	Long: `Sweepbench drives a workload-sensitive test suite across an ascending
concurrency range, repeats the sweep to control for variance, and turns
the raw timing samples into statistically sound guidance about which
concurrency level gives the best throughput and consistency.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(sweepCmd)
	RootCmd.AddCommand(analyzeCmd)
}
