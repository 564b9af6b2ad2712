package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/sweepbench/internal/bench/analysis"
	"github.com/wesleyorama2/sweepbench/internal/bench/store"
	"github.com/wesleyorama2/sweepbench/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate previously recorded samples into an analysis",
	Long: `Load persisted sweep samples from a results directory, aggregate them
into per-concurrency-level distributions, and render the report. All
samples must come from the same experiment (same workload and
concurrency ceiling); mixing experiments is an error.

  sweepbench analyze --dir sweepbench-results --workload medium`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, cmd.OutOrStdout())
	},
}

func runAnalyze(cmd *cobra.Command, out io.Writer) error {
	dir, _ := cmd.Flags().GetString("dir")
	workload, _ := cmd.Flags().GetString("workload")
	save, _ := cmd.Flags().GetBool("save")

	st, err := store.New(dir)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(workload)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples found in %s", dir)
	}

	result, err := analysis.Aggregate(samples)
	if err != nil {
		return err
	}

	output.NewReporter(out, nil).Render(result)

	if save {
		path, err := st.SaveAnalysis(result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAnalysis: %s\n", path)
	}

	return nil
}

func init() {
	analyzeCmd.Flags().StringP("dir", "d", "sweepbench-results", "Directory holding sample records")
	analyzeCmd.Flags().StringP("workload", "w", "", "Only aggregate samples for this workload")
	analyzeCmd.Flags().Bool("save", false, "Persist the analysis record next to the samples")
}
