package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/analysis"
	"github.com/wesleyorama2/sweepbench/internal/bench/executor"
	"github.com/wesleyorama2/sweepbench/internal/bench/runner"
	"github.com/wesleyorama2/sweepbench/internal/bench/store"
	"github.com/wesleyorama2/sweepbench/internal/config"
	"github.com/wesleyorama2/sweepbench/internal/output"
	"github.com/wesleyorama2/sweepbench/internal/workload"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run concurrency sweeps and aggregate the results",
	Long: `Run the configured number of sweeps, each measuring the synthetic
workload at concurrency levels 1..N in strictly ascending order, persist
every sample, then aggregate and report.

Config file mode:
  sweepbench sweep --config sweep.yaml

Quick CLI mode:
  sweepbench sweep --max-concurrency 8 --samples 5 --workload medium`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd, cmd.OutOrStdout())
	},
}

// runSweep drives the full benchmark: M sweeps, persistence,
// aggregation, report.
func runSweep(cmd *cobra.Command, out io.Writer) error {
	cfg, err := sweepConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	st, err := store.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	sim, err := workload.New(workload.Config{
		Mode:        workload.Mode(cfg.Workload),
		TestCount:   cfg.TestSubjectSize,
		FailureRate: cfg.FailureRate,
	})
	if err != nil {
		return err
	}
	defer sim.Cleanup()

	exec := executor.New(sim, executor.Config{StartupTimeout: cfg.ParsedStartupTimeout()})
	run, err := runner.New(exec, sim, runner.Config{MaxConcurrency: cfg.MaxConcurrency})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	samples, sweepErr := collectSamples(ctx, out, cfg, run, st, verbose)
	if len(samples) == 0 {
		if sweepErr != nil {
			return sweepErr
		}
		return fmt.Errorf("no samples collected")
	}
	if sweepErr != nil {
		fmt.Fprintf(out, "sweep aborted: %v; aggregating %d collected sample(s)\n", sweepErr, len(samples))
	}

	result, err := analysis.Aggregate(samples)
	if err != nil {
		return err
	}

	analysisPath, err := st.SaveAnalysis(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	output.NewReporter(out, nil).Render(result)
	fmt.Fprintf(out, "\nAnalysis: %s\n", analysisPath)

	if verbose {
		lat := sim.TaskLatencies()
		fmt.Fprintf(out, "Workload task latencies: n=%d min=%v p50=%v p95=%v p99=%v max=%v\n",
			lat.Count, lat.Min, lat.P50, lat.P95, lat.P99, lat.Max)
	}

	if sweepErr != nil {
		return sweepErr
	}
	return nil
}

// collectSamples runs cfg.SampleSize sweeps one after another.
// Sweeps never overlap; cross-sweep contention would bias the very
// measurements being taken. On an executor failure the remaining
// sweeps are skipped and, when KeepPartial is set, the partial sample
// is persisted alongside the complete ones.
func collectSamples(ctx context.Context, out io.Writer, cfg *config.SweepConfig, run *runner.Runner, st *store.Store, verbose bool) ([]*bench.Sample, error) {
	var samples []*bench.Sample

	for i := 0; i < cfg.SampleSize; i++ {
		fmt.Fprintf(out, "Sweep %d/%d (concurrency 1..%d)\n", i+1, cfg.SampleSize, cfg.MaxConcurrency)

		sample, err := run.Run(ctx)
		if verbose {
			for _, m := range sample.Measurements {
				fmt.Fprintf(out, "  concurrency %d: %.1fms (%d/%d passed)\n",
					m.Concurrency, m.DurationMs, m.Passed, m.TotalTests)
			}
		}

		if err != nil {
			if *cfg.KeepPartial && len(sample.Measurements) > 0 {
				if _, saveErr := st.SaveSample(sample); saveErr != nil {
					return samples, saveErr
				}
				samples = append(samples, sample)
			}
			return samples, err
		}

		if _, err := st.SaveSample(sample); err != nil {
			return samples, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// sweepConfigFromFlags loads the config file (when given) and applies
// flag overrides.
func sweepConfigFromFlags(cmd *cobra.Command) (*config.SweepConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *config.SweepConfig
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if cmd.Flags().Changed("max-concurrency") {
		cfg.MaxConcurrency, _ = cmd.Flags().GetInt("max-concurrency")
	}
	if cmd.Flags().Changed("samples") {
		cfg.SampleSize, _ = cmd.Flags().GetInt("samples")
	}
	if cmd.Flags().Changed("workload") {
		cfg.Workload, _ = cmd.Flags().GetString("workload")
	}
	if cmd.Flags().Changed("size") {
		cfg.TestSubjectSize, _ = cmd.Flags().GetInt("size")
	}
	if cmd.Flags().Changed("failure-rate") {
		cfg.FailureRate, _ = cmd.Flags().GetFloat64("failure-rate")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("discard-partial") {
		discard, _ := cmd.Flags().GetBool("discard-partial")
		keep := !discard
		cfg.KeepPartial = &keep
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	sweepCmd.Flags().StringP("config", "c", "", "Configuration file (YAML)")
	sweepCmd.Flags().Int("max-concurrency", 0, "Highest concurrency level to measure")
	sweepCmd.Flags().Int("samples", 0, "Number of independent sweeps to run")
	sweepCmd.Flags().String("workload", "", "Workload mode: light, medium, heavy")
	sweepCmd.Flags().Int("size", 0, "Number of synthetic test cases per run")
	sweepCmd.Flags().Float64("failure-rate", 0, "Injected test failure fraction in [0,1)")
	sweepCmd.Flags().String("output-dir", "", "Directory for persisted samples and analyses")
	sweepCmd.Flags().Bool("discard-partial", false, "Discard partially-collected sweeps instead of persisting them")
	sweepCmd.Flags().BoolP("verbose", "v", false, "Print each measurement as it completes")
}
