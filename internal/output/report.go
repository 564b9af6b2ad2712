// Package output renders a StatisticalAnalysis as ASCII tables and
// graphs. It is a pure presentation layer: every number it prints is
// already computed by the analysis package.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wesleyorama2/sweepbench/internal/bench/analysis"
)

const (
	graphWidth  = 40
	graphFilled = "█"
	graphEmpty  = "░"
)

// Reporter writes analysis reports to a writer.
type Reporter struct {
	writer io.Writer
	colors *ColorScheme
}

// NewReporter creates a Reporter. A nil scheme picks colors based on
// whether stdout is a terminal.
func NewReporter(w io.Writer, scheme *ColorScheme) *Reporter {
	if scheme == nil {
		if ColorsEnabled() {
			scheme = DefaultColorScheme()
		} else {
			scheme = NoColorScheme()
		}
	}
	return &Reporter{writer: w, colors: scheme}
}

// Render writes the full report: header, per-level table, speedup
// table, duration graph, and the fastest / most-consistent callouts.
func (r *Reporter) Render(a *analysis.StatisticalAnalysis) {
	r.renderHeader(a)
	r.renderLevelTable(a)
	r.renderSpeedupTable(a)
	r.renderDurationGraph(a)
	r.renderRecommendations(a)
}

func (r *Reporter) renderHeader(a *analysis.StatisticalAnalysis) {
	line := strings.Repeat("━", 72)

	fmt.Fprintln(r.writer, r.colors.Header.Sprint(line))
	fmt.Fprintln(r.writer, r.colors.Header.Sprintf(
		"Concurrency Sweep Analysis — workload %q, %d test files, %d samples",
		a.WorkloadConfig, a.TestSubjectSize, a.SampleSize))
	fmt.Fprintln(r.writer, r.colors.Dim.Sprintf("generated %s", a.GeneratedAt.Format(time.RFC3339)))
	fmt.Fprintln(r.writer, r.colors.Header.Sprint(line))
	fmt.Fprintln(r.writer)
}

func (r *Reporter) renderLevelTable(a *analysis.StatisticalAnalysis) {
	fmt.Fprintln(r.writer, r.colors.Header.Sprint("Per-level duration distribution (ms)"))
	fmt.Fprintf(r.writer, "%5s %9s %9s %9s %9s %9s %7s %7s %7s %3s\n",
		"conc", "mean", "median", "min", "max", "stddev", "cov%", "pass", "fail", "n")

	for i := range a.AggregatedLevels {
		level := &a.AggregatedLevels[i]
		d := level.DurationStats
		cov := analysis.CoefficientOfVariation(level)

		covStr := fmt.Sprintf("%.1f", cov)
		switch {
		case cov > 25:
			covStr = r.colors.Bad.Sprint(covStr)
		case cov > 10:
			covStr = r.colors.Warn.Sprint(covStr)
		default:
			covStr = r.colors.Good.Sprint(covStr)
		}

		failStr := fmt.Sprintf("%7.1f", level.FailedStats.Mean)
		if level.FailedStats.Mean > 0 {
			failStr = r.colors.Warn.Sprint(failStr)
		}

		fmt.Fprintf(r.writer, "%5d %9.1f %9.1f %9.1f %9.1f %9.1f %7s %7.1f %s %3d\n",
			level.Concurrency, d.Mean, d.Median, d.Min, d.Max, d.StdDev,
			covStr, level.PassedStats.Mean, failStr, level.SampleCount)
	}
	fmt.Fprintln(r.writer)
}

func (r *Reporter) renderSpeedupTable(a *analysis.StatisticalAnalysis) {
	if a.Baseline() == nil {
		fmt.Fprintln(r.writer, r.colors.Warn.Sprint("No concurrency-1 baseline present; speedups unavailable."))
		fmt.Fprintln(r.writer)
		return
	}

	fmt.Fprintln(r.writer, r.colors.Header.Sprint("Speedup vs concurrency 1"))
	fmt.Fprintf(r.writer, "%5s %8s %8s %8s %8s\n", "conc", "mean", "median", "best", "worst")

	for i := range a.AggregatedLevels {
		level := &a.AggregatedLevels[i]
		fmt.Fprintf(r.writer, "%5d %8.2f %8.2f %8.2f %8.2f\n",
			level.Concurrency,
			a.Speedup(level, analysis.SpeedupMean),
			a.Speedup(level, analysis.SpeedupMedian),
			a.Speedup(level, analysis.SpeedupBest),
			a.Speedup(level, analysis.SpeedupWorst))
	}
	fmt.Fprintln(r.writer)
}

func (r *Reporter) renderDurationGraph(a *analysis.StatisticalAnalysis) {
	maxMean := 0.0
	for _, level := range a.AggregatedLevels {
		if level.DurationStats.Mean > maxMean {
			maxMean = level.DurationStats.Mean
		}
	}
	if maxMean == 0 {
		return
	}

	fmt.Fprintln(r.writer, r.colors.Header.Sprint("Mean duration by concurrency"))
	for _, level := range a.AggregatedLevels {
		filled := int(level.DurationStats.Mean / maxMean * graphWidth)
		if filled < 1 {
			filled = 1
		}
		bar := r.colors.GraphFilled.Sprint(strings.Repeat(graphFilled, filled)) +
			r.colors.Dim.Sprint(strings.Repeat(graphEmpty, graphWidth-filled))
		fmt.Fprintf(r.writer, "%5d %s %8.1fms\n", level.Concurrency, bar, level.DurationStats.Mean)
	}
	fmt.Fprintln(r.writer)
}

func (r *Reporter) renderRecommendations(a *analysis.StatisticalAnalysis) {
	fastest := a.FastestLevel()
	consistent := a.MostConsistentLevel()
	if fastest == nil || consistent == nil {
		return
	}

	fmt.Fprintf(r.writer, "Fastest:         %s (mean %.1fms",
		r.colors.Highlight.Sprintf("concurrency %d", fastest.Concurrency),
		fastest.DurationStats.Mean)
	if a.Baseline() != nil {
		fmt.Fprintf(r.writer, ", %.2fx vs sequential", a.Speedup(fastest, analysis.SpeedupMean))
	}
	fmt.Fprintln(r.writer, ")")

	fmt.Fprintf(r.writer, "Most consistent: %s (stddev %.1fms, cov %.1f%%)\n",
		r.colors.Highlight.Sprintf("concurrency %d", consistent.Concurrency),
		consistent.DurationStats.StdDev,
		analysis.CoefficientOfVariation(consistent))
}
