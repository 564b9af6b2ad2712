// Package analysis combines many Samples that share a concurrency
// range into one StatisticalAnalysis: per-level distributions plus the
// derived speedup and consistency metrics used to pick an optimal
// concurrency setting.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/stats"
)

// AggregatedLevel holds the distributions for one concurrency value
// across many Samples.
type AggregatedLevel struct {
	Concurrency   int              `json:"concurrency"`
	DurationStats stats.Statistics `json:"durationStats"`
	PassedStats   stats.Statistics `json:"passedStats"`
	FailedStats   stats.Statistics `json:"failedStats"`

	// SampleCount is the number of Samples that contributed a
	// Measurement at this level. Partial sweeps make it smaller
	// than the analysis SampleSize.
	SampleCount int `json:"sampleCount"`
}

// StatisticalAnalysis is the top-level aggregation result.
type StatisticalAnalysis struct {
	TestSubjectSize  int               `json:"testSubjectSize"`
	WorkloadConfig   string            `json:"workloadConfig"`
	SampleSize       int               `json:"sampleSize"`
	AggregatedLevels []AggregatedLevel `json:"aggregatedLevels"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

// InputError reports invalid aggregation input (empty collection or
// samples from different experiments).
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return "invalid aggregation input: " + e.Message
}

// Aggregate reduces a non-empty collection of Samples into one
// StatisticalAnalysis.
//
// All samples must come from the same experiment: identical configured
// MaxConcurrency and WorkloadConfig. Mixing experiments fails fast;
// nothing is silently dropped. Within a consistent collection, samples
// that aborted early contribute only the levels they reached, so a
// level's SampleCount may be below SampleSize and a level nobody
// reached is simply absent. Empty buckets therefore never reach the
// statistics layer.
func Aggregate(samples []*bench.Sample) (*StatisticalAnalysis, error) {
	if len(samples) == 0 {
		return nil, &InputError{Message: "no samples to aggregate"}
	}

	first := samples[0]
	for i, s := range samples[1:] {
		if s.MaxConcurrency != first.MaxConcurrency {
			return nil, &InputError{Message: fmt.Sprintf(
				"inconsistent concurrency ranges: sample 0 has maxConcurrency %d, sample %d has %d",
				first.MaxConcurrency, i+1, s.MaxConcurrency)}
		}
		if s.WorkloadConfig != first.WorkloadConfig {
			return nil, &InputError{Message: fmt.Sprintf(
				"inconsistent workload configs: sample 0 is %q, sample %d is %q",
				first.WorkloadConfig, i+1, s.WorkloadConfig)}
		}
	}

	type bucket struct {
		durations []float64
		passed    []float64
		failed    []float64
	}
	buckets := make(map[int]*bucket)

	for _, s := range samples {
		for _, m := range s.Measurements {
			b := buckets[m.Concurrency]
			if b == nil {
				b = &bucket{}
				buckets[m.Concurrency] = b
			}
			b.durations = append(b.durations, m.DurationMs)
			b.passed = append(b.passed, float64(m.Passed))
			b.failed = append(b.failed, float64(m.Failed))
		}
	}

	levels := make([]int, 0, len(buckets))
	for c := range buckets {
		levels = append(levels, c)
	}
	sort.Ints(levels)

	aggregated := make([]AggregatedLevel, 0, len(levels))
	for _, c := range levels {
		b := buckets[c]
		aggregated = append(aggregated, AggregatedLevel{
			Concurrency:   c,
			DurationStats: stats.Compute(b.durations),
			PassedStats:   stats.Compute(b.passed),
			FailedStats:   stats.Compute(b.failed),
			SampleCount:   len(b.durations),
		})
	}

	return &StatisticalAnalysis{
		TestSubjectSize:  first.TestSubjectSize,
		WorkloadConfig:   first.WorkloadConfig,
		SampleSize:       len(samples),
		AggregatedLevels: aggregated,
		GeneratedAt:      time.Now(),
	}, nil
}
