// Package bench defines the core data model for concurrency-sweep
// benchmarking: a test subject is driven at ascending concurrency
// levels, each level yields one Measurement, and one full sweep yields
// one Sample. Samples are the unit of persistence and aggregation.
package bench

import (
	"context"
	"time"
)

// RunSummary is the structured result a TestSubject reports for one
// run at a fixed concurrency level.
type RunSummary struct {
	// Duration is the subject's own view of elapsed time. The
	// Executor records its own wall-clock duration and does not
	// trust this value for Measurement.DurationMs; it is kept for
	// diagnostics.
	Duration time.Duration `json:"duration"`

	// Test counts for the run.
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// TestSubject is the abstract workload the benchmark drives.
//
// Run executes the subject's full test set with exactly the given
// number of concurrent execution slots and blocks until the run
// completes. A returned error means the subject's execution
// infrastructure broke (could not start, crashed); test failures are
// reported through RunSummary.Failed and are not errors.
type TestSubject interface {
	// Start prepares the subject's execution infrastructure.
	// It must respect ctx; callers bound it with a readiness timeout.
	Start(ctx context.Context) error

	// Run executes the whole test set at the given concurrency.
	Run(ctx context.Context, concurrency int) (RunSummary, error)

	// Size reports the size of the test set (e.g. number of test files).
	Size() int

	// WorkloadConfig identifies the workload intensity profile.
	WorkloadConfig() string
}

// Measurement is one concurrency level's outcome within one sweep.
//
// Failed > 0 marks a degraded-but-completed run. An Executor
// infrastructure failure produces no Measurement at all for that level.
type Measurement struct {
	Concurrency int     `json:"concurrency"`
	DurationMs  float64 `json:"durationMs"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	TotalTests  int     `json:"totalTests"`
}

// Sample is the complete output of one sweep: Measurements for
// concurrency levels 1..MaxConcurrency in ascending order.
//
// A Sample is immutable once persisted. Partial holds true when the
// sweep aborted before reaching MaxConcurrency; such samples carry
// fewer Measurements than the configured ceiling.
type Sample struct {
	TestSubjectSize int           `json:"testSubjectSize"`
	WorkloadConfig  string        `json:"workloadConfig"`
	MaxConcurrency  int           `json:"maxConcurrency"`
	Partial         bool          `json:"partial,omitempty"`
	Measurements    []Measurement `json:"measurements"`
}
