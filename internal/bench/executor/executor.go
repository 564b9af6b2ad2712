// Package executor runs a single benchmark measurement at a fixed
// concurrency level against an abstract test subject.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/wesleyorama2/sweepbench/internal/bench"
)

// DefaultStartupTimeout bounds how long a subject may take to become
// ready. A subject that cannot start within the window is an
// infrastructure failure, not a slow measurement.
const DefaultStartupTimeout = 30 * time.Second

// Executor produces one Measurement per call by driving a TestSubject
// at exactly the requested concurrency.
//
// The wall-clock duration of the whole run is measured here rather
// than taken from the subject's own summary, so every Measurement is
// timed the same way regardless of subject implementation. No mid-run
// timeout is imposed: a started run takes however long it takes.
type Executor struct {
	subject        bench.TestSubject
	startupTimeout time.Duration
}

// Config contains configuration for an Executor.
type Config struct {
	// StartupTimeout bounds subject readiness. Zero means
	// DefaultStartupTimeout.
	StartupTimeout time.Duration
}

// New creates an Executor for the given subject.
func New(subject bench.TestSubject, cfg Config) *Executor {
	timeout := cfg.StartupTimeout
	if timeout <= 0 {
		timeout = DefaultStartupTimeout
	}
	return &Executor{
		subject:        subject,
		startupTimeout: timeout,
	}
}

// Measure runs the subject once at the given concurrency and returns
// the resulting Measurement.
//
// A returned error means the subject's execution infrastructure failed
// (could not start within the readiness window, or the run itself
// errored); this is distinct from a degraded run, which completes
// normally with Failed > 0 in the Measurement.
func (e *Executor) Measure(ctx context.Context, concurrency int) (bench.Measurement, error) {
	if concurrency < 1 {
		return bench.Measurement{}, &ValidationError{Field: "concurrency", Message: "must be >= 1"}
	}

	startCtx, cancel := context.WithTimeout(ctx, e.startupTimeout)
	err := e.subject.Start(startCtx)
	cancel()
	if err != nil {
		return bench.Measurement{}, fmt.Errorf("subject failed to start within %v: %w", e.startupTimeout, err)
	}

	started := time.Now()
	summary, err := e.subject.Run(ctx, concurrency)
	elapsed := time.Since(started)
	if err != nil {
		return bench.Measurement{}, fmt.Errorf("subject run at concurrency %d failed: %w", concurrency, err)
	}

	return bench.Measurement{
		Concurrency: concurrency,
		DurationMs:  float64(elapsed) / float64(time.Millisecond),
		Passed:      summary.Passed,
		Failed:      summary.Failed,
		TotalTests:  summary.Total,
	}, nil
}

// ValidationError represents an invalid measurement request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}
