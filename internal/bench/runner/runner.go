// Package runner drives the benchmark executor across an ascending
// concurrency range, producing one Sample per invocation.
package runner

import (
	"context"
	"fmt"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/executor"
)

// Event is one item in a sweep's output stream: either a completed
// Measurement or the terminal error that aborted the sweep. At most
// one Event carries a non-nil Err, and it is always the last one.
type Event struct {
	Measurement bench.Measurement
	Err         error
}

// Runner performs sweeps: sequential measurements at concurrency
// levels 1..MaxConcurrency, strictly ascending, one at a time.
//
// Levels never overlap. The measurement at level i must not share host
// resources with level i+1, or each level's resource profile would be
// confounded by the next level's contention.
type Runner struct {
	exec    *executor.Executor
	subject bench.TestSubject
	config  Config
}

// Config contains configuration for a Runner.
type Config struct {
	// MaxConcurrency is the highest concurrency level to measure.
	MaxConcurrency int
}

// New creates a Runner that measures with exec against subject.
func New(exec *executor.Executor, subject bench.TestSubject, cfg Config) (*Runner, error) {
	if cfg.MaxConcurrency < 1 {
		return nil, &executor.ValidationError{Field: "maxConcurrency", Message: "must be >= 1"}
	}
	return &Runner{exec: exec, subject: subject, config: cfg}, nil
}

// Stream runs one sweep, emitting each Measurement on the returned
// channel as soon as it completes. The channel is closed when the
// sweep finishes, aborts, or the context is cancelled.
//
// On an Executor failure the sweep stops immediately: no further
// levels run, the failing level is not retried, and the terminal Event
// carries the error. Measurements already emitted stay observable;
// their fate is the consumer's choice. If the consumer stops reading,
// the Runner blocks before starting the next level, so cancelling the
// context is enough to guarantee no background work survives.
func (r *Runner) Stream(ctx context.Context) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		for level := 1; level <= r.config.MaxConcurrency; level++ {
			select {
			case <-ctx.Done():
				r.send(ctx, events, Event{Err: ctx.Err()})
				return
			default:
			}

			m, err := r.exec.Measure(ctx, level)
			if err != nil {
				r.send(ctx, events, Event{Err: fmt.Errorf("sweep aborted at concurrency %d: %w", level, err)})
				return
			}

			if !r.send(ctx, events, Event{Measurement: m}) {
				return
			}
		}
	}()

	return events
}

// send delivers an event unless the context is cancelled first.
func (r *Runner) send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run performs one sweep and collects the resulting Sample.
//
// On failure the partial Sample is returned alongside the error with
// Partial set, so callers can decide whether to persist or discard
// what the sweep produced before aborting.
func (r *Runner) Run(ctx context.Context) (*bench.Sample, error) {
	sample := &bench.Sample{
		TestSubjectSize: r.subject.Size(),
		WorkloadConfig:  r.subject.WorkloadConfig(),
		MaxConcurrency:  r.config.MaxConcurrency,
	}

	for ev := range r.Stream(ctx) {
		if ev.Err != nil {
			sample.Partial = true
			return sample, ev.Err
		}
		sample.Measurements = append(sample.Measurements, ev.Measurement)
	}

	return sample, nil
}
