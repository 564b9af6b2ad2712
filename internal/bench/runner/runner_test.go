package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/executor"
)

// levelSubject succeeds at every level except those in failAt.
type levelSubject struct {
	failAt map[int]bool
	runs   []int
}

func (s *levelSubject) Start(ctx context.Context) error { return nil }

func (s *levelSubject) Run(ctx context.Context, concurrency int) (bench.RunSummary, error) {
	s.runs = append(s.runs, concurrency)
	if s.failAt[concurrency] {
		return bench.RunSummary{}, errors.New("infrastructure down")
	}
	return bench.RunSummary{Total: 10, Passed: 10}, nil
}

func (s *levelSubject) Size() int              { return 10 }
func (s *levelSubject) WorkloadConfig() string { return "medium" }

func newRunner(t *testing.T, subject bench.TestSubject, maxConcurrency int) *Runner {
	t.Helper()
	exec := executor.New(subject, executor.Config{})
	r, err := New(exec, subject, Config{MaxConcurrency: maxConcurrency})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return r
}

func TestRunFullSweepAscendingOrder(t *testing.T) {
	subject := &levelSubject{}
	r := newRunner(t, subject, 4)

	sample, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(sample.Measurements) != 4 {
		t.Fatalf("got %d measurements, want 4", len(sample.Measurements))
	}
	for i, m := range sample.Measurements {
		if m.Concurrency != i+1 {
			t.Errorf("measurement %d has concurrency %d, want %d", i, m.Concurrency, i+1)
		}
	}
	if sample.Partial {
		t.Error("complete sweep marked partial")
	}
	if sample.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", sample.MaxConcurrency)
	}
	if sample.WorkloadConfig != "medium" || sample.TestSubjectSize != 10 {
		t.Errorf("sample metadata = %q/%d, want medium/10", sample.WorkloadConfig, sample.TestSubjectSize)
	}
}

func TestRunAbortsOnExecutorFailure(t *testing.T) {
	subject := &levelSubject{failAt: map[int]bool{3: true}}
	r := newRunner(t, subject, 5)

	sample, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when level 3 fails")
	}

	// Exactly levels 1 and 2 produced measurements.
	if len(sample.Measurements) != 2 {
		t.Fatalf("got %d measurements, want 2", len(sample.Measurements))
	}
	if !sample.Partial {
		t.Error("aborted sweep not marked partial")
	}

	// Level 3 attempted once, never retried, no higher level attempted.
	want := []int{1, 2, 3}
	if len(subject.runs) != len(want) {
		t.Fatalf("subject ran levels %v, want %v", subject.runs, want)
	}
	for i := range want {
		if subject.runs[i] != want[i] {
			t.Fatalf("subject ran levels %v, want %v", subject.runs, want)
		}
	}
}

func TestStreamEmitsIncrementally(t *testing.T) {
	subject := &levelSubject{failAt: map[int]bool{3: true}}
	r := newRunner(t, subject, 3)

	var measurements []bench.Measurement
	var terminalErr error

	for ev := range r.Stream(context.Background()) {
		if ev.Err != nil {
			terminalErr = ev.Err
			continue
		}
		measurements = append(measurements, ev.Measurement)
	}

	if len(measurements) != 2 {
		t.Fatalf("got %d measurements before abort, want 2", len(measurements))
	}
	if terminalErr == nil {
		t.Fatal("stream never delivered the terminal error")
	}
}

func TestStreamCancellationStopsFutureLevels(t *testing.T) {
	subject := &levelSubject{}
	r := newRunner(t, subject, 100)

	ctx, cancel := context.WithCancel(context.Background())
	events := r.Stream(ctx)

	// Consume two measurements then stop.
	for i := 0; i < 2; i++ {
		ev, ok := <-events
		if !ok || ev.Err != nil {
			t.Fatalf("unexpected early termination: %+v ok=%v", ev, ok)
		}
	}
	cancel()

	// Drain; channel must close promptly with no background work left.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				// At most one level can be in flight when cancel fires.
				if len(subject.runs) > 4 {
					t.Errorf("subject ran %d levels after consuming 2, cancellation leaked work", len(subject.runs))
				}
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancellation")
		}
	}
}

func TestNewRejectsInvalidMaxConcurrency(t *testing.T) {
	subject := &levelSubject{}
	exec := executor.New(subject, executor.Config{})

	if _, err := New(exec, subject, Config{MaxConcurrency: 0}); err == nil {
		t.Fatal("expected error for maxConcurrency 0")
	}
}
