package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wesleyorama2/sweepbench/internal/bench"
)

// fakeSubject is a scriptable TestSubject for executor tests.
type fakeSubject struct {
	startErr   error
	startDelay time.Duration
	runErr     error
	runDelay   time.Duration
	summary    bench.RunSummary

	startCalls int
	runCalls   int
	lastConc   int
}

func (f *fakeSubject) Start(ctx context.Context) error {
	f.startCalls++
	if f.startDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.startDelay):
		}
	}
	return f.startErr
}

func (f *fakeSubject) Run(ctx context.Context, concurrency int) (bench.RunSummary, error) {
	f.runCalls++
	f.lastConc = concurrency
	if f.runDelay > 0 {
		time.Sleep(f.runDelay)
	}
	if f.runErr != nil {
		return bench.RunSummary{}, f.runErr
	}
	return f.summary, nil
}

func (f *fakeSubject) Size() int              { return 10 }
func (f *fakeSubject) WorkloadConfig() string { return "fake" }

func TestMeasureReturnsMeasurement(t *testing.T) {
	subject := &fakeSubject{
		summary: bench.RunSummary{Total: 10, Passed: 8, Failed: 2},
	}
	exec := New(subject, Config{})

	m, err := exec.Measure(context.Background(), 4)
	if err != nil {
		t.Fatalf("Measure returned error: %v", err)
	}

	if m.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", m.Concurrency)
	}
	if m.Passed != 8 || m.Failed != 2 || m.TotalTests != 10 {
		t.Errorf("counts = %d/%d/%d, want 8/2/10", m.Passed, m.Failed, m.TotalTests)
	}
	if subject.lastConc != 4 {
		t.Errorf("subject ran at concurrency %d, want 4", subject.lastConc)
	}
}

func TestMeasureDegradedRunIsNotAnError(t *testing.T) {
	subject := &fakeSubject{
		summary: bench.RunSummary{Total: 5, Passed: 0, Failed: 5},
	}
	exec := New(subject, Config{})

	m, err := exec.Measure(context.Background(), 1)
	if err != nil {
		t.Fatalf("degraded run should not be an error, got: %v", err)
	}
	if m.Failed != 5 {
		t.Errorf("Failed = %d, want 5", m.Failed)
	}
}

func TestMeasureWallClockDuration(t *testing.T) {
	// The subject reports a bogus duration; the executor must use its
	// own wall clock.
	subject := &fakeSubject{
		runDelay: 50 * time.Millisecond,
		summary:  bench.RunSummary{Duration: time.Hour, Total: 1, Passed: 1},
	}
	exec := New(subject, Config{})

	m, err := exec.Measure(context.Background(), 1)
	if err != nil {
		t.Fatalf("Measure returned error: %v", err)
	}

	if m.DurationMs < 45 {
		t.Errorf("DurationMs = %v, want >= 45 (run slept 50ms)", m.DurationMs)
	}
	if m.DurationMs > 5000 {
		t.Errorf("DurationMs = %v, subject's claimed duration leaked through", m.DurationMs)
	}
}

func TestMeasureStartFailurePropagates(t *testing.T) {
	startErr := errors.New("spawn failed")
	subject := &fakeSubject{startErr: startErr}
	exec := New(subject, Config{})

	_, err := exec.Measure(context.Background(), 2)
	if err == nil {
		t.Fatal("expected error when subject cannot start")
	}
	if !errors.Is(err, startErr) {
		t.Errorf("error %v does not wrap the start error", err)
	}
	if subject.runCalls != 0 {
		t.Errorf("Run was called %d times after a failed start", subject.runCalls)
	}
}

func TestMeasureStartupTimeout(t *testing.T) {
	subject := &fakeSubject{startDelay: time.Second}
	exec := New(subject, Config{StartupTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := exec.Measure(context.Background(), 1)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected startup timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not wrap deadline exceeded", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("Measure blocked %v, startup window was 20ms", elapsed)
	}
}

func TestMeasureRunFailurePropagates(t *testing.T) {
	runErr := errors.New("runner crashed")
	subject := &fakeSubject{runErr: runErr}
	exec := New(subject, Config{})

	_, err := exec.Measure(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error when subject run fails")
	}
	if !errors.Is(err, runErr) {
		t.Errorf("error %v does not wrap the run error", err)
	}
}

func TestMeasureRejectsInvalidConcurrency(t *testing.T) {
	exec := New(&fakeSubject{}, Config{})

	_, err := exec.Measure(context.Background(), 0)
	if err == nil {
		t.Fatal("expected validation error for concurrency 0")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error %T is not a ValidationError", err)
	}
}
