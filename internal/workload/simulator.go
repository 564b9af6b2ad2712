// Package workload provides a synthetic test subject for exercising
// the sweep benchmark: a fixed set of test cases whose work mixes CPU,
// file I/O, and process spawning, executed by a worker pool sized to
// the requested concurrency.
package workload

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/sweepbench/internal/bench"
)

// Mode identifies a workload intensity profile.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeMedium Mode = "medium"
	ModeHeavy  Mode = "heavy"
)

// profile holds the per-task work amounts for a Mode.
type profile struct {
	cpuIterations int
	fileBytes     int
	spawnProcess  bool
}

var profiles = map[Mode]profile{
	ModeLight:  {cpuIterations: 2000, fileBytes: 1 << 10},
	ModeMedium: {cpuIterations: 20000, fileBytes: 16 << 10},
	ModeHeavy:  {cpuIterations: 100000, fileBytes: 64 << 10, spawnProcess: true},
}

// Modes lists the recognized workload modes.
func Modes() []Mode {
	return []Mode{ModeLight, ModeMedium, ModeHeavy}
}

// Config contains configuration for a Simulator.
type Config struct {
	// Mode selects the intensity profile.
	Mode Mode

	// TestCount is the number of synthetic test cases per run.
	TestCount int

	// FailureRate injects deterministic test failures: every Nth-task
	// failure fraction in [0,1). Zero disables injection.
	FailureRate float64

	// ScratchDir is where file I/O tasks write. Empty means a
	// temporary directory created on Start.
	ScratchDir string
}

// Simulator implements bench.TestSubject with synthetic work.
//
// Each Run executes Config.TestCount tasks on exactly `concurrency`
// worker goroutines. Per-task latency is recorded in an HDR histogram
// (1µs to 1 hour, 3 significant figures) for diagnostics; the
// benchmark's own Measurements never read it.
type Simulator struct {
	config  Config
	profile profile

	scratch string
	started atomic.Bool

	hist   *hdrhistogram.Histogram
	histMu sync.Mutex
}

// New creates a Simulator. The mode must be one of Modes().
func New(cfg Config) (*Simulator, error) {
	p, ok := profiles[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown workload mode %q", cfg.Mode)
	}
	if cfg.TestCount < 1 {
		return nil, fmt.Errorf("test count must be >= 1, got %d", cfg.TestCount)
	}
	if cfg.FailureRate < 0 || cfg.FailureRate >= 1 {
		return nil, fmt.Errorf("failure rate must be in [0,1), got %v", cfg.FailureRate)
	}

	return &Simulator{
		config:  cfg,
		profile: p,
		hist:    hdrhistogram.New(1, 3600000000, 3),
	}, nil
}

// Start prepares the scratch directory. Idempotent.
func (s *Simulator) Start(ctx context.Context) error {
	if s.started.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.config.ScratchDir
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "sweepbench-workload-")
		if err != nil {
			return fmt.Errorf("failed to create scratch directory: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	s.scratch = dir
	s.started.Store(true)
	return nil
}

// Run executes the full test set at the given concurrency.
func (s *Simulator) Run(ctx context.Context, concurrency int) (bench.RunSummary, error) {
	if !s.started.Load() {
		return bench.RunSummary{}, fmt.Errorf("simulator not started")
	}
	if concurrency < 1 {
		return bench.RunSummary{}, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}

	tasks := make(chan int)
	var passed, failed atomic.Int64
	var wg sync.WaitGroup

	started := time.Now()

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for task := range tasks {
				taskStart := time.Now()
				err := s.runTask(ctx, worker, task)
				s.recordLatency(time.Since(taskStart))

				if err != nil || s.injected(task) {
					failed.Add(1)
				} else {
					passed.Add(1)
				}
			}
		}(w)
	}

	feedErr := func() error {
		defer close(tasks)
		for i := 0; i < s.config.TestCount; i++ {
			select {
			case tasks <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}()

	wg.Wait()

	if feedErr != nil {
		return bench.RunSummary{}, feedErr
	}

	return bench.RunSummary{
		Duration: time.Since(started),
		Total:    s.config.TestCount,
		Passed:   int(passed.Load()),
		Failed:   int(failed.Load()),
	}, nil
}

// runTask performs one synthetic test case: CPU work, a file
// write/read cycle, and for heavy profiles a child-process spawn.
func (s *Simulator) runTask(ctx context.Context, worker, task int) error {
	// CPU: hash loop.
	h := fnv.New64a()
	buf := []byte{byte(task), byte(task >> 8)}
	for i := 0; i < s.profile.cpuIterations; i++ {
		h.Write(buf)
	}

	// File I/O: write, read back, remove.
	path := filepath.Join(s.scratch, fmt.Sprintf("task-%d-%d.tmp", worker, task))
	data := make([]byte, s.profile.fileBytes)
	for i := range data {
		data[i] = byte(h.Sum64() >> (uint(i) % 8 * 8))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("file write failed: %w", err)
	}
	if _, err := os.ReadFile(path); err != nil {
		return fmt.Errorf("file read failed: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("file remove failed: %w", err)
	}

	// Process spawn for heavy workloads. A missing binary degrades the
	// task to CPU+IO only rather than failing the whole run.
	if s.profile.spawnProcess {
		if bin, err := exec.LookPath("true"); err == nil {
			if err := exec.CommandContext(ctx, bin).Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("child process failed: %w", err)
			}
		}
	}

	return nil
}

// injected reports whether failure injection marks this task failed.
func (s *Simulator) injected(task int) bool {
	if s.config.FailureRate <= 0 {
		return false
	}
	period := int(1.0 / s.config.FailureRate)
	if period < 1 {
		period = 1
	}
	return task%period == 0
}

func (s *Simulator) recordLatency(d time.Duration) {
	micros := d.Microseconds()
	if micros < 1 {
		micros = 1
	}
	s.histMu.Lock()
	s.hist.RecordValue(micros)
	s.histMu.Unlock()
}

// TaskLatencies returns the per-task latency distribution accumulated
// across all runs of this simulator instance.
func (s *Simulator) TaskLatencies() TaskLatencySummary {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	return TaskLatencySummary{
		Count: s.hist.TotalCount(),
		Min:   time.Duration(s.hist.Min()) * time.Microsecond,
		Max:   time.Duration(s.hist.Max()) * time.Microsecond,
		Mean:  time.Duration(s.hist.Mean()) * time.Microsecond,
		P50:   time.Duration(s.hist.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(s.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(s.hist.ValueAtQuantile(99)) * time.Microsecond,
	}
}

// TaskLatencySummary is a diagnostic view of per-task latencies.
type TaskLatencySummary struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Size reports the number of synthetic test cases.
func (s *Simulator) Size() int {
	return s.config.TestCount
}

// WorkloadConfig identifies the intensity profile.
func (s *Simulator) WorkloadConfig() string {
	return string(s.config.Mode)
}

// Cleanup removes the scratch directory if the simulator created it.
func (s *Simulator) Cleanup() error {
	if s.config.ScratchDir == "" && s.scratch != "" {
		return os.RemoveAll(s.scratch)
	}
	return nil
}

// Ensure Simulator implements bench.TestSubject
var _ bench.TestSubject = (*Simulator)(nil)
