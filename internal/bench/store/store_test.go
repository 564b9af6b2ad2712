package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/analysis"
)

func testSample(workload string) *bench.Sample {
	return &bench.Sample{
		TestSubjectSize: 20,
		WorkloadConfig:  workload,
		MaxConcurrency:  2,
		Measurements: []bench.Measurement{
			{Concurrency: 1, DurationMs: 120.5, Passed: 20, Failed: 0, TotalTests: 20},
			{Concurrency: 2, DurationMs: 70.25, Passed: 19, Failed: 1, TotalTests: 20},
		},
	}
}

func TestSampleRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := s.SaveSample(testSample("medium"))
	require.NoError(t, err)

	loaded, err := s.LoadSample(path)
	require.NoError(t, err)

	assert.Equal(t, 20, loaded.TestSubjectSize)
	assert.Equal(t, "medium", loaded.WorkloadConfig)
	assert.Equal(t, 2, loaded.MaxConcurrency)
	require.Len(t, loaded.Measurements, 2)
	assert.Equal(t, 120.5, loaded.Measurements[0].DurationMs)
	assert.Equal(t, 1, loaded.Measurements[1].Failed)
	assert.False(t, loaded.Partial)
}

func TestPartialSampleRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	sample := testSample("medium")
	sample.Partial = true
	sample.Measurements = sample.Measurements[:1]

	path, err := s.SaveSample(sample)
	require.NoError(t, err)

	loaded, err := s.LoadSample(path)
	require.NoError(t, err)
	assert.True(t, loaded.Partial)
	assert.Len(t, loaded.Measurements, 1)
}

func TestLoadSampleRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	// Missing required fields and wrong types.
	bad := filepath.Join(dir, "sample-bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"workloadConfig": 42}`), 0644))

	_, err = s.LoadSample(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestLoadSampleRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	bad := filepath.Join(dir, "sample-trunc.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"testSubjectSize": 1,`), 0644))

	_, err = s.LoadSample(bad)
	require.Error(t, err)
}

func TestListFiltersByWorkload(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.SaveSample(testSample("light"))
	require.NoError(t, err)
	_, err = s.SaveSample(testSample("heavy"))
	require.NoError(t, err)
	_, err = s.SaveSample(testSample("light"))
	require.NoError(t, err)

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	light, err := s.List("light")
	require.NoError(t, err)
	assert.Len(t, light, 2)

	none, err := s.List("nonexistent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analysis-medium-x.json"), []byte("{}"), 0644))

	paths, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLoadSamplesAggregatable(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.SaveSample(testSample("medium"))
	require.NoError(t, err)
	_, err = s.SaveSample(testSample("medium"))
	require.NoError(t, err)

	samples, err := s.LoadSamples("medium")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	result, err := analysis.Aggregate(samples)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SampleSize)
	require.Len(t, result.AggregatedLevels, 2)
	assert.Equal(t, 2, result.AggregatedLevels[0].SampleCount)
}

func TestAnalysisRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	samples := []*bench.Sample{testSample("medium"), testSample("medium")}
	a, err := analysis.Aggregate(samples)
	require.NoError(t, err)

	path, err := s.SaveAnalysis(a)
	require.NoError(t, err)

	loaded, err := s.LoadAnalysis(path)
	require.NoError(t, err)

	assert.Equal(t, a.SampleSize, loaded.SampleSize)
	assert.Equal(t, a.WorkloadConfig, loaded.WorkloadConfig)
	require.Len(t, loaded.AggregatedLevels, len(a.AggregatedLevels))
	assert.Equal(t, a.AggregatedLevels[0].DurationStats, loaded.AggregatedLevels[0].DurationStats)
}
