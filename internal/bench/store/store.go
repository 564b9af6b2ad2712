// Package store persists Samples and StatisticalAnalyses as JSON
// records on the local file system. Samples are immutable once
// written; cleanup is left to the surrounding tooling.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/sweepbench/internal/bench"
	"github.com/wesleyorama2/sweepbench/internal/bench/analysis"
)

// Store reads and writes benchmark records under a base directory.
type Store struct {
	dir    string
	schema *jsonschema.Schema
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("sample.json", strings.NewReader(sampleSchema)); err != nil {
		return nil, fmt.Errorf("invalid sample schema: %w", err)
	}
	schema, err := compiler.Compile("sample.json")
	if err != nil {
		return nil, fmt.Errorf("invalid sample schema: %w", err)
	}

	return &Store{dir: dir, schema: schema}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.dir
}

// SaveSample writes a Sample as a timestamped JSON record and returns
// the file path.
func (s *Store) SaveSample(sample *bench.Sample) (string, error) {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sample: %w", err)
	}

	name := fmt.Sprintf("sample-%s-%s.json", sample.WorkloadConfig, time.Now().Format("20060102-150405.000000000"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write sample: %w", err)
	}

	return path, nil
}

// LoadSample reads and validates one Sample record.
func (s *Store) LoadSample(path string) (*bench.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sample %s is not valid JSON: %w", filepath.Base(path), err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("sample %s failed schema validation: %w", filepath.Base(path), err)
	}

	var sample bench.Sample
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sample: %w", err)
	}

	return &sample, nil
}

// List returns the paths of sample records in the store, sorted by
// name (which sorts by save time). A non-empty workload filters to
// records whose workloadConfig matches; the metadata scan uses gjson
// so mismatching records are skipped without a full unmarshal.
func (s *Store) List(workload string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "sample-") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())

		if workload != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read sample: %w", err)
			}
			if gjson.GetBytes(data, "workloadConfig").String() != workload {
				continue
			}
		}

		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadSamples loads every matching sample record.
func (s *Store) LoadSamples(workload string) ([]*bench.Sample, error) {
	paths, err := s.List(workload)
	if err != nil {
		return nil, err
	}

	samples := make([]*bench.Sample, 0, len(paths))
	for _, path := range paths {
		sample, err := s.LoadSample(path)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// SaveAnalysis writes a StatisticalAnalysis record and returns the
// file path.
func (s *Store) SaveAnalysis(a *analysis.StatisticalAnalysis) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}

	name := fmt.Sprintf("analysis-%s-%s.json", a.WorkloadConfig, a.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write analysis: %w", err)
	}

	return path, nil
}

// LoadAnalysis reads a StatisticalAnalysis record.
func (s *Store) LoadAnalysis(path string) (*analysis.StatisticalAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}

	var a analysis.StatisticalAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &a, nil
}
