// Package stats computes descriptive statistics over finite numeric
// sequences. All functions are pure; a Statistics value is computed
// fresh from its input and never mutated.
package stats

import (
	"math"
	"sort"
)

// Statistics holds the descriptive statistics for one sequence.
type Statistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Compute calculates all statistics for a non-empty sequence.
//
// StdDev is the population standard deviation (divisor n, not n-1).
// A single-element input collapses every field to that value with
// StdDev 0. An empty input returns the zero Statistics; callers are
// expected not to pass one.
func Compute(values []float64) Statistics {
	if len(values) == 0 {
		return Statistics{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return Statistics{
		Mean:   mean,
		Median: Percentile(sorted, 50),
		StdDev: math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    Percentile(sorted, 25),
		P75:    Percentile(sorted, 75),
		P95:    Percentile(sorted, 95),
		P99:    Percentile(sorted, 99),
	}
}

// Percentile returns the p-th percentile of an ascending-sorted
// sequence using linear interpolation between closest ranks: the
// fractional index is (p/100)*(n-1) and the result is the weighted
// average of the two surrounding elements. An integral index returns
// the exact element.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	if rank < 0 {
		rank = 0
	}

	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo > hi {
		lo = hi
	}
	if lo == hi {
		return sorted[lo]
	}

	weight := rank - float64(lo)
	return sorted[lo]*(1-weight) + sorted[hi]*weight
}
