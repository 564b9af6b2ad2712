package analysis

// SpeedupField selects which Statistics field a speedup ratio is
// computed over.
type SpeedupField string

const (
	SpeedupMean   SpeedupField = "mean"
	SpeedupMedian SpeedupField = "median"

	// SpeedupBest compares each level's fastest observed run against
	// the baseline's fastest; SpeedupWorst does the same for the
	// slowest.
	SpeedupBest  SpeedupField = "min"
	SpeedupWorst SpeedupField = "max"
)

// Baseline returns the level with concurrency 1 (conventionally
// sequential execution), or nil when no sample reached it.
func (a *StatisticalAnalysis) Baseline() *AggregatedLevel {
	for i := range a.AggregatedLevels {
		if a.AggregatedLevels[i].Concurrency == 1 {
			return &a.AggregatedLevels[i]
		}
	}
	return nil
}

// Speedup returns baseline.field / level.field for the given field.
// A level's speedup against itself is exactly 1. Returns 0 when there
// is no baseline or the level's value is 0.
func (a *StatisticalAnalysis) Speedup(level *AggregatedLevel, field SpeedupField) float64 {
	base := a.Baseline()
	if base == nil {
		return 0
	}

	var baseVal, levelVal float64
	switch field {
	case SpeedupMean:
		baseVal, levelVal = base.DurationStats.Mean, level.DurationStats.Mean
	case SpeedupMedian:
		baseVal, levelVal = base.DurationStats.Median, level.DurationStats.Median
	case SpeedupBest:
		baseVal, levelVal = base.DurationStats.Min, level.DurationStats.Min
	case SpeedupWorst:
		baseVal, levelVal = base.DurationStats.Max, level.DurationStats.Max
	default:
		return 0
	}

	if levelVal == 0 {
		return 0
	}
	return baseVal / levelVal
}

// FastestLevel returns the level with the minimum mean duration.
// Exact ties resolve to the lower concurrency, which is the first
// encountered in ascending order.
func (a *StatisticalAnalysis) FastestLevel() *AggregatedLevel {
	var fastest *AggregatedLevel
	for i := range a.AggregatedLevels {
		l := &a.AggregatedLevels[i]
		if fastest == nil || l.DurationStats.Mean < fastest.DurationStats.Mean {
			fastest = l
		}
	}
	return fastest
}

// MostConsistentLevel returns the level with the minimum duration
// standard deviation, ties to the lower concurrency.
func (a *StatisticalAnalysis) MostConsistentLevel() *AggregatedLevel {
	var best *AggregatedLevel
	for i := range a.AggregatedLevels {
		l := &a.AggregatedLevels[i]
		if best == nil || l.DurationStats.StdDev < best.DurationStats.StdDev {
			best = l
		}
	}
	return best
}

// CoefficientOfVariation returns stdDev/mean*100 for a level's
// durations, or 0 for a zero mean.
func CoefficientOfVariation(level *AggregatedLevel) float64 {
	if level.DurationStats.Mean == 0 {
		return 0
	}
	return level.DurationStats.StdDev / level.DurationStats.Mean * 100
}
