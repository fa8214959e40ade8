package dsp

import (
	"math"
	"testing"
)

func TestAggregateStatisticsDropsNaN(t *testing.T) {
	stats := AggregateStatistics([]float64{1, 2, math.NaN(), 3})
	if stats.Min != 1 || stats.Max != 3 {
		t.Fatalf("NaN should be dropped before min/max: got min=%v max=%v", stats.Min, stats.Max)
	}
}

func TestAggregateStatisticsEmptyIsZero(t *testing.T) {
	stats := AggregateStatistics([]float64{math.NaN(), math.NaN()})
	if stats != (Statistics{}) {
		t.Fatalf("all-NaN input should yield zero statistics, got %+v", stats)
	}
}

func TestAggregateStatisticsPercentileOrdering(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i)
	}
	stats := AggregateStatistics(x)
	if !(stats.P50 <= stats.P95 && stats.P95 <= stats.P99) {
		t.Fatalf("percentiles not ordered: p50=%v p95=%v p99=%v", stats.P50, stats.P95, stats.P99)
	}
	if !(stats.Min <= stats.P50 && stats.P99 <= stats.Max) {
		t.Fatalf("percentiles should lie within [min,max]: min=%v p50=%v p99=%v max=%v", stats.Min, stats.P50, stats.P99, stats.Max)
	}
}
