package model

import (
	"testing"

	"github.com/cwsl/rhythmic/internal/dsp"
)

func TestAssembleStampsVersionAndMetadata(t *testing.T) {
	in := Input{
		TimestampsMs: []int64{0, 60000, 120000},
		Values:       []float64{1, 2, 3},
		Metric:       "http_requests_total",
		Duration:     "1h",
		StepSeconds:  60,
		Source:       "prometheus",
	}
	decomp := dsp.Decomposition{WaveletType: "db4", Levels: 0, SmoothnessRatio: 1, EnergyDistribution: []float64{100}}
	baseline := dsp.FourierBaseline{Mean: 2, Std: 1}
	spikes := dsp.SpikeResult{Distribution: dsp.SpikeDistribution{Type: "none"}}
	pattern := dsp.PatternVerdict{Type: "steady", Confidence: 0.9}
	stats := dsp.AggregateStatistics(in.Values)

	tm := Assemble(in, decomp, baseline, spikes, pattern, stats, "2026-07-31T00:00:00Z", 12.5)

	if tm.Version != SchemaVersion {
		t.Errorf("Version = %q, want %q", tm.Version, SchemaVersion)
	}
	if tm.Metadata.Samples != 3 {
		t.Errorf("Metadata.Samples = %d, want 3", tm.Metadata.Samples)
	}
	if tm.Metadata.Metric != "http_requests_total" {
		t.Errorf("Metadata.Metric = %q, want http_requests_total", tm.Metadata.Metric)
	}
	if tm.Metadata.AnalysisDurationMs != 12.5 {
		t.Errorf("Metadata.AnalysisDurationMs = %v, want 12.5", tm.Metadata.AnalysisDurationMs)
	}
}

func TestAssembleOmitsDistributionParamsWhenInsufficientData(t *testing.T) {
	in := Input{Values: []float64{1}, StepSeconds: 60}
	spikes := dsp.SpikeResult{Distribution: dsp.SpikeDistribution{Type: "insufficient-data", Count: 1}}
	tm := Assemble(in, dsp.Decomposition{}, dsp.FourierBaseline{}, spikes, dsp.PatternVerdict{}, dsp.Statistics{}, "", 0)

	if tm.Spikes.Distribution.Lambda != nil {
		t.Error("Lambda should be nil when distribution type is insufficient-data")
	}
	if tm.Spikes.Distribution.MeanIntervalMinutes != nil {
		t.Error("MeanIntervalMinutes should be nil when distribution type is insufficient-data")
	}
}
