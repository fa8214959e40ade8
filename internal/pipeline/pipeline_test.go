package pipeline

import (
	"math"
	"testing"

	"github.com/cwsl/rhythmic/internal/model"
)

func syntheticDailySeries(n int, stepSeconds int) model.Input {
	values := make([]float64, n)
	timestamps := make([]int64, n)
	for i := range values {
		hour := float64(i*stepSeconds) / 3600
		values[i] = 100 + 50*math.Sin(2*math.Pi*hour/24)
		timestamps[i] = int64(i * stepSeconds * 1000)
	}
	return model.Input{
		TimestampsMs: timestamps,
		Values:       values,
		Metric:       "http_requests_total",
		Duration:     "7d",
		StepSeconds:  stepSeconds,
		Source:       "prometheus",
	}
}

func TestRunEndToEndDailyPattern(t *testing.T) {
	in := syntheticDailySeries(7*24, 3600)
	result, err := Run(in, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Model.Version != model.SchemaVersion {
		t.Errorf("Version = %q, want %q", result.Model.Version, model.SchemaVersion)
	}
	if result.Model.Pattern.Type != "business-hours-normal" && result.Model.Pattern.Type != "business-hours-heavy" && result.Model.Pattern.Type != "mixed" {
		t.Errorf("Pattern.Type = %q, want a daily-periodicity classification", result.Model.Pattern.Type)
	}
	if result.RunID == "" {
		t.Error("expected a non-empty RunID")
	}
}

func TestRunProducesValidatableModel(t *testing.T) {
	in := syntheticDailySeries(7*24, 3600)
	result, err := Run(in, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Model.Baseline.Coefficients) == 0 {
		t.Error("expected at least one coefficient for a clearly periodic signal")
	}
}

func TestRunTooShortPropagatesError(t *testing.T) {
	in := model.Input{Values: []float64{1, 2}, StepSeconds: 60}
	_, err := Run(in, DefaultConfig(), nil)
	if err == nil {
		t.Fatal("expected an error for too-short input")
	}
}
