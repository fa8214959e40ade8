package model

import "testing"

func TestValidateFlagsLowConfidenceAndLowSamples(t *testing.T) {
	tm := TrafficModel{
		Version:  SchemaVersion,
		Metadata: Metadata{Source: "prometheus", Samples: 10},
		Pattern:  Pattern{Confidence: 0.1},
		Baseline: Baseline{Coefficients: nil},
	}
	warnings := Validate(tm)
	if len(warnings) == 0 {
		t.Fatal("expected warnings for low confidence, low samples, and empty coefficients")
	}
}

func TestValidateCleanModelHasNoWarnings(t *testing.T) {
	tm := TrafficModel{
		Version:  SchemaVersion,
		Metadata: Metadata{Source: "prometheus", Metric: "x", Samples: 1000},
		Pattern:  Pattern{Confidence: 0.9},
		Baseline: Baseline{Mean: 10, Coefficients: []FrequencyCoefficient{{Frequency: 0.1}}},
	}
	warnings := Validate(tm)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}
