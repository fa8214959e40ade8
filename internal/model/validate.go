package model

import "fmt"

// Validate runs the non-fatal checks from §4.7 against an assembled model
// and returns a list of warnings (empty if none apply).
func Validate(m TrafficModel) []string {
	var warnings []string

	if m.Version == "" {
		warnings = append(warnings, "missing top-level field: version")
	}
	if m.Metadata.Source == "" && m.Metadata.Metric == "" {
		warnings = append(warnings, "missing top-level field: metadata")
	}

	if m.Baseline.Mean < 0 {
		warnings = append(warnings, "baseline.mean is negative")
	}
	if len(m.Baseline.Coefficients) == 0 {
		warnings = append(warnings, "empty coefficient list - signal may be too noisy")
	}

	if m.Pattern.Confidence < 0.3 {
		warnings = append(warnings, fmt.Sprintf("low pattern confidence (%.2f) - results may be unreliable", m.Pattern.Confidence))
	}

	if m.Metadata.Samples < 100 {
		warnings = append(warnings, fmt.Sprintf("low sample count (%d) - consider a longer time period", m.Metadata.Samples))
	}

	return warnings
}
