// Package model defines the traffic-model output schema and assembles it
// from the dsp package's pipeline stage outputs.
package model

import "github.com/cwsl/rhythmic/internal/dsp"

// SchemaVersion is the fixed schema version stamped on every assembled model.
const SchemaVersion = "1.0.0"

// FrequencyCoefficient is the JSON-serializable form of a dsp.FrequencyCoefficient.
type FrequencyCoefficient struct {
	Frequency     float64 `json:"frequency"`
	Amplitude     float64 `json:"amplitude"`
	Phase         float64 `json:"phase"`
	PeriodMinutes float64 `json:"period_minutes"`
	Confidence    float64 `json:"confidence"`
}

// Baseline is the Fourier-analysis summary of the smooth signal component.
type Baseline struct {
	Type         string                 `json:"type"`
	Mean         float64                `json:"mean"`
	Std          float64                `json:"std"`
	Coefficients []FrequencyCoefficient `json:"coefficients"`
}

// SpikeEvent is the JSON-serializable form of a dsp.SpikeEvent.
type SpikeEvent struct {
	TimestampMs     int64   `json:"timestamp"`
	Magnitude       float64 `json:"magnitude"`
	PeakMagnitude   float64 `json:"peak_magnitude"`
	DurationMinutes float64 `json:"duration_minutes"`
	SpikeCount      int     `json:"spike_count"`
}

// SpikeDistribution is the JSON-serializable form of a dsp.SpikeDistribution.
type SpikeDistribution struct {
	Type                string   `json:"type"`
	Lambda              *float64 `json:"lambda,omitempty"`
	MeanIntervalMinutes *float64 `json:"mean_interval_minutes,omitempty"`
	Count               int      `json:"count"`
}

// Spikes wraps the threshold, detected events, and their distribution.
type Spikes struct {
	Threshold    float64           `json:"threshold"`
	Events       []SpikeEvent      `json:"events"`
	Distribution SpikeDistribution `json:"distribution"`
}

// Pattern is the high-level classification verdict.
type Pattern struct {
	Type           string `json:"type"`
	Confidence     float64 `json:"confidence"`
	Daily          bool   `json:"daily"`
	Weekly         bool   `json:"weekly"`
	Seasonal       bool   `json:"seasonal"`
	SpikeFrequency string `json:"spike_frequency"`
}

// Statistics is the descriptive statistics summary of the raw samples.
type Statistics struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Variance float64 `json:"variance"`
	P50      float64 `json:"p50"`
	P95      float64 `json:"p95"`
	P99      float64 `json:"p99"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Decomposition summarizes the wavelet decomposition.
type Decomposition struct {
	WaveletType        string    `json:"wavelet_type"`
	Levels             int       `json:"levels"`
	SmoothnessRatio    float64   `json:"smoothness_ratio"`
	EnergyDistribution []float64 `json:"energy_distribution"`
}

// Metadata describes the provenance and shape of the analyzed series.
type Metadata struct {
	Source             string  `json:"source"`
	Metric             string  `json:"metric"`
	Duration           string  `json:"duration"`
	Samples            int     `json:"samples"`
	Step               int     `json:"step"`
	TimestampISO8601   string  `json:"timestamp_iso8601"`
	AnalysisDurationMs float64 `json:"analysis_duration_ms,omitempty"`
}

// TrafficModel is the final, versioned aggregate output of the pipeline.
// It is created once by Assemble and never mutated.
type TrafficModel struct {
	Version        string         `json:"version"`
	Metadata       Metadata       `json:"metadata"`
	Baseline       Baseline       `json:"baseline"`
	Spikes         Spikes         `json:"spikes"`
	Pattern        Pattern        `json:"pattern"`
	Statistics     Statistics     `json:"statistics"`
	Decomposition  Decomposition  `json:"decomposition"`
}

// Input is the shape the core pipeline accepts: an ordered sample vector
// with an aligned timestamp vector and source metadata.
type Input struct {
	TimestampsMs []int64
	Values       []float64
	Metric       string
	Duration     string
	StepSeconds  int
	Source       string
}

// Assemble builds a TrafficModel from the pipeline stage outputs. It never
// mutates its arguments and the returned model is never mutated afterward.
func Assemble(in Input, decomp dsp.Decomposition, baseline dsp.FourierBaseline, spikes dsp.SpikeResult, pattern dsp.PatternVerdict, stats dsp.Statistics, timestampISO8601 string, analysisDurationMs float64) TrafficModel {
	return TrafficModel{
		Version: SchemaVersion,
		Metadata: Metadata{
			Source:             in.Source,
			Metric:             in.Metric,
			Duration:           in.Duration,
			Samples:            len(in.Values),
			Step:               in.StepSeconds,
			TimestampISO8601:   timestampISO8601,
			AnalysisDurationMs: analysisDurationMs,
		},
		Baseline:      convertBaseline(baseline),
		Spikes:        convertSpikes(spikes),
		Pattern:       convertPattern(pattern),
		Statistics:    convertStatistics(stats),
		Decomposition: convertDecomposition(decomp),
	}
}

func convertBaseline(b dsp.FourierBaseline) Baseline {
	coeffs := make([]FrequencyCoefficient, len(b.Coefficients))
	for i, c := range b.Coefficients {
		coeffs[i] = FrequencyCoefficient{
			Frequency:     c.FrequencyHz,
			Amplitude:     c.Amplitude,
			Phase:         c.PhaseRadians,
			PeriodMinutes: c.PeriodMinutes,
			Confidence:    c.Confidence,
		}
	}
	return Baseline{Type: "fourier", Mean: b.Mean, Std: b.Std, Coefficients: coeffs}
}

func convertSpikes(s dsp.SpikeResult) Spikes {
	events := make([]SpikeEvent, len(s.Events))
	for i, e := range s.Events {
		events[i] = SpikeEvent{
			TimestampMs:     e.TimestampMs,
			Magnitude:       e.Magnitude,
			PeakMagnitude:   e.PeakMagnitude,
			DurationMinutes: e.DurationMinutes,
			SpikeCount:      e.SpikeCount,
		}
	}
	dist := SpikeDistribution{Type: s.Distribution.Type, Count: s.Distribution.Count}
	if s.Distribution.Type != "insufficient-data" && s.Distribution.Type != "none" {
		lambda := s.Distribution.Lambda
		mean := s.Distribution.MeanIntervalMinutes
		dist.Lambda = &lambda
		dist.MeanIntervalMinutes = &mean
	}
	return Spikes{Threshold: s.Threshold, Events: events, Distribution: dist}
}

func convertPattern(p dsp.PatternVerdict) Pattern {
	return Pattern{
		Type:           p.Type,
		Confidence:     p.Confidence,
		Daily:          p.Daily,
		Weekly:         p.Weekly,
		Seasonal:       p.Seasonal,
		SpikeFrequency: string(p.SpikeFrequency),
	}
}

func convertStatistics(s dsp.Statistics) Statistics {
	return Statistics{
		Mean:     s.Mean,
		Std:      s.Std,
		Variance: s.Variance,
		P50:      s.P50,
		P95:      s.P95,
		P99:      s.P99,
		Min:      s.Min,
		Max:      s.Max,
	}
}

func convertDecomposition(d dsp.Decomposition) Decomposition {
	return Decomposition{
		WaveletType:        d.WaveletType,
		Levels:             d.Levels,
		SmoothnessRatio:    d.SmoothnessRatio,
		EnergyDistribution: d.EnergyDistribution,
	}
}
