// Package pipeline wires the dsp stages together into the fan-out described
// in SPEC_FULL.md §2 and assembles the final traffic model.
package pipeline

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwsl/rhythmic/internal/dsp"
	"github.com/cwsl/rhythmic/internal/model"
)

// Config bundles the tunables for a single analysis run, mirroring
// SPEC_FULL.md §6's Configuration shape.
type Config struct {
	WaveletType             string
	WaveletLevels           int
	SpikeThresholdSigma     float64
	FourierPeakCount        int
	SpikeClusterGapMinutes  int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		WaveletType:            "db4",
		WaveletLevels:          5,
		SpikeThresholdSigma:    3.0,
		FourierPeakCount:       8,
		SpikeClusterGapMinutes: 10,
	}
}

// Result bundles the assembled model, a run identifier for correlating this
// run's log lines, MQTT publication, and WebSocket push, and any non-fatal
// validation warnings.
type Result struct {
	RunID    string
	Model    model.TrafficModel
	Warnings []string
}

// Run executes the full pipeline against in, using cfg for the tunables,
// logging progress through logger (which may be nil to disable logging).
func Run(in model.Input, cfg Config, logger *log.Logger) (Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	logf(logger, "[%s] starting analysis: %d samples, step=%ds", runID, len(in.Values), in.StepSeconds)

	decomp, err := dsp.Decompose(in.Values, cfg.WaveletType, cfg.WaveletLevels, func(msg string) {
		logf(logger, "[%s] decompose warning: %s", runID, msg)
	})
	if err != nil {
		return Result{}, err
	}
	logf(logger, "[%s] decomposed into %d levels, smoothness=%.3f", runID, decomp.Levels, decomp.SmoothnessRatio)

	sampleRateHz := 0.0
	if in.StepSeconds > 0 {
		sampleRateHz = 1.0 / float64(in.StepSeconds)
	}

	var baseline dsp.FourierBaseline
	var spikes dsp.SpikeResult

	// The fan-out in SPEC_FULL.md §2 (FourierAnalyzer on the approximation,
	// SpikeDetector on the raw signal + details) shares no mutable state, so
	// the two branches run concurrently; outputs are bit-identical to the
	// sequential form since each stage only reads its own inputs.
	var g errgroup.Group
	g.Go(func() error {
		b, err := dsp.AnalyzeFourier(decomp.Approximation, sampleRateHz, cfg.FourierPeakCount)
		if err != nil {
			return err
		}
		baseline = b
		return nil
	})
	g.Go(func() error {
		spikes = dsp.DetectSpikes(in.Values, decomp.Details, cfg.SpikeThresholdSigma, cfg.SpikeClusterGapMinutes)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	logf(logger, "[%s] fourier: %d coefficients; spikes: %d events", runID, len(baseline.Coefficients), len(spikes.Events))

	pattern := dsp.ClassifyPattern(baseline, spikes, len(in.Values), float64(in.StepSeconds))
	stats := dsp.AggregateStatistics(in.Values)

	analysisDuration := float64(time.Since(start).Microseconds()) / 1000
	tm := model.Assemble(in, decomp, baseline, spikes, pattern, stats, time.Now().UTC().Format(time.RFC3339), analysisDuration)

	warnings := model.Validate(tm)
	for _, w := range warnings {
		logf(logger, "[%s] validation warning: %s", runID, w)
	}

	logf(logger, "[%s] done in %.1fms: pattern=%s confidence=%.2f", runID, analysisDuration, pattern.Type, pattern.Confidence)

	return Result{RunID: runID, Model: tm, Warnings: warnings}, nil
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
