package dsp

import "testing"

func TestDetectSpikesTooShort(t *testing.T) {
	result := DetectSpikes([]float64{1, 2, 3}, nil, 3.0, 10)
	if result.Distribution.Type != "none" {
		t.Fatalf("Distribution.Type = %q, want none for too-short input", result.Distribution.Type)
	}
	if len(result.Events) != 0 {
		t.Fatalf("expected no events for too-short input, got %d", len(result.Events))
	}
}

func TestDetectSpikesFindsObviousSpike(t *testing.T) {
	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = 10
	}
	signal[50] = 1000
	result := DetectSpikes(signal, nil, 3.0, 10)
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Events))
	}
	if result.Events[0].PeakMagnitude != 1000 {
		t.Errorf("PeakMagnitude = %v, want 1000", result.Events[0].PeakMagnitude)
	}
}

func TestDetectSpikesEventsAreDisjointAndSorted(t *testing.T) {
	signal := make([]float64, 200)
	for i := range signal {
		signal[i] = 10
	}
	signal[20] = 500
	signal[100] = 500
	signal[180] = 500
	result := DetectSpikes(signal, nil, 3.0, 5)
	for i := 1; i < len(result.Events); i++ {
		prevEnd := result.Events[i-1].TimestampMs + int64(result.Events[i-1].DurationMinutes*60000)
		if result.Events[i].TimestampMs < result.Events[i-1].TimestampMs {
			t.Fatalf("events not sorted by timestamp at index %d", i)
		}
		if result.Events[i].TimestampMs < prevEnd {
			t.Fatalf("event %d starts at %d, before previous event ends at %d", i, result.Events[i].TimestampMs, prevEnd)
		}
	}
}

func TestFitDistributionInsufficientData(t *testing.T) {
	dist := fitDistribution([]SpikeEvent{{TimestampMs: 0}})
	if dist.Type != "insufficient-data" {
		t.Fatalf("Type = %q, want insufficient-data for a single event", dist.Type)
	}
}

func TestFitDistributionRegularSpacing(t *testing.T) {
	events := make([]SpikeEvent, 10)
	for i := range events {
		events[i] = SpikeEvent{TimestampMs: int64(i) * 60 * 60000}
	}
	dist := fitDistribution(events)
	if dist.Type != "regular" {
		t.Fatalf("Type = %q, want regular for perfectly even spacing", dist.Type)
	}
}
