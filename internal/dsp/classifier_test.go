package dsp

import "testing"

func TestBucketSpikeFrequency(t *testing.T) {
	cases := []struct {
		rate float64
		want SpikeFrequency
	}{
		{0, SpikeNone},
		{0.05, SpikeNone},
		{0.5, SpikeRare},
		{5, SpikeOccasional},
		{20, SpikeFrequent},
	}
	for _, c := range cases {
		if got := bucketSpikeFrequency(c.rate); got != c.want {
			t.Errorf("bucketSpikeFrequency(%v) = %v, want %v", c.rate, got, c.want)
		}
	}
}

func TestClassifyPatternSteadySignal(t *testing.T) {
	baseline := FourierBaseline{Mean: 100, Std: 1}
	spikes := SpikeResult{Distribution: SpikeDistribution{Type: "none"}}
	verdict := ClassifyPattern(baseline, spikes, 10000, 60)
	if verdict.Type != "steady" {
		t.Fatalf("Type = %q, want steady for a flat low-variance signal with no spikes", verdict.Type)
	}
}

func TestClassifyPatternDailyBusinessHours(t *testing.T) {
	baseline := FourierBaseline{
		Mean: 100, Std: 20,
		Coefficients: []FrequencyCoefficient{
			{PeriodMinutes: 24 * 60, Confidence: 0.9},
		},
	}
	spikes := SpikeResult{}
	verdict := ClassifyPattern(baseline, spikes, 10000, 60)
	if verdict.Type != "business-hours-normal" {
		t.Fatalf("Type = %q, want business-hours-normal", verdict.Type)
	}
	if !verdict.Daily {
		t.Error("Daily should be true for a strong ~24h coefficient")
	}
}

func TestClassifyPatternBursty(t *testing.T) {
	baseline := FourierBaseline{Mean: 100, Std: 20}
	events := make([]SpikeEvent, 50)
	spikes := SpikeResult{Events: events}
	// 50 events over a 1-day window is well above the "frequent" threshold.
	verdict := ClassifyPattern(baseline, spikes, 1440, 60)
	if verdict.Type != "bursty" {
		t.Fatalf("Type = %q, want bursty for a high spike rate", verdict.Type)
	}
}
