package dsp

import (
	"math"
	"testing"
)

func TestAnalyzeFourierTooShort(t *testing.T) {
	_, err := AnalyzeFourier([]float64{1, 2}, 1.0, 8)
	if err == nil {
		t.Fatal("expected ShortInputError for len < 4")
	}
}

func TestAnalyzeFourierConstantSignal(t *testing.T) {
	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = 5
	}
	baseline, err := AnalyzeFourier(signal, 1.0, 8)
	if err != nil {
		t.Fatalf("AnalyzeFourier failed: %v", err)
	}
	if baseline.Std != 0 || len(baseline.Coefficients) != 0 {
		t.Fatalf("constant signal should yield std=0 and no coefficients, got std=%v coeffs=%d", baseline.Std, len(baseline.Coefficients))
	}
}

func TestAnalyzeFourierFindsDominantPeriod(t *testing.T) {
	const n = 512
	const sampleRateHz = 1.0
	const periodSamples = 32
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 10 * math.Sin(2*math.Pi*float64(i)/periodSamples)
	}
	baseline, err := AnalyzeFourier(signal, sampleRateHz, 8)
	if err != nil {
		t.Fatalf("AnalyzeFourier failed: %v", err)
	}
	if len(baseline.Coefficients) == 0 {
		t.Fatal("expected at least one dominant coefficient")
	}
	top := baseline.Coefficients[0]
	expectedFreq := sampleRateHz / periodSamples
	if math.Abs(top.FrequencyHz-expectedFreq) > expectedFreq*0.25 {
		t.Errorf("dominant frequency = %v, want close to %v", top.FrequencyHz, expectedFreq)
	}
}

func TestAnalyzeFourierCoefficientsSortedByConfidenceDescending(t *testing.T) {
	const n = 512
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 10*math.Sin(2*math.Pi*float64(i)/32) + 3*math.Sin(2*math.Pi*float64(i)/8)
	}
	baseline, err := AnalyzeFourier(signal, 1.0, 8)
	if err != nil {
		t.Fatalf("AnalyzeFourier failed: %v", err)
	}
	for i := 1; i < len(baseline.Coefficients); i++ {
		if baseline.Coefficients[i].Confidence > baseline.Coefficients[i-1].Confidence {
			t.Fatalf("coefficients not sorted descending by confidence at index %d", i)
		}
	}
}

func TestFrequencyPeriodDuality(t *testing.T) {
	signal := make([]float64, 512)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 64)
	}
	baseline, err := AnalyzeFourier(signal, 1.0, 8)
	if err != nil {
		t.Fatalf("AnalyzeFourier failed: %v", err)
	}
	for _, c := range baseline.Coefficients {
		if c.FrequencyHz <= 0 {
			continue
		}
		gotPeriodSeconds := c.PeriodMinutes * 60
		wantPeriodSeconds := 1 / c.FrequencyHz
		if math.Abs(gotPeriodSeconds-wantPeriodSeconds) > 1e-6 {
			t.Errorf("period/frequency duality violated: period=%v want=%v", gotPeriodSeconds, wantPeriodSeconds)
		}
	}
}

func TestSynthesizeSingleCosine(t *testing.T) {
	coeffs := []FrequencyCoefficient{
		{FrequencyHz: 0.1, Amplitude: 5, PhaseRadians: 0},
	}
	out := Synthesize(coeffs, 100, 1.0)
	if len(out) != 100 {
		t.Fatalf("len(out) = %d, want 100", len(out))
	}
	if math.Abs(out[0]-5) > 1e-9 {
		t.Errorf("out[0] = %v, want 5 (cos(0)*5)", out[0])
	}
}

func TestEstimateNoisePercentileOrdering(t *testing.T) {
	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(float64(i))
	}
	p50 := EstimateNoise(signal, 50)
	p99 := EstimateNoise(signal, 99)
	if p50 > p99 {
		t.Fatalf("EstimateNoise(50) = %v > EstimateNoise(99) = %v", p50, p99)
	}
}
