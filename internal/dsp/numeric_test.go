package dsp

import (
	"math"
	"testing"
)

func TestEnergy(t *testing.T) {
	if e := Energy([]float64{3, 4}); e != 25 {
		t.Fatalf("Energy([3,4]) = %v, want 25", e)
	}
	if e := Energy(nil); e != 0 {
		t.Fatalf("Energy(nil) = %v, want 0", e)
	}
}

func TestPadToPowerOfTwo(t *testing.T) {
	padded, orig := PadToPowerOfTwo([]float64{1, 2, 3})
	if len(padded) != 4 {
		t.Fatalf("len(padded) = %d, want 4", len(padded))
	}
	if orig != 3 {
		t.Fatalf("orig = %d, want 3", orig)
	}
	for i := 3; i < 4; i++ {
		if padded[i] != 3 {
			t.Errorf("padded[%d] = %v, want edge value 3", i, padded[i])
		}
	}

	already, orig2 := PadToPowerOfTwo([]float64{1, 2, 3, 4})
	if orig2 != 4 || len(already) != 4 {
		t.Fatalf("power-of-two input should pass through unchanged")
	}
}

func TestSimplePeaks(t *testing.T) {
	x := []float64{0, 1, 0, 5, 1, 0}
	peaks := SimplePeaks(x, 0.5)
	if len(peaks) != 2 || peaks[0] != 1 || peaks[1] != 3 {
		t.Fatalf("SimplePeaks = %v, want [1 3]", peaks)
	}
}

func TestHannWindowEndpoints(t *testing.T) {
	w := HannWindow(8)
	if math.Abs(w[0]) > 1e-9 {
		t.Errorf("Hann window should start near 0, got %v", w[0])
	}
	mid := w[len(w)/2]
	if mid < 0.9 {
		t.Errorf("Hann window should peak near center, got %v at mid", mid)
	}
}

func TestMeanStdDev(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mu := Mean(x)
	if math.Abs(mu-5) > 1e-9 {
		t.Fatalf("Mean = %v, want 5", mu)
	}
	sd := StdDev(x, mu)
	if math.Abs(sd-2) > 1e-9 {
		t.Fatalf("StdDev = %v, want 2", sd)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	p50 := Percentile(sorted, 50)
	p95 := Percentile(sorted, 95)
	p99 := Percentile(sorted, 99)
	if !(p50 <= p95 && p95 <= p99) {
		t.Fatalf("percentiles not monotonic: p50=%v p95=%v p99=%v", p50, p95, p99)
	}
}

func TestInterp1DPreservesEndpoints(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	out := Interp1D(src, 8)
	if math.Abs(out[0]-src[0]) > 1e-9 {
		t.Errorf("first sample = %v, want %v", out[0], src[0])
	}
	if math.Abs(out[len(out)-1]-src[len(src)-1]) > 1e-9 {
		t.Errorf("last sample = %v, want %v", out[len(out)-1], src[len(src)-1])
	}
}
