package dsp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FrequencyCoefficient describes one dominant periodic component found by
// AnalyzeFourier.
type FrequencyCoefficient struct {
	FrequencyHz    float64
	Amplitude      float64
	PhaseRadians   float64
	PeriodMinutes  float64
	Confidence     float64
}

// FourierBaseline is the result of a windowed Fourier analysis.
type FourierBaseline struct {
	Mean         float64
	Std          float64
	Coefficients []FrequencyCoefficient
}

// defaultPeakCount is the number of dominant frequency coefficients kept
// when the caller does not override it (0 or negative).
const defaultPeakCount = 8

// AnalyzeFourier performs a windowed FFT analysis of signal, sampled at
// sampleRateHz, returning up to peakCount dominant frequency coefficients.
// Rejects |signal| < 4. If std == 0 (constant signal) it returns a baseline
// with an empty coefficient list and no error.
func AnalyzeFourier(signal []float64, sampleRateHz float64, peakCount int) (FourierBaseline, error) {
	if len(signal) < 4 {
		return FourierBaseline{}, errTooShort("fourier analyze", len(signal), 4)
	}
	if peakCount <= 0 {
		peakCount = defaultPeakCount
	}

	mean := Mean(signal)
	std := StdDev(signal, mean)
	if std == 0 {
		return FourierBaseline{Mean: mean, Std: 0, Coefficients: nil}, nil
	}

	centered := make([]float64, len(signal))
	for i, v := range signal {
		centered[i] = v - mean
	}

	padded, _ := PadToPowerOfTwo(centered)
	window := HannWindow(len(padded))
	windowed := make([]float64, len(padded))
	for i, v := range padded {
		windowed[i] = v * window[i]
	}

	fft := fourier.NewFFT(len(windowed))
	coeffs := fft.Coefficients(nil, windowed)

	half := len(windowed)/2 + 1
	freqs := make([]float64, half)
	mags := make([]float64, half)
	phases := make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = fft.Freq(k) * sampleRateHz
		mags[k] = cAbs(coeffs[k])
		phases[k] = cPhase(coeffs[k])
	}

	coefficients := findDominantFrequencies(freqs, mags, phases, peakCount)

	return FourierBaseline{Mean: mean, Std: std, Coefficients: coefficients}, nil
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func cPhase(c complex128) float64 {
	return math.Atan2(imag(c), real(c))
}

// findDominantFrequencies implements §4.3 step 8-9: DC exclusion, local-max
// peak selection with a magnitude floor and minimum spacing, falling back to
// the raw top-`count` magnitudes when no peaks qualify, sorted by magnitude
// descending, with a confidence floor of 0.05.
func findDominantFrequencies(freqs, mags, phases []float64, count int) []FrequencyCoefficient {
	// Exclude the DC bin (f <= 1e-10).
	var idx []int
	for i, f := range freqs {
		if f > 1e-10 {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil
	}

	maxMag := 0.0
	for _, i := range idx {
		if mags[i] > maxMag {
			maxMag = mags[i]
		}
	}
	if maxMag == 0 {
		return nil
	}

	threshold := 0.1 * maxMag
	minSpacing := len(idx) / 50
	if minSpacing < 1 {
		minSpacing = 1
	}

	var peaks []int
	for pos, i := range idx {
		if mags[i] < threshold {
			continue
		}
		isLocalMax := true
		if pos > 0 && mags[idx[pos-1]] >= mags[i] {
			isLocalMax = false
		}
		if pos < len(idx)-1 && mags[idx[pos+1]] >= mags[i] {
			isLocalMax = false
		}
		if !isLocalMax {
			continue
		}
		if len(peaks) > 0 && (i-peaks[len(peaks)-1]) < minSpacing {
			// Keep whichever of the two is larger.
			if mags[i] > mags[peaks[len(peaks)-1]] {
				peaks[len(peaks)-1] = i
			}
			continue
		}
		peaks = append(peaks, i)
	}

	if len(peaks) == 0 {
		// Fall back to the top-`count` magnitudes among non-DC bins.
		sorted := append([]int(nil), idx...)
		sort.Slice(sorted, func(a, b int) bool { return mags[sorted[a]] > mags[sorted[b]] })
		if len(sorted) > count {
			sorted = sorted[:count]
		}
		peaks = sorted
	}

	sort.Slice(peaks, func(a, b int) bool { return mags[peaks[a]] > mags[peaks[b]] })
	if len(peaks) > count {
		peaks = peaks[:count]
	}

	out := make([]FrequencyCoefficient, 0, len(peaks))
	for _, i := range peaks {
		confidence := mags[i] / maxMag
		if confidence < 0.05 {
			continue
		}
		f := freqs[i]
		periodMinutes := math.Inf(1)
		if f > 0 {
			periodMinutes = 1 / (f * 60)
		}
		out = append(out, FrequencyCoefficient{
			FrequencyHz:   f,
			Amplitude:     mags[i],
			PhaseRadians:  phases[i],
			PeriodMinutes: periodMinutes,
			Confidence:    confidence,
		})
	}
	return out
}

// Synthesize reconstructs a signal of length n, sampled at sampleRateHz, as
// the sum of cosines described by coefficients: sum(a_i * cos(2*pi*f_i*t + phi_i)).
func Synthesize(coefficients []FrequencyCoefficient, n int, sampleRateHz float64) []float64 {
	out := make([]float64, n)
	if len(coefficients) == 0 || sampleRateHz == 0 {
		return out
	}
	for t := 0; t < n; t++ {
		tSec := float64(t) / sampleRateHz
		var v float64
		for _, c := range coefficients {
			v += c.Amplitude * math.Cos(2*math.Pi*c.FrequencyHz*tSec+c.PhaseRadians)
		}
		out[t] = v
	}
	return out
}

// EstimateNoise returns the given percentile (0-100) of FFT magnitudes in
// the upper (high-frequency) half of the raw spectrum of signal.
func EstimateNoise(signal []float64, percentile float64) float64 {
	padded, _ := PadToPowerOfTwo(signal)
	if len(padded) == 0 {
		return 0
	}
	fft := fourier.NewFFT(len(padded))
	coeffs := fft.Coefficients(nil, padded)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cAbs(c)
	}

	upper := mags[len(mags)/2:]
	sorted := append([]float64(nil), upper...)
	sort.Float64s(sorted)
	return Percentile(sorted, percentile)
}
