package dsp

import "math"

// daubechiesFilters holds the low-pass decomposition coefficients for the
// supported Daubechies wavelets (db1 == Haar through db4). High-pass filters
// and reconstruction filters are derived from these via quadrature mirror
// relations in newWaveletFilterBank.
//
// No example repo or ecosystem library in the pack ships a discrete wavelet
// transform (gonum's dsp package only covers FFT-family transforms), so this
// table and the decomposition below are hand-rolled against the standard
// Daubechies coefficient values pywt uses for db1..db4 (see DESIGN.md).
var daubechiesFilters = map[string][]float64{
	"db1": {0.7071067811865476, 0.7071067811865476},
	"db2": {
		-0.12940952255092145, 0.22414386804185735,
		0.836516303737469, 0.48296291314469025,
	},
	"db3": {
		0.035226291882100656, -0.08544127388224149,
		-0.13501102001039084, 0.4598775021193313,
		0.8068915093133388, 0.3326705529509569,
	},
	"db4": {
		-0.010597401784997278, 0.032883011666982945,
		0.030841381835986965, -0.18703481171888114,
		-0.02798376941698385, 0.6308807679295904,
		0.7148465705525415, 0.23037781330885523,
	},
}

const defaultWavelet = "db4"

// waveletFilterBank holds the four filters (decomposition low/high,
// reconstruction low/high) needed for a multi-level DWT/inverse DWT pair.
type waveletFilterBank struct {
	name   string
	decLo  []float64
	decHi  []float64
	recLo  []float64
	recHi  []float64
}

// newWaveletFilterBank resolves a wavelet name to its filter bank, falling
// back to db4 (with ok=false) for unrecognized names.
func newWaveletFilterBank(name string) (bank waveletFilterBank, ok bool) {
	lo, known := daubechiesFilters[name]
	if !known {
		lo = daubechiesFilters[defaultWavelet]
		bank = buildFilterBank(defaultWavelet, lo)
		return bank, false
	}
	return buildFilterBank(name, lo), true
}

func buildFilterBank(name string, decLo []float64) waveletFilterBank {
	n := len(decLo)
	decHi := make([]float64, n)
	recLo := make([]float64, n)
	recHi := make([]float64, n)
	for i := 0; i < n; i++ {
		// Quadrature mirror filter: h1[i] = (-1)^i * h0[n-1-i]
		sign := 1.0
		if i%2 != 0 {
			sign = -1.0
		}
		decHi[i] = sign * decLo[n-1-i]
		recLo[i] = decLo[n-1-i]
		recHi[i] = decHi[n-1-i]
	}
	return waveletFilterBank{name: name, decLo: decLo, decHi: decHi, recLo: recLo, recHi: recHi}
}

// dwtStep performs one level of decomposition: convolve x with the filter
// bank's low/high decomposition filters and downsample by 2, using edge
// (replicate) padding at the boundaries; output length is
// (len(x)+len(filter)-1)/2.
func dwtStep(x []float64, bank waveletFilterBank) (approx, detail []float64) {
	n := len(x)
	flen := len(bank.decLo)
	outLen := (n + flen - 1) / 2
	approx = make([]float64, outLen)
	detail = make([]float64, outLen)

	extended := edgeExtend(x, flen-1)
	offset := flen - 1

	for outIdx := 0; outIdx < outLen; outIdx++ {
		center := outIdx*2 + offset
		var a, d float64
		for k := 0; k < flen; k++ {
			idx := center - k
			v := extended[idx]
			a += bank.decLo[k] * v
			d += bank.decHi[k] * v
		}
		approx[outIdx] = a
		detail[outIdx] = d
	}
	return approx, detail
}

// edgeExtend pads x on both sides by pad samples, replicating the edge
// values (matches pywt's 'symmetric'-like edge behavior closely enough for
// our purposes; §4.2 only specifies edge padding for length-to-power-of-two,
// this is the internal convolution boundary, not the signal-length pad).
func edgeExtend(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	for i := 0; i < pad; i++ {
		out[i] = x[0]
	}
	copy(out[pad:pad+n], x)
	for i := 0; i < pad; i++ {
		out[pad+n+i] = x[n-1]
	}
	return out
}

// Decomposition is the result of a multi-level discrete wavelet transform.
type Decomposition struct {
	Approximation     []float64
	Details           [][]float64 // Details[0] is level 1 (highest frequency)
	WaveletType        string
	Levels             int
	OriginalLength     int
	SmoothnessRatio    float64
	EnergyDistribution []float64 // percentages, [approx, d1, ..., dL]
}

// Decompose performs a multi-level discrete wavelet decomposition of v at
// `levels` levels (default 5 when levels <= 0), defaulting to db4 and
// falling back to it silently (with a warning via the warn callback, which
// may be nil) for unrecognized wavelet names. Rejects |v| < 4.
//
// On any internal failure it degrades to a pass-through result per §4.2:
// approximation = v, details = nil, levels = 0, smoothness ratio = 1,
// energy distribution = [100].
func Decompose(v []float64, waveletName string, levels int, warn func(string)) (Decomposition, error) {
	if len(v) < 4 {
		return Decomposition{}, errTooShort("decompose", len(v), 4)
	}
	if levels <= 0 {
		levels = 5
	}
	if waveletName == "" {
		waveletName = defaultWavelet
	}

	bank, ok := newWaveletFilterBank(waveletName)
	if !ok && warn != nil {
		warn("unknown wavelet " + waveletName + ", using " + defaultWavelet)
	}

	original := len(v)
	minLen := 1 << uint(levels)
	signal := v
	if original < minLen {
		signal = padEdgeTo(v, minLen)
	}

	details := make([][]float64, 0, levels)
	approx := signal
	for l := 0; l < levels; l++ {
		if len(approx) < len(bank.decLo) {
			// Can't decompose further; degrade gracefully.
			return passThroughDecomposition(v, waveletName), nil
		}
		a, d := dwtStep(approx, bank)
		details = append(details, d)
		approx = a
	}

	approxEnergy := Energy(approx)
	detailEnergies := make([]float64, len(details))
	var detailTotal float64
	for i, d := range details {
		e := Energy(d)
		detailEnergies[i] = e
		detailTotal += e
	}
	// The edge-extended transform is not energy-preserving, so percentages
	// are taken over the summed component energies and add up to 100.
	totalEnergy := approxEnergy + detailTotal

	var smoothness float64
	if approxEnergy+detailTotal > 0 {
		smoothness = approxEnergy / (approxEnergy + detailTotal)
	}

	energyDist := make([]float64, 0, len(details)+1)
	if totalEnergy > 0 {
		energyDist = append(energyDist, approxEnergy/totalEnergy*100)
		for _, e := range detailEnergies {
			energyDist = append(energyDist, e/totalEnergy*100)
		}
	} else {
		energyDist = append(energyDist, 0)
		for range detailEnergies {
			energyDist = append(energyDist, 0)
		}
	}

	return Decomposition{
		Approximation:      approx,
		Details:            details,
		WaveletType:        bank.name,
		Levels:             len(details),
		OriginalLength:     original,
		SmoothnessRatio:    smoothness,
		EnergyDistribution: energyDist,
	}, nil
}

func padEdgeTo(v []float64, minLen int) []float64 {
	if len(v) >= minLen {
		out := make([]float64, len(v))
		copy(out, v)
		return out
	}
	out := make([]float64, minLen)
	copy(out, v)
	last := v[len(v)-1]
	for i := len(v); i < minLen; i++ {
		out[i] = last
	}
	return out
}

func passThroughDecomposition(v []float64, waveletName string) Decomposition {
	out := make([]float64, len(v))
	copy(out, v)
	return Decomposition{
		Approximation:      out,
		Details:            nil,
		WaveletType:        waveletName,
		Levels:             0,
		OriginalLength:     len(v),
		SmoothnessRatio:    1,
		EnergyDistribution: []float64{100},
	}
}

// CombineHighFrequency linearly interpolates each detail band to the sample
// length and sums them, weighting the highest-frequency band (Details[0],
// level 1) most heavily: band i gets weight 2^(L-1-i) where L is the number
// of bands. Returns nil if details is empty.
func CombineHighFrequency(details [][]float64, length int) []float64 {
	if len(details) == 0 {
		return nil
	}
	combined := make([]float64, length)
	// Highest frequency detail is details[0] (level 1); band i gets weight
	// 2^(L-1-i), so band 0 gets the largest weight and the last band gets 1.
	for i, d := range details {
		weight := math.Pow(2, float64(len(details)-1-i))
		resized := d
		if len(d) != length {
			resized = Interp1D(d, length)
		}
		for j := 0; j < length; j++ {
			combined[j] += weight * resized[j]
		}
	}
	return combined
}
