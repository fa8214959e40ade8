package dsp

import "math"

// SpikeFrequency is a coarse bucket of spike rate per day.
type SpikeFrequency string

const (
	SpikeFrequent   SpikeFrequency = "frequent"
	SpikeOccasional SpikeFrequency = "occasional"
	SpikeRare       SpikeFrequency = "rare"
	SpikeNone       SpikeFrequency = "none"
)

// PatternVerdict is the fused, rule-based classification of a traffic
// signal's shape, produced from the Fourier baseline and spike result.
type PatternVerdict struct {
	Type           string
	Confidence     float64
	Daily          bool
	Weekly         bool
	Seasonal       bool
	SpikeFrequency SpikeFrequency
}

// ClassifyPattern implements §4.5: it walks the baseline's coefficients to
// derive daily/weekly/seasonal confidences, buckets spike rate per day, and
// runs the rule cascade (first match wins) to produce a typed verdict.
func ClassifyPattern(baseline FourierBaseline, spikes SpikeResult, sampleCount int, stepSeconds float64) PatternVerdict {
	var dailyConf, weeklyConf, seasonalConf float64
	for _, c := range baseline.Coefficients {
		periodHours := c.PeriodMinutes / 60
		switch {
		case periodHours >= 20 && periodHours <= 28:
			dailyConf = math.Max(dailyConf, c.Confidence)
		case periodHours >= 144 && periodHours <= 192:
			weeklyConf = math.Max(weeklyConf, c.Confidence)
		case periodHours >= 600:
			seasonalConf = math.Max(seasonalConf, c.Confidence)
		}
	}

	totalHours := float64(sampleCount) * stepSeconds / 3600
	var spikeRatePerDay float64
	if totalHours > 0 {
		spikeRatePerDay = float64(len(spikes.Events)) / (totalHours / 24)
	}

	spikeFreq := bucketSpikeFrequency(spikeRatePerDay)

	var cv float64
	if baseline.Mean != 0 {
		cv = baseline.Std / baseline.Mean
	} else {
		cv = math.Inf(1)
	}

	patternType, confidence := determinePatternType(dailyConf, weeklyConf, seasonalConf, spikeFreq, cv)

	return PatternVerdict{
		Type:           patternType,
		Confidence:     confidence,
		Daily:          dailyConf > 0.3,
		Weekly:         weeklyConf > 0.3,
		Seasonal:       seasonalConf > 0.3,
		SpikeFrequency: spikeFreq,
	}
}

func bucketSpikeFrequency(ratePerDay float64) SpikeFrequency {
	switch {
	case ratePerDay > 10:
		return SpikeFrequent
	case ratePerDay > 2:
		return SpikeOccasional
	case ratePerDay > 0.1:
		return SpikeRare
	default:
		return SpikeNone
	}
}

func determinePatternType(dailyConf, weeklyConf, seasonalConf float64, spikeFreq SpikeFrequency, cv float64) (string, float64) {
	switch {
	case dailyConf > 0.6 && (spikeFreq == SpikeFrequent || spikeFreq == SpikeOccasional):
		return "business-hours-heavy", dailyConf
	case dailyConf > 0.6:
		return "business-hours-normal", dailyConf
	case weeklyConf > 0.5:
		return "weekly-batch", weeklyConf
	case spikeFreq == SpikeFrequent:
		return "bursty", 0.8
	case spikeFreq == SpikeNone && cv < 0.3:
		return "steady", 0.9
	case seasonalConf > 0.4:
		return "seasonal", seasonalConf
	default:
		maxConf := math.Max(dailyConf, math.Max(weeklyConf, seasonalConf))
		return "mixed", math.Max(0.3, maxConf)
	}
}
