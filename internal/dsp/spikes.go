package dsp

import (
	"math"
	"sort"
)

// SpikeEvent is a temporally clustered anomaly above the configured sigma
// threshold. Events are disjoint in time and sorted by timestamp.
type SpikeEvent struct {
	TimestampMs     int64
	Magnitude       float64
	PeakMagnitude   float64
	DurationMinutes float64
	SpikeCount      int
}

// SpikeDistribution characterizes the temporal distribution of spike
// events by inter-arrival interval.
type SpikeDistribution struct {
	Type                string
	Lambda              float64
	MeanIntervalMinutes float64
	Count               int
}

// SpikeResult is the output of DetectSpikes.
type SpikeResult struct {
	Threshold    float64
	Events       []SpikeEvent
	Distribution SpikeDistribution
}

// detection is a single raw spike detection before clustering.
type detection struct {
	timestampMs int64
	magnitude   float64
}

const defaultMaxGapMinutes = 10

// DetectSpikes implements §4.4: a direct threshold channel on signal, an
// optional wavelet channel on the combined high-frequency detail bands,
// single-pass temporal clustering, and inter-arrival distribution fitting.
// Returns an empty result when |signal| < 10.
func DetectSpikes(signal []float64, details [][]float64, thresholdSigma float64, maxGapMinutes int) SpikeResult {
	if len(signal) < 10 {
		return SpikeResult{Distribution: SpikeDistribution{Type: "none", Count: 0}}
	}
	if thresholdSigma <= 0 {
		thresholdSigma = 3.0
	}
	if maxGapMinutes <= 0 {
		maxGapMinutes = defaultMaxGapMinutes
	}

	mean := Mean(signal)
	std := StdDev(signal, mean)
	threshold := mean + thresholdSigma*std

	var detections []detection
	for i, v := range signal {
		if v > threshold {
			detections = append(detections, detection{
				timestampMs: int64(i) * 60000,
				magnitude:   v,
			})
		}
	}

	if len(details) > 0 {
		hf := CombineHighFrequency(details, len(signal))
		hfMean := Mean(hf)
		hfStd := StdDev(hf, hfMean)
		if hfStd != 0 {
			hfThreshold := hfMean + thresholdSigma*hfStd
			for i, v := range hf {
				if absFloat(v) > absFloat(hfThreshold) {
					detections = append(detections, detection{
						timestampMs: int64(i) * 60000,
						magnitude:   signal[i],
					})
				}
			}
		}
	}

	sort.Slice(detections, func(a, b int) bool { return detections[a].timestampMs < detections[b].timestampMs })

	clusters := clusterDetections(detections, maxGapMinutes)

	events := make([]SpikeEvent, 0, len(clusters))
	for _, c := range clusters {
		events = append(events, mergeCluster(c))
	}

	distribution := fitDistribution(events)

	return SpikeResult{Threshold: threshold, Events: events, Distribution: distribution}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// clusterDetections merges consecutive detections within maxGapMinutes into
// the same cluster; a gap strictly greater than maxGapMinutes starts a new
// cluster. detections must already be sorted by timestamp.
func clusterDetections(detections []detection, maxGapMinutes int) [][]detection {
	if len(detections) == 0 {
		return nil
	}
	gapMs := int64(maxGapMinutes) * 60000
	clusters := [][]detection{{detections[0]}}
	for _, d := range detections[1:] {
		cur := clusters[len(clusters)-1]
		gap := d.timestampMs - cur[len(cur)-1].timestampMs
		if gap <= gapMs {
			clusters[len(clusters)-1] = append(cur, d)
		} else {
			clusters = append(clusters, []detection{d})
		}
	}
	return clusters
}

func mergeCluster(cluster []detection) SpikeEvent {
	if len(cluster) == 1 {
		return SpikeEvent{
			TimestampMs:     cluster[0].timestampMs,
			Magnitude:       cluster[0].magnitude,
			PeakMagnitude:   cluster[0].magnitude,
			DurationMinutes: 1,
			SpikeCount:      1,
		}
	}

	timestamps := make([]float64, len(cluster))
	magnitudes := make([]float64, len(cluster))
	var sumMag, peakMag float64
	minTs, maxTs := cluster[0].timestampMs, cluster[0].timestampMs
	for i, d := range cluster {
		timestamps[i] = float64(d.timestampMs)
		magnitudes[i] = d.magnitude
		sumMag += d.magnitude
		if d.magnitude > peakMag {
			peakMag = d.magnitude
		}
		if d.timestampMs < minTs {
			minTs = d.timestampMs
		}
		if d.timestampMs > maxTs {
			maxTs = d.timestampMs
		}
	}
	sort.Float64s(timestamps)
	medianTs := int64(Median(timestamps))
	duration := float64(maxTs-minTs) / 60000
	if duration < 1 {
		duration = 1
	}

	return SpikeEvent{
		TimestampMs:     medianTs,
		Magnitude:       sumMag / float64(len(cluster)),
		PeakMagnitude:   peakMag,
		DurationMinutes: duration,
		SpikeCount:      len(cluster),
	}
}

// fitDistribution classifies the inter-arrival intervals of events into
// regular/exponential/bursty by coefficient of variation, per §4.4 step 6.
func fitDistribution(events []SpikeEvent) SpikeDistribution {
	if len(events) < 2 {
		return SpikeDistribution{Type: "insufficient-data", Count: len(events)}
	}

	timestamps := make([]float64, len(events))
	for i, e := range events {
		timestamps[i] = float64(e.TimestampMs)
	}
	sort.Float64s(timestamps)

	intervals := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		intervals = append(intervals, (timestamps[i]-timestamps[i-1])/60000)
	}
	if len(intervals) == 0 {
		return SpikeDistribution{Type: "insufficient-data", Count: len(events)}
	}

	meanInterval := Mean(intervals)
	stdInterval := StdDev(intervals, meanInterval)

	lambda := 1.0
	if meanInterval > 0 {
		lambda = 1 / meanInterval
	}

	cv := 0.0
	if meanInterval > 0 {
		cv = stdInterval / meanInterval
	} else {
		cv = math.Inf(1)
	}

	var distType string
	switch {
	case cv < 0.5:
		distType = "regular"
	case cv <= 1.5:
		distType = "exponential"
	default:
		distType = "bursty"
	}

	return SpikeDistribution{
		Type:                distType,
		Lambda:              lambda,
		MeanIntervalMinutes: meanInterval,
		Count:               len(events),
	}
}
