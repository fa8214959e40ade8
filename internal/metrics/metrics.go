// Package metrics exposes Prometheus collectors for pipeline runs, mirroring
// the teacher's PrometheusMetrics struct in prometheus.go.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/cwsl/rhythmic/internal/model"
)

// Collectors holds all Prometheus metric collectors for the analysis service.
type Collectors struct {
	analysisDurationMs prometheus.Histogram
	sampleCount        prometheus.Gauge
	spikeEventCount    prometheus.Gauge
	noiseEstimate      prometheus.Gauge
	patternConfidence  prometheus.Gauge
	patternType        *prometheus.GaugeVec
	analysisRunsTotal  prometheus.Counter
	cpuPercent         prometheus.Gauge
}

// New registers a fresh set of collectors against the default registry.
func New() *Collectors {
	return &Collectors{
		analysisDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rhythmic_analysis_duration_milliseconds",
			Help:    "Wall-clock duration of a full pipeline run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
		sampleCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rhythmic_last_run_samples",
			Help: "Number of samples in the most recent analysis run.",
		}),
		spikeEventCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rhythmic_last_run_spike_events",
			Help: "Number of spike events detected in the most recent run.",
		}),
		noiseEstimate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rhythmic_last_run_noise_estimate",
			Help: "95th percentile high-frequency FFT magnitude of the most recent run.",
		}),
		patternConfidence: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rhythmic_last_run_pattern_confidence",
			Help: "Confidence of the most recent pattern classification.",
		}),
		patternType: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rhythmic_pattern_type",
			Help: "1 for the pattern type of the most recent run, 0 otherwise.",
		}, []string{"type"}),
		analysisRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rhythmic_analysis_runs_total",
			Help: "Total number of pipeline runs completed.",
		}),
		cpuPercent: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rhythmic_process_cpu_percent",
			Help: "Host CPU utilization percentage sampled around the most recent run.",
		}),
	}
}

var patternTypes = []string{
	"business-hours-normal", "business-hours-heavy", "weekly-batch",
	"bursty", "steady", "seasonal", "mixed",
}

// Observe records the results of a completed analysis run.
func (c *Collectors) Observe(m model.TrafficModel, noiseEstimate float64) {
	c.analysisDurationMs.Observe(m.Metadata.AnalysisDurationMs)
	c.sampleCount.Set(float64(m.Metadata.Samples))
	c.spikeEventCount.Set(float64(len(m.Spikes.Events)))
	c.noiseEstimate.Set(noiseEstimate)
	c.patternConfidence.Set(m.Pattern.Confidence)
	c.analysisRunsTotal.Inc()

	for _, t := range patternTypes {
		if t == m.Pattern.Type {
			c.patternType.WithLabelValues(t).Set(1)
		} else {
			c.patternType.WithLabelValues(t).Set(0)
		}
	}

	if percents, err := cpu.PercentWithContext(context.Background(), 0, false); err == nil && len(percents) > 0 {
		c.cpuPercent.Set(percents[0])
	}
}

// Handler returns the HTTP handler to mount at the metrics listen address.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts a blocking HTTP server exposing /metrics at addr.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
