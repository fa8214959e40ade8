// Command rhythmic fetches a metric series from a Prometheus-compatible
// backend, decomposes it, and assembles a traffic-pattern model, following
// the flag-based CLI idiom of the teacher's cmd entry points.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cwsl/rhythmic/internal/config"
	"github.com/cwsl/rhythmic/internal/dsp"
	"github.com/cwsl/rhythmic/internal/mcpserver"
	"github.com/cwsl/rhythmic/internal/metrics"
	"github.com/cwsl/rhythmic/internal/model"
	"github.com/cwsl/rhythmic/internal/mqttpublish"
	"github.com/cwsl/rhythmic/internal/pipeline"
	"github.com/cwsl/rhythmic/internal/promclient"
	"github.com/cwsl/rhythmic/internal/rlog"
	"github.com/cwsl/rhythmic/internal/stream"
)

func main() {
	var (
		configPath     = flag.String("config", "", "path to YAML config file")
		prometheusURL  = flag.String("prometheus", "", "metrics backend base URL (overrides config)")
		metricFlag     = flag.String("metric", "", "metric query to analyze (overrides config)")
		durationFlag   = flag.String("duration", "", "lookback duration, e.g. 7d (overrides config)")
		stepFlag       = flag.Int("step", 0, "resolution in seconds (overrides config)")
		outputFlag     = flag.String("output", "", "path to write the JSON traffic model (overrides config)")
		waveletFlag    = flag.String("wavelet", "", "wavelet family: db1, db2, db3, db4 (overrides config)")
		spikeThreshold = flag.Float64("spike-threshold", 0, "spike detection threshold in standard deviations (overrides config)")
		verboseFlag    = flag.Bool("verbose", false, "set logging.verbose in the loaded config (no log output is gated on it)")
		serveFlag      = flag.Bool("serve", false, "run as a long-lived service exposing metrics/stream/mcp")
		synthesizeFlag = flag.String("synthesize", "", "write a reconstructed-signal CSV to this path for sanity-checking")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rhythmic: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(&cfg, *prometheusURL, *metricFlag, *durationFlag, *stepFlag, *outputFlag, *waveletFlag, *spikeThreshold, *verboseFlag)

	logger := rlog.New("rhythmic")
	pipelineCfg := pipeline.Config{
		WaveletType:            cfg.Analysis.Wavelet,
		WaveletLevels:          cfg.Analysis.WaveletLevels,
		SpikeThresholdSigma:    cfg.Analysis.SpikeThresholdSigma,
		FourierPeakCount:       cfg.Analysis.FourierPeakCount,
		SpikeClusterGapMinutes: cfg.Analysis.SpikeClusterGapMinutes,
	}
	collector := promclient.NewCollector(cfg.Source.PrometheusURL, 30*time.Second)

	if *serveFlag {
		runService(cfg, pipelineCfg, collector, logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !collector.TestConnection(ctx) {
		logger.Printf("warning: metrics backend connectivity check failed, continuing anyway")
	}

	in, err := collector.FetchMetrics(ctx, cfg.Source.Metric, cfg.Source.Duration, cfg.Source.Step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rhythmic: %v\n", err)
		os.Exit(1)
	}

	result, err := pipeline.Run(in, pipelineCfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rhythmic: analysis failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeModel(cfg.Output.Path, result.Model, cfg.Output.Indent); err != nil {
		fmt.Fprintf(os.Stderr, "rhythmic: %v\n", err)
		os.Exit(1)
	}

	if *synthesizeFlag != "" {
		if err := writeSynthesizedCSV(*synthesizeFlag, in, result.Model); err != nil {
			logger.Printf("synthesize: %v", err)
		}
	}

	printSummary(result.Model)
}

func applyOverrides(cfg *config.Config, prometheusURL, metric, duration string, step int, output, wavelet string, spikeThreshold float64, verbose bool) {
	if prometheusURL != "" {
		cfg.Source.PrometheusURL = prometheusURL
	}
	if metric != "" {
		cfg.Source.Metric = metric
	}
	if duration != "" {
		cfg.Source.Duration = duration
	}
	if step != 0 {
		cfg.Source.Step = step
	}
	if output != "" {
		cfg.Output.Path = output
	}
	if wavelet != "" {
		cfg.Analysis.Wavelet = wavelet
	}
	if spikeThreshold != 0 {
		cfg.Analysis.SpikeThresholdSigma = spikeThreshold
	}
	if verbose {
		cfg.Logging.Verbose = true
	}
}

func writeModel(path string, m model.TrafficModel, indent bool) error {
	var payload []byte
	var err error
	if indent {
		payload, err = json.MarshalIndent(m, "", "  ")
	} else {
		payload, err = json.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("marshaling traffic model: %w", err)
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(append(payload, '\n'))
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func writeSynthesizedCSV(path string, in model.Input, m model.TrafficModel) error {
	coeffs := make([]dsp.FrequencyCoefficient, len(m.Baseline.Coefficients))
	for i, c := range m.Baseline.Coefficients {
		coeffs[i] = dsp.FrequencyCoefficient{
			FrequencyHz:   c.Frequency,
			Amplitude:     c.Amplitude,
			PhaseRadians:  c.Phase,
			PeriodMinutes: c.PeriodMinutes,
			Confidence:    c.Confidence,
		}
	}
	sampleRateHz := 0.0
	if in.StepSeconds > 0 {
		sampleRateHz = 1.0 / float64(in.StepSeconds)
	}
	reconstructed := dsp.Synthesize(coeffs, len(in.Values), sampleRateHz)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating synthesize output: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "index,original,reconstructed")
	for i := range reconstructed {
		original := 0.0
		if i < len(in.Values) {
			original = in.Values[i]
		}
		fmt.Fprintf(f, "%d,%s,%s\n", i, strconv.FormatFloat(original, 'g', -1, 64), strconv.FormatFloat(reconstructed[i], 'g', -1, 64))
	}
	return nil
}

func printSummary(m model.TrafficModel) {
	fmt.Printf("pattern: %s (confidence %.2f)\n", m.Pattern.Type, m.Pattern.Confidence)
	fmt.Printf("samples: %d, spikes: %d\n", m.Metadata.Samples, len(m.Spikes.Events))
	if len(m.Baseline.Coefficients) > 0 {
		top := m.Baseline.Coefficients[0]
		fmt.Printf("dominant period: %s\n", rlog.FormatPeriod(top.PeriodMinutes*60))
	}
}

func runService(cfg config.Config, pipelineCfg pipeline.Config, collector *promclient.Collector, logger *log.Logger) {
	mcp := mcpserver.New(collector, pipelineCfg, logger)
	hub := stream.NewHub(logger)
	mcollectors := metrics.New()

	publisher, err := mqttpublish.New(cfg.MQTT, logger)
	if err != nil {
		logger.Printf("mqtt: %v", err)
	}
	defer publisher.Close()

	mux := http.NewServeMux()
	if cfg.Metrics.PrometheusEnabled {
		mux.Handle("/metrics", metrics.Handler())
	}
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		serveAnalyze(w, r, collector, pipelineCfg, logger, hub, publisher, mcollectors)
	})
	primary := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	if cfg.Stream.Enabled {
		streamMux := http.NewServeMux()
		streamMux.HandleFunc("/stream", hub.HandleWebSocket)
		go serveOrExit(streamMux, cfg.Stream.ListenAddr, logger)
	}
	if cfg.MCP.Enabled {
		mcpMux := http.NewServeMux()
		mcpMux.HandleFunc("/mcp", mcp.ServeHTTP)
		go serveOrExit(mcpMux, cfg.MCP.ListenAddr, logger)
	}

	logger.Printf("serving on %s", cfg.Metrics.ListenAddr)
	if err := primary.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "rhythmic: server exited: %v\n", err)
		os.Exit(1)
	}
}

func serveOrExit(handler http.Handler, addr string, logger *log.Logger) {
	logger.Printf("serving on %s", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logger.Printf("server on %s exited: %v", addr, err)
	}
}

func serveAnalyze(w http.ResponseWriter, r *http.Request, collector *promclient.Collector, pipelineCfg pipeline.Config, logger *log.Logger, hub *stream.Hub, publisher *mqttpublish.Publisher, mcollectors *metrics.Collectors) {
	query := r.URL.Query()
	metric := query.Get("metric")
	duration := query.Get("duration")
	stepStr := query.Get("step")
	if metric == "" || duration == "" {
		http.Error(w, "metric and duration are required", http.StatusBadRequest)
		return
	}
	step := 60
	if stepStr != "" {
		if parsed, err := strconv.Atoi(stepStr); err == nil {
			step = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	in, err := collector.FetchMetrics(ctx, metric, duration, step)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	result, err := pipeline.Run(in, pipelineCfg, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	noise := dsp.EstimateNoise(in.Values, 95)
	mcollectors.Observe(result.Model, noise)
	hub.Broadcast(result.RunID, result.Model)
	if err := publisher.Publish(result.RunID, result.Model); err != nil {
		logger.Printf("mqtt publish: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Model)
}
