// Package config loads the YAML configuration file used by the rhythmic
// CLI and service, the same way the teacher's config.go loads its nested
// component configs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Stream   StreamConfig   `yaml:"stream"`
	MCP      MCPConfig      `yaml:"mcp"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig describes where samples are fetched from.
type SourceConfig struct {
	PrometheusURL string `yaml:"prometheus_url"`
	Metric        string `yaml:"metric"`
	Duration      string `yaml:"duration"`
	Step          int    `yaml:"step"`
}

// AnalysisConfig bundles the dsp pipeline tunables from spec.md §6.
type AnalysisConfig struct {
	Wavelet                 string  `yaml:"wavelet_type"`
	WaveletLevels           int     `yaml:"wavelet_levels"`
	SpikeThresholdSigma     float64 `yaml:"spike_threshold_sigma"`
	FourierPeakCount        int     `yaml:"fourier_peak_count"`
	SpikeClusterGapMinutes  int     `yaml:"spike_cluster_gap_minutes"`
}

// OutputConfig controls where the assembled model is written.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Indent bool   `yaml:"indent"`
}

// MetricsConfig controls the Prometheus metrics exporter.
type MetricsConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	ListenAddr        string `yaml:"listen_addr"`
	PushGatewayURL    string `yaml:"push_gateway_url"`
}

// MQTTConfig controls optional publication of finished models to MQTT.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// StreamConfig controls the WebSocket live-push surface.
type StreamConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// MCPConfig controls the MCP tool server surface.
type MCPConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig controls verbosity.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the documented defaults (spec.md §6's Configuration
// shape), applied before any file is loaded.
func Default() Config {
	return Config{
		Source: SourceConfig{
			PrometheusURL: "http://localhost:9090",
			Metric:        "http_requests_total",
			Duration:      "7d",
			Step:          60,
		},
		Analysis: AnalysisConfig{
			Wavelet:                "db4",
			WaveletLevels:          5,
			SpikeThresholdSigma:    3.0,
			FourierPeakCount:       8,
			SpikeClusterGapMinutes: 10,
		},
		Output: OutputConfig{
			Path:   "traffic-model.json",
			Indent: true,
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9091",
		},
		Stream: StreamConfig{
			ListenAddr: ":9092",
		},
		MCP: MCPConfig{
			ListenAddr: ":9093",
		},
	}
}

// Load reads a YAML config file at path, overlaying it on Default(). A
// missing file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
