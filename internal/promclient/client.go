// Package promclient is the metrics-backend HTTP client: an opaque source
// that delivers an ordered sample vector with uniform step. It is outside
// the core's scope (spec.md §1) but is the collaborator that produces the
// core's Input.
package promclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cwsl/rhythmic/internal/model"
)

// Collector fetches a time series from a Prometheus-compatible HTTP API.
type Collector struct {
	baseURL    string
	httpClient *http.Client
}

// NewCollector returns a Collector targeting baseURL, with the given
// request timeout.
func NewCollector(baseURL string, timeout time.Duration) *Collector {
	return &Collector{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TestConnection checks whether the backend is reachable, matching the
// original Python collector's test_connection.
func (c *Collector) TestConnection(ctx context.Context) bool {
	u := c.baseURL + "/api/v1/query?query=up"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type queryRangeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Data   struct {
		Result []struct {
			Metric map[string]string `json:"metric"`
			Values [][2]any           `json:"values"`
		} `json:"result"`
	} `json:"data"`
}

// FetchMetrics retrieves a query_range result for query over the lookback
// duration string (spec.md §6's grammar), at the given resolution step in
// seconds, and returns it as a model.Input ready for the core pipeline.
func (c *Collector) FetchMetrics(ctx context.Context, query, duration string, step int) (model.Input, error) {
	durationSeconds, err := ParseDuration(duration)
	if err != nil {
		return model.Input{}, err
	}

	end := time.Now()
	start := end.Add(-time.Duration(durationSeconds) * time.Second)

	promQuery := query
	if !strings.HasPrefix(query, "rate(") && !strings.HasPrefix(query, "increase(") &&
		(strings.Contains(query, "_total") || strings.Contains(query, "_count")) {
		promQuery = fmt.Sprintf("rate(%s[1m])", query)
	}

	params := url.Values{}
	params.Set("query", promQuery)
	params.Set("start", strconv.FormatInt(start.Unix(), 10))
	params.Set("end", strconv.FormatInt(end.Unix(), 10))
	params.Set("step", fmt.Sprintf("%ds", step))

	reqURL := c.baseURL + "/api/v1/query_range?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Input{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Input{}, fmt.Errorf("failed to connect to metrics backend at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Input{}, fmt.Errorf("metrics backend returned status %d", resp.StatusCode)
	}

	var parsed queryRangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.Input{}, fmt.Errorf("decoding response: %w", err)
	}

	if parsed.Status != "success" {
		msg := parsed.Error
		if msg == "" {
			msg = "unknown error"
		}
		return model.Input{}, fmt.Errorf("metrics query failed: %s", msg)
	}

	if len(parsed.Data.Result) == 0 {
		return model.Input{}, fmt.Errorf("no data found for query: %s", promQuery)
	}

	series := parsed.Data.Result[0]
	timestamps := make([]int64, 0, len(series.Values))
	values := make([]float64, 0, len(series.Values))

	for _, pair := range series.Values {
		ts, value, ok := parseSamplePair(pair)
		if !ok {
			continue
		}
		timestamps = append(timestamps, ts)
		values = append(values, value)
	}

	if len(timestamps) == 0 {
		return model.Input{}, fmt.Errorf("no valid data points found for query: %s", promQuery)
	}

	return model.Input{
		TimestampsMs: timestamps,
		Values:       values,
		Metric:       query,
		Duration:     duration,
		StepSeconds:  step,
		Source:       "prometheus",
	}, nil
}

// parseSamplePair decodes a Prometheus [timestamp, "value"] pair, skipping
// (not erroring on) malformed points the way the original Python collector
// logs-and-skips invalid rows. NaN values are skipped too, so the core never
// receives them from this client.
func parseSamplePair(pair [2]any) (timestampMs int64, value float64, ok bool) {
	tsFloat, isFloat := pair[0].(float64)
	if !isFloat {
		return 0, 0, false
	}
	valueStr, isString := pair[1].(string)
	if !isString {
		return 0, 0, false
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || math.IsNaN(v) {
		return 0, 0, false
	}
	return int64(tsFloat * 1000), v, true
}
