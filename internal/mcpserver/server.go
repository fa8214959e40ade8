// Package mcpserver exposes the traffic-model pipeline as an MCP tool so an
// LLM agent can request an analysis directly, grounded on mcp_server.go's
// server.NewMCPServer/registerTools pattern.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cwsl/rhythmic/internal/pipeline"
	"github.com/cwsl/rhythmic/internal/promclient"
)

// Server wraps an MCP tool server that analyzes traffic on demand.
type Server struct {
	collector *promclient.Collector
	cfg       pipeline.Config
	logger    *log.Logger

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// New creates an MCP server backed by collector for fetching samples and cfg
// for the pipeline's analysis tunables.
func New(collector *promclient.Collector, cfg pipeline.Config, logger *log.Logger) *Server {
	s := &Server{collector: collector, cfg: cfg, logger: logger}

	s.mcpServer = server.NewMCPServer("rhythmic", "1.0.0", server.WithToolCapabilities(true))
	s.registerTools()
	s.httpServer = server.NewStreamableHTTPServer(s.mcpServer)

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("analyze_traffic",
			mcp.WithDescription("Fetch a request-rate metric from the configured metrics backend and analyze it for baseline periodicity, spike behavior, and a high-level traffic pattern classification (business-hours-normal, business-hours-heavy, weekly-batch, bursty, steady, seasonal, mixed). Use this to understand capacity-planning-relevant traffic shape before sizing autoscaling policies or anomaly baselines."),
			mcp.WithString("metric",
				mcp.Description("Metric query to analyze, e.g. 'http_requests_total' or a full PromQL expression"),
				mcp.Required(),
			),
			mcp.WithString("duration",
				mcp.Description("Lookback duration: 1h, 7d, 1w, 1m (default: 7d)"),
				mcp.DefaultString("7d"),
			),
			mcp.WithNumber("step",
				mcp.Description("Data resolution in seconds (default: 60)"),
				mcp.DefaultNumber(60),
			),
		),
		s.handleAnalyzeTraffic,
	)
}

func (s *Server) handleAnalyzeTraffic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric := request.GetString("metric", "")
	if metric == "" {
		return mcp.NewToolResultError("metric is required"), nil
	}
	duration := request.GetString("duration", "7d")
	step := int(request.GetFloat("step", 60))

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	in, err := s.collector.FetchMetrics(fetchCtx, metric, duration, step)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch metric: %v", err)), nil
	}

	result, err := pipeline.Run(in, s.cfg, s.logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(result.Model, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal model: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// ServeHTTP dispatches to the underlying streamable HTTP MCP server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.ServeHTTP(w, r)
}
