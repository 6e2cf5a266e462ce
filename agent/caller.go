// Package agent implements the caller side of the protocol: resilient
// remote callers that fall back to local canned datasets when a peer is
// unreachable, and the specialist analysts built on them.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/petal-labs/salescast/mcp"
	"github.com/petal-labs/salescast/tool"
)

// Source tags where a result's data came from.
type Source string

const (
	// SourceLive marks data unwrapped from a successful remote response.
	SourceLive Source = "live"
	// SourceFallback marks data substituted from the local dataset.
	SourceFallback Source = "fallback"
	// SourceNone marks an explicit no-data result: the peer was
	// unreachable and the fallback dataset had no entry for the key.
	SourceNone Source = "none"
)

// Result is the two-branch outcome of a resilient call. A result is either
// fully live or fully fallback; the two are never merged.
type Result struct {
	Source  Source         `json:"source"`
	Payload map[string]any `json:"payload"`
}

// FallbackFunc resolves an operation and its arguments against a static,
// caller-local dataset. It returns false when no entry covers the key.
// Implementations close over immutable data built at startup.
type FallbackFunc func(operation string, args map[string]any) (map[string]any, bool)

// CallerConfig configures a resilient caller.
type CallerConfig struct {
	// Name identifies the specialist in logs and observations.
	Name string
	// Client is the remote peer. Required.
	Client *mcp.Client
	// Fallback substitutes data when the peer is unreachable. Optional;
	// without it an unreachable peer yields a no-data result.
	Fallback FallbackFunc
	// Timeout bounds one exchange. Zero means mcp.DefaultTimeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Caller issues dispatch requests and absorbs every transport fault into a
// fallback or no-data result. Call never returns an error; everything above
// this boundary receives a structurally valid Result.
type Caller struct {
	name     string
	client   *mcp.Client
	fallback FallbackFunc
	timeout  time.Duration
	logger   *slog.Logger
}

// NewCaller constructs a resilient caller.
func NewCaller(cfg CallerConfig) *Caller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = mcp.DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Caller{
		name:     cfg.Name,
		client:   cfg.Client,
		fallback: cfg.Fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// Name returns the specialist name.
func (c *Caller) Name() string { return c.name }

// Call invokes a remote operation. On success the unwrapped payload is
// returned tagged live. On any transport failure (connection refused,
// timeout, malformed envelope, non-success status) it falls back to the
// local dataset; a single failure triggers immediate fallback, no retry.
func (c *Caller) Call(ctx context.Context, operation string, args map[string]any) Result {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(callCtx, mcp.ToolsCallParams{
		Name:      operation,
		Arguments: args,
	})
	if err == nil && !result.IsError {
		var payload map[string]any
		if jsonErr := json.Unmarshal([]byte(result.TextContent()), &payload); jsonErr == nil {
			c.observe(operation, SourceLive, "", start)
			return Result{Source: SourceLive, Payload: payload}
		}
		// Unexpected content shape is treated like any transport fault.
	}
	if err != nil {
		c.logger.Warn("remote call failed, using fallback",
			"specialist", c.name, "operation", operation, "error", err)
	}

	if c.fallback != nil {
		if payload, ok := c.fallback(operation, args); ok {
			payload["source"] = string(SourceFallback)
			c.observe(operation, SourceFallback, tool.ErrorCodeUnreachable, start)
			return Result{Source: SourceFallback, Payload: payload}
		}
	}

	c.observe(operation, SourceNone, tool.ErrorCodeUnreachable, start)
	return Result{Source: SourceNone, Payload: noDataPayload(operation, args)}
}

func (c *Caller) observe(operation string, source Source, errorCode string, start time.Time) {
	tool.ObserveCall(tool.CallObservation{
		Specialist: c.name,
		Operation:  operation,
		Source:     string(source),
		ErrorCode:  errorCode,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func noDataPayload(operation string, args map[string]any) map[string]any {
	payload := map[string]any{
		"operation": operation,
		"source":    string(SourceNone),
		"error":     "peer unreachable and no fallback data available",
	}
	if year, ok := args["year"].(string); ok {
		payload["year"] = year
	}
	return payload
}
