package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/petal-labs/salescast/mcp"
)

// Dispatcher validates and routes tool invocations against a registry.
// Faults at or below this layer are always converted into a well-formed
// error, never an escaping panic.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the backing registry for discovery listings.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch invokes a named operation with raw arguments and returns the
// content-block result, or a ToolError describing the failure.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, arguments map[string]any) (mcp.ToolsCallResult, *ToolError) {
	start := time.Now()
	result, toolErr := d.dispatch(ctx, name, arguments)

	code := ""
	if toolErr != nil {
		code = toolErr.Code
	}
	observeDispatch(DispatchObservation{
		Operation:  name,
		Success:    toolErr == nil,
		ErrorCode:  code,
		DurationMS: time.Since(start).Milliseconds(),
	})

	if toolErr != nil {
		d.logger.Warn("dispatch failed", "operation", name, "code", toolErr.Code, "error", toolErr.Message)
		return mcp.ToolsCallResult{}, toolErr
	}
	d.logger.Debug("dispatch ok", "operation", name)
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, arguments map[string]any) (result mcp.ToolsCallResult, toolErr *ToolError) {
	descriptor, handler, ok := d.registry.Lookup(name)
	if !ok {
		return mcp.ToolsCallResult{}, &ToolError{
			Code:    ErrorCodeToolNotFound,
			Message: fmt.Sprintf("tool %q not found", name),
		}
	}

	args, toolErr := validateArgs(descriptor, arguments)
	if toolErr != nil {
		return mcp.ToolsCallResult{}, toolErr
	}

	// A handler panic must not escape as a transport-level crash.
	defer func() {
		if r := recover(); r != nil {
			result = mcp.ToolsCallResult{}
			toolErr = newToolError(ErrorCodeHandlerFailure, fmt.Sprintf("handler %q panicked: %v", name, r), nil)
		}
	}()

	value, err := handler(ctx, args)
	if err != nil {
		return mcp.ToolsCallResult{}, newToolError(ErrorCodeHandlerFailure, "", err)
	}

	text, err := marshalResult(value)
	if err != nil {
		return mcp.ToolsCallResult{}, newToolError(ErrorCodeHandlerFailure, fmt.Sprintf("encode %q result", name), err)
	}
	return mcp.ToolsCallResult{
		Content: []mcp.ContentBlock{mcp.TextBlock(text)},
		IsError: false,
	}, nil
}

func marshalResult(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
