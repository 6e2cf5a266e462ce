package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petal-labs/salescast/mcp"
)

// Machine-readable error codes for dispatch failures.
const (
	// ErrorCodeToolNotFound is returned when the requested operation name
	// is not registered.
	ErrorCodeToolNotFound = "TOOL_NOT_FOUND"
	// ErrorCodeMethodNotFound is returned for an unknown protocol method.
	ErrorCodeMethodNotFound = "METHOD_NOT_FOUND"
	// ErrorCodeInvalidArguments is returned when supplied arguments violate
	// the operation's parameter schema.
	ErrorCodeInvalidArguments = "INVALID_ARGUMENTS"
	// ErrorCodeHandlerFailure is returned when the operation's own logic
	// faults; the dispatcher stays alive.
	ErrorCodeHandlerFailure = "HANDLER_FAILURE"
	// ErrorCodeUnreachable is synthesized caller-side for transport-level
	// failures. The server never produces it.
	ErrorCodeUnreachable = "UNREACHABLE"
)

// ToolError is a structured dispatch error carrying a machine-readable code.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Params names the offending parameters for INVALID_ARGUMENTS.
	Params []string `json:"params,omitempty"`
	Cause  error    `json:"-"`
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	code := strings.TrimSpace(e.Code)
	msg := strings.TrimSpace(e.Message)
	switch {
	case code == "" && msg == "":
		return ErrorCodeHandlerFailure
	case code == "":
		return msg
	case msg == "":
		return code
	default:
		return fmt.Sprintf("%s: %s", code, msg)
	}
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// RPCCode maps the error code to its JSON-RPC wire value.
func (e *ToolError) RPCCode() int {
	if e == nil {
		return mcp.CodeHandlerFailure
	}
	switch e.Code {
	case ErrorCodeToolNotFound, ErrorCodeMethodNotFound:
		return mcp.CodeMethodNotFound
	case ErrorCodeInvalidArguments:
		return mcp.CodeInvalidParams
	default:
		return mcp.CodeHandlerFailure
	}
}

func newToolError(code, message string, cause error) *ToolError {
	cleanMsg := strings.TrimSpace(message)
	if cleanMsg == "" && cause != nil {
		cleanMsg = cause.Error()
	}
	return &ToolError{Code: code, Message: cleanMsg, Cause: cause}
}

// ToolErrorFrom extracts a *ToolError from an error chain.
func ToolErrorFrom(err error) (*ToolError, bool) {
	if err == nil {
		return nil, false
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr, true
	}
	return nil, false
}
