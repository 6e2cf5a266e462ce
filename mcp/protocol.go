// Package mcp implements the JSON-RPC 2.0 tool protocol spoken between the
// salescast server and its remote callers: request/response envelopes,
// tools/list and tools/call payload shapes, and an HTTP client.
package mcp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const jsonRPCVersion = "2.0"

// JSON-RPC error codes used on the wire.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeHandlerFailure = -32000
)

// RequestID is a caller-assigned correlation id. The wire format allows both
// integers and strings; whichever form the caller sends is echoed back
// unchanged in the response.
type RequestID struct {
	value any
}

// IntID returns a RequestID carrying an integer.
func IntID(v int64) RequestID { return RequestID{value: v} }

// StringID returns a RequestID carrying a string.
func StringID(v string) RequestID { return RequestID{value: v} }

// IsZero reports whether the id was never set.
func (id RequestID) IsZero() bool { return id.value == nil }

// Equal reports whether two ids carry the same value.
func (id RequestID) Equal(other RequestID) bool { return id.value == other.value }

func (id RequestID) String() string {
	switch v := id.value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	default:
		return ""
	}
}

// MarshalJSON writes the id in the form the caller assigned it.
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts integer or string ids.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mcp: decode request id: %w", err)
	}
	switch v := raw.(type) {
	case nil:
		id.value = nil
	case float64:
		id.value = int64(v)
	case string:
		id.value = v
	default:
		return fmt.Errorf("mcp: request id must be an integer or string, got %T", raw)
	}
	return nil
}

// Message is a JSON-RPC 2.0 envelope. A request carries Method and Params; a
// response carries exactly one of Result or Error under the same ID.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("mcp: rpc error %d: %s", e.Code, e.Message)
}

// RequestError wraps transport and protocol failures in the request flow.
// Every failure mode of Client surfaces as one of these, so callers can
// treat "any RequestError" as the peer being unreachable.
type RequestError struct {
	Method string
	Err    error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("mcp: request %q failed: %v", e.Method, e.Err)
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Tool describes one operation in the tools/list result.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// ToolsListResult is returned by tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ToolsCallParams is sent in a tools/call request.
type ToolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ContentBlock is one typed content item in a tools/call result. The only
// block type produced today is "text", carrying a serialized result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ToolsCallResult is returned by tools/call.
type ToolsCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// TextContent returns the concatenated text of all text blocks.
func (r ToolsCallResult) TextContent() string {
	out := ""
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
