package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds one request/response exchange when the caller does
// not configure its own.
const DefaultTimeout = 30 * time.Second

// ClientOptions configures a Client.
type ClientOptions struct {
	// Timeout bounds a single exchange. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client
}

// Client posts single-shot JSON-RPC requests to one remote peer. It is safe
// for concurrent use; each call is an independent exchange with no shared
// mutable state beyond the id counter.
type Client struct {
	endpoint string
	client   *http.Client

	mu     sync.Mutex
	nextID int64
}

// NewClient returns a client for the given JSON-RPC endpoint URL.
func NewClient(endpoint string, options ClientOptions) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		client:   httpClient,
		nextID:   1,
	}
}

// Endpoint returns the configured peer URL.
func (c *Client) Endpoint() string { return c.endpoint }

// ListTools fetches the server's operation listing via tools/list.
func (c *Client) ListTools(ctx context.Context) (ToolsListResult, error) {
	var result ToolsListResult
	if err := c.call(ctx, "tools/list", map[string]any{}, &result); err != nil {
		return ToolsListResult{}, err
	}
	return result, nil
}

// CallTool invokes a named operation via tools/call.
func (c *Client) CallTool(ctx context.Context, params ToolsCallParams) (ToolsCallResult, error) {
	var result ToolsCallResult
	if err := c.call(ctx, "tools/call", params, &result); err != nil {
		return ToolsCallResult{}, err
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	if c == nil || c.client == nil {
		return &RequestError{Method: method, Err: errors.New("client is nil")}
	}
	if c.endpoint == "" {
		return &RequestError{Method: method, Err: errors.New("endpoint is empty")}
	}

	paramsRaw, err := json.Marshal(params)
	if err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("encode params: %w", err)}
	}

	id := c.nextRequestID()
	body, err := json.Marshal(Message{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Method:  method,
		Params:  paramsRaw,
	})
	if err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &RequestError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &RequestError{Method: method, Err: fmt.Errorf("status %d: %s", resp.StatusCode, message)}
	}

	var response Message
	if err := json.Unmarshal(respBody, &response); err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("decode response: %w", err)}
	}
	if response.JSONRPC != "" && response.JSONRPC != jsonRPCVersion {
		return &RequestError{Method: method, Err: fmt.Errorf("unsupported jsonrpc version %q", response.JSONRPC)}
	}
	if !response.ID.Equal(id) {
		return &RequestError{Method: method, Err: fmt.Errorf("response id %q does not match request id %q", response.ID, id)}
	}
	if response.Error != nil {
		return &RequestError{Method: method, Err: response.Error}
	}
	if out == nil || len(response.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(response.Result, out); err != nil {
		return &RequestError{Method: method, Err: fmt.Errorf("decode result: %w", err)}
	}
	return nil
}

func (c *Client) nextRequestID() RequestID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return IntID(id)
}
