package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordingObserver struct {
	mu         sync.Mutex
	dispatches []DispatchObservation
	calls      []CallObservation
}

func (r *recordingObserver) ObserveDispatch(obs DispatchObservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, obs)
}

func (r *recordingObserver) ObserveCall(obs CallObservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, obs)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *int) {
	t.Helper()
	calls := 0
	r := NewRegistry()
	err := r.Register(Descriptor{
		Name: "get_gdp_data",
		Params: []ParamSpec{
			{Name: "year", Type: TypeString, Required: true},
			{Name: "quarter", Type: TypeString, Default: "all"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		calls++
		return map[string]any{
			"year":    args.String("year"),
			"quarter": args.String("quarter"),
		}, nil
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return NewDispatcher(r, nil), &calls
}

func TestDispatchSuccess(t *testing.T) {
	d, calls := newTestDispatcher(t)
	result, toolErr := d.Dispatch(context.Background(), "get_gdp_data", map[string]any{"year": "2024"})
	if toolErr != nil {
		t.Fatalf("Dispatch() error = %v", toolErr)
	}
	if *calls != 1 {
		t.Fatalf("handler calls = %d, want 1", *calls)
	}
	if result.IsError {
		t.Fatal("IsError = true, want false")
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("content = %+v, want one text block", result.Content)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(result.TextContent()), &payload); err != nil {
		t.Fatalf("result text is not JSON: %v", err)
	}
	if payload["year"] != "2024" {
		t.Fatalf("year = %v, want 2024", payload["year"])
	}
	if payload["quarter"] != "all" {
		t.Fatalf("quarter = %v, want the default all", payload["quarter"])
	}
}

func TestDispatchUnknownToolNeverInvokesHandler(t *testing.T) {
	d, calls := newTestDispatcher(t)
	_, toolErr := d.Dispatch(context.Background(), "get_weather", map[string]any{"year": "2024"})
	if toolErr == nil {
		t.Fatal("Dispatch() error = nil, want TOOL_NOT_FOUND")
	}
	if toolErr.Code != ErrorCodeToolNotFound {
		t.Fatalf("code = %q, want %q", toolErr.Code, ErrorCodeToolNotFound)
	}
	if !strings.Contains(toolErr.Message, "get_weather") {
		t.Fatalf("message %q does not name the missing tool", toolErr.Message)
	}
	if *calls != 0 {
		t.Fatalf("handler calls = %d, want 0", *calls)
	}
}

func TestDispatchInvalidArgumentsNeverInvokesHandler(t *testing.T) {
	d, calls := newTestDispatcher(t)
	_, toolErr := d.Dispatch(context.Background(), "get_gdp_data", map[string]any{})
	if toolErr == nil {
		t.Fatal("Dispatch() error = nil, want INVALID_ARGUMENTS")
	}
	if toolErr.Code != ErrorCodeInvalidArguments {
		t.Fatalf("code = %q, want %q", toolErr.Code, ErrorCodeInvalidArguments)
	}
	if *calls != 0 {
		t.Fatalf("handler calls = %d, want 0", *calls)
	}
}

func TestDispatchHandlerErrorBecomesHandlerFailure(t *testing.T) {
	r := NewRegistry()
	cause := errors.New("table corrupted")
	if err := r.Register(Descriptor{Name: "broken"}, func(ctx context.Context, args Args) (any, error) {
		return nil, cause
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := NewDispatcher(r, nil)

	_, toolErr := d.Dispatch(context.Background(), "broken", nil)
	if toolErr == nil {
		t.Fatal("Dispatch() error = nil, want HANDLER_FAILURE")
	}
	if toolErr.Code != ErrorCodeHandlerFailure {
		t.Fatalf("code = %q, want %q", toolErr.Code, ErrorCodeHandlerFailure)
	}
	if !errors.Is(toolErr, cause) {
		t.Fatal("wrapped cause lost from error chain")
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "explosive"}, func(ctx context.Context, args Args) (any, error) {
		panic("boom")
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := NewDispatcher(r, nil)

	_, toolErr := d.Dispatch(context.Background(), "explosive", nil)
	if toolErr == nil {
		t.Fatal("Dispatch() error = nil, want HANDLER_FAILURE")
	}
	if toolErr.Code != ErrorCodeHandlerFailure {
		t.Fatalf("code = %q, want %q", toolErr.Code, ErrorCodeHandlerFailure)
	}
	if !strings.Contains(toolErr.Message, "boom") {
		t.Fatalf("message %q does not carry the panic value", toolErr.Message)
	}

	// The dispatcher must stay usable after a recovered panic.
	if err := r.Register(Descriptor{Name: "ok"}, func(ctx context.Context, args Args) (any, error) {
		return map[string]any{}, nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, toolErr := d.Dispatch(context.Background(), "ok", nil); toolErr != nil {
		t.Fatalf("Dispatch() after panic error = %v", toolErr)
	}
}

func TestDispatchNotifiesObserver(t *testing.T) {
	observer := &recordingObserver{}
	SetObserver(observer)
	t.Cleanup(func() { SetObserver(nil) })

	d, _ := newTestDispatcher(t)
	if _, toolErr := d.Dispatch(context.Background(), "get_gdp_data", map[string]any{"year": "2024"}); toolErr != nil {
		t.Fatalf("Dispatch() error = %v", toolErr)
	}
	d.Dispatch(context.Background(), "missing", nil)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if len(observer.dispatches) != 2 {
		t.Fatalf("observed dispatches = %d, want 2", len(observer.dispatches))
	}
	if !observer.dispatches[0].Success {
		t.Fatal("first observation Success = false, want true")
	}
	if observer.dispatches[1].ErrorCode != ErrorCodeToolNotFound {
		t.Fatalf("second observation code = %q, want %q", observer.dispatches[1].ErrorCode, ErrorCodeToolNotFound)
	}
}

func TestToolErrorRPCCodeMapping(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{ErrorCodeToolNotFound, -32601},
		{ErrorCodeMethodNotFound, -32601},
		{ErrorCodeInvalidArguments, -32602},
		{ErrorCodeHandlerFailure, -32000},
		{ErrorCodeUnreachable, -32000},
	}
	for _, tc := range cases {
		err := &ToolError{Code: tc.code}
		if got := err.RPCCode(); got != tc.want {
			t.Fatalf("RPCCode(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}
