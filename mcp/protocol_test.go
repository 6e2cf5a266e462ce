package mcp

import (
	"encoding/json"
	"testing"
)

func TestRequestIDMarshalInt(t *testing.T) {
	data, err := json.Marshal(IntID(7))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "7" {
		t.Fatalf("marshaled id = %s, want 7", data)
	}
}

func TestRequestIDMarshalString(t *testing.T) {
	data, err := json.Marshal(StringID("req-1"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"req-1"` {
		t.Fatalf(`marshaled id = %s, want "req-1"`, data)
	}
}

func TestRequestIDUnmarshalPreservesForm(t *testing.T) {
	var intID RequestID
	if err := json.Unmarshal([]byte("42"), &intID); err != nil {
		t.Fatalf("Unmarshal(42) error = %v", err)
	}
	if !intID.Equal(IntID(42)) {
		t.Fatalf("id = %v, want IntID(42)", intID)
	}

	var strID RequestID
	if err := json.Unmarshal([]byte(`"42"`), &strID); err != nil {
		t.Fatalf(`Unmarshal("42") error = %v`, err)
	}
	if !strID.Equal(StringID("42")) {
		t.Fatalf(`id = %v, want StringID("42")`, strID)
	}

	// The integer 42 and the string "42" are distinct ids.
	if intID.Equal(strID) {
		t.Fatal(`IntID(42) compares equal to StringID("42")`)
	}
}

func TestRequestIDUnmarshalRejectsOtherTypes(t *testing.T) {
	var id RequestID
	if err := json.Unmarshal([]byte("[1]"), &id); err == nil {
		t.Fatal("Unmarshal([1]) error = nil, want type error")
	}
	if err := json.Unmarshal([]byte("true"), &id); err == nil {
		t.Fatal("Unmarshal(true) error = nil, want type error")
	}
}

func TestRequestIDZero(t *testing.T) {
	var id RequestID
	if !id.IsZero() {
		t.Fatal("zero RequestID IsZero() = false")
	}
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("marshaled zero id = %s, want null", data)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	in := Message{
		JSONRPC: "2.0",
		ID:      StringID("abc"),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"get_gdp_data"}`),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out Message
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.ID.Equal(in.ID) {
		t.Fatalf("round-tripped id = %v, want %v", out.ID, in.ID)
	}
	if out.Method != in.Method {
		t.Fatalf("round-tripped method = %q, want %q", out.Method, in.Method)
	}
}

func TestToolsCallResultTextContent(t *testing.T) {
	result := ToolsCallResult{
		Content: []ContentBlock{
			TextBlock("hello "),
			{Type: "image", Text: "ignored"},
			TextBlock("world"),
		},
	}
	if got := result.TextContent(); got != "hello world" {
		t.Fatalf("TextContent() = %q, want %q", got, "hello world")
	}
}

func TestRPCErrorMessage(t *testing.T) {
	err := &RPCError{Code: CodeMethodNotFound, Message: "method not found"}
	want := "mcp: rpc error -32601: method not found"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
