package tool

import (
	"context"
	"errors"
	"testing"
)

func nopHandler(ctx context.Context, args Args) (any, error) {
	return map[string]any{}, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	descriptor := Descriptor{
		Name:        "get_gdp_data",
		Description: "GDP growth data",
		Params: []ParamSpec{
			{Name: "year", Type: TypeString, Required: true},
		},
	}
	if err := r.Register(descriptor, nopHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, handler, ok := r.Lookup("get_gdp_data")
	if !ok {
		t.Fatal("Lookup() ok = false")
	}
	if handler == nil {
		t.Fatal("Lookup() handler = nil")
	}
	if got.Description != "GDP growth data" {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	d := Descriptor{Name: "get_gdp_data"}
	if err := r.Register(d, nopHandler); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := r.Register(d, nopHandler)
	if !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("second Register() error = %v, want ErrDuplicateOperation", err)
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "  "}, nopHandler); err == nil {
		t.Fatal("Register() error = nil, want name error")
	}
}

func TestRegistryRejectsNilHandler(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "x"}, nil); err == nil {
		t.Fatal("Register() error = nil, want handler error")
	}
}

func TestRegistryRejectsUnknownParamType(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Descriptor{
		Name:   "x",
		Params: []ParamSpec{{Name: "y", Type: "decimal"}},
	}, nopHandler)
	if err == nil {
		t.Fatal("Register() error = nil, want type error")
	}
}

func TestRegistryListPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"charlie", "alpha", "bravo"}
	for _, name := range names {
		if err := r.Register(Descriptor{Name: name}, nopHandler); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}
	listed := r.List()
	if len(listed) != len(names) {
		t.Fatalf("List() count = %d, want %d", len(listed), len(names))
	}
	for i, name := range names {
		if listed[i].Name != name {
			t.Fatalf("List()[%d] = %q, want %q", i, listed[i].Name, name)
		}
	}
}

func TestRegistryMCPToolsSchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Descriptor{
		Name:        "get_political_events",
		Description: "events",
		Params: []ParamSpec{
			{Name: "year", Type: TypeString, Required: true, Description: "The year"},
			{Name: "impact_level", Type: TypeString, Default: "all"},
		},
	}, nopHandler)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tools := r.MCPTools()
	if len(tools) != 1 {
		t.Fatalf("tool count = %d, want 1", len(tools))
	}
	schema := tools[0].InputSchema
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v, want object", schema["type"])
	}
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties type = %T", schema["properties"])
	}
	yearProp, ok := properties["year"].(map[string]any)
	if !ok {
		t.Fatal("year property missing")
	}
	if yearProp["type"] != TypeString {
		t.Fatalf("year type = %v", yearProp["type"])
	}
	impactProp, ok := properties["impact_level"].(map[string]any)
	if !ok {
		t.Fatal("impact_level property missing")
	}
	if impactProp["default"] != "all" {
		t.Fatalf("impact_level default = %v, want all", impactProp["default"])
	}
	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("required type = %T", schema["required"])
	}
	if len(required) != 1 || required[0] != "year" {
		t.Fatalf("required = %v, want [year]", required)
	}
}
