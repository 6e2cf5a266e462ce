// Package tool implements the operation registry and protocol dispatcher:
// named, schema-described operations are registered at startup and invoked
// through Dispatch, which validates arguments and wraps results or faults in
// protocol envelopes.
package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petal-labs/salescast/mcp"
)

// ErrDuplicateOperation is returned when a name is registered twice.
var ErrDuplicateOperation = errors.New("tool: operation already registered")

// Parameter type literals for descriptors.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
)

// ParamSpec declares one parameter of an operation.
type ParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Descriptor describes one registered operation. Immutable after
// registration.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
}

// Args is the validated, type-coerced argument map passed to handlers.
type Args map[string]any

// String returns the named argument as a string.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Handler executes one operation. Handlers must be pure and deterministic
// given their arguments; faults are recovered by the dispatcher.
type Handler func(ctx context.Context, args Args) (any, error)

type entry struct {
	descriptor Descriptor
	handler    Handler
}

// Registry maps operation names to descriptors and handlers. All
// registration happens during startup; afterwards the table is read-only,
// so concurrent lookups need no locking.
type Registry struct {
	entries map[string]*entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds an operation. The name must be unique.
func (r *Registry) Register(descriptor Descriptor, handler Handler) error {
	name := strings.TrimSpace(descriptor.Name)
	if name == "" {
		return errors.New("tool: operation name is empty")
	}
	if handler == nil {
		return fmt.Errorf("tool: operation %q has nil handler", name)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, name)
	}
	for _, spec := range descriptor.Params {
		if !isValidParamType(spec.Type) {
			return fmt.Errorf("tool: operation %q parameter %q has unsupported type %q", name, spec.Name, spec.Type)
		}
	}
	descriptor.Name = name
	r.entries[name] = &entry{descriptor: descriptor, handler: handler}
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the descriptor and handler for a name.
func (r *Registry) Lookup(name string) (Descriptor, Handler, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Descriptor{}, nil, false
	}
	return e.descriptor, e.handler, true
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].descriptor)
	}
	return out
}

// MCPTools renders the registry listing in tools/list wire shape.
func (r *Registry) MCPTools() []mcp.Tool {
	descriptors := r.List()
	tools := make([]mcp.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		properties := make(map[string]any, len(d.Params))
		required := make([]string, 0, len(d.Params))
		for _, spec := range d.Params {
			prop := map[string]any{"type": spec.Type}
			if spec.Description != "" {
				prop["description"] = spec.Description
			}
			if spec.Default != nil {
				prop["default"] = spec.Default
			}
			properties[spec.Name] = prop
			if spec.Required {
				required = append(required, spec.Name)
			}
		}
		tools = append(tools, mcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		})
	}
	return tools
}

func isValidParamType(t string) bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean:
		return true
	default:
		return false
	}
}
