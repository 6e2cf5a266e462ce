package tool

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// validateArgs checks supplied arguments against the descriptor and returns
// the coerced argument map. On violation it returns an INVALID_ARGUMENTS
// error naming every offending parameter.
func validateArgs(descriptor Descriptor, supplied map[string]any) (Args, *ToolError) {
	specs := make(map[string]ParamSpec, len(descriptor.Params))
	for _, spec := range descriptor.Params {
		specs[spec.Name] = spec
	}

	var bad []string
	var reasons []string
	args := make(Args, len(descriptor.Params))

	for name := range supplied {
		if _, known := specs[name]; !known {
			bad = append(bad, name)
			reasons = append(reasons, fmt.Sprintf("%s: unknown parameter", name))
		}
	}

	for _, spec := range descriptor.Params {
		raw, present := supplied[spec.Name]
		if !present || raw == nil {
			if spec.Required {
				bad = append(bad, spec.Name)
				reasons = append(reasons, fmt.Sprintf("%s: required parameter missing", spec.Name))
				continue
			}
			if spec.Default != nil {
				args[spec.Name] = spec.Default
			}
			continue
		}
		coerced, err := coerceValue(spec.Type, raw)
		if err != nil {
			bad = append(bad, spec.Name)
			reasons = append(reasons, fmt.Sprintf("%s: %v", spec.Name, err))
			continue
		}
		args[spec.Name] = coerced
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &ToolError{
			Code:    ErrorCodeInvalidArguments,
			Message: fmt.Sprintf("invalid arguments for %q: %s", descriptor.Name, strings.Join(reasons, "; ")),
			Params:  bad,
		}
	}
	return args, nil
}

// coerceValue converts a decoded JSON value into the declared parameter
// type. JSON decoding yields float64 for all numbers, so integer parameters
// accept whole floats.
func coerceValue(paramType string, raw any) (any, error) {
	switch paramType {
	case TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", raw)
	case TypeInteger:
		switch v := raw.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", raw)
	case TypeFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("expected float, got %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("expected float, got %T", raw)
	case TypeBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", raw)
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", paramType)
	}
}
