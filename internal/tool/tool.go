package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Tool is an executable capability the agent can invoke from a plan step.
//
// ExecuteWithContext receives the per-turn execution context so a tool can
// read the textual output of earlier steps; tools with no cross-step
// dependency just delegate to Execute.
type Tool interface {
	Name() string
	Description() string
	ParameterHints() map[string]string
	Execute(params map[string]interface{}) (string, error)
	ExecuteWithContext(params map[string]interface{}, context map[string]interface{}) (string, error)
}

// ResultKey returns the execution-context key under which a tool's output is
// stored for later steps.
func ResultKey(toolName string) string {
	return toolName + "_result"
}

// floatParam converts an untyped JSON value to float64, failing explicitly
// on anything that is not a number or a numeric string.
func floatParam(name string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q is not numeric: %v", name, v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q is not numeric: %q", name, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("parameter %q has unsupported type %T", name, v)
	}
}

// stringParam converts an untyped JSON value to a string, or returns def
// when the value is absent.
func stringParam(v interface{}, def string) string {
	if v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
