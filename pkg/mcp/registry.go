package mcp

import (
	"fmt"
	"math"
)

// ToolHandler takes validated arguments and returns the tool's result
// mapping, later serialized into the response content block.
type ToolHandler func(args map[string]any) (any, error)

// Registry holds the authoritative list of callable tools. Tools are
// registered once at startup and listed in insertion order.
type Registry struct {
	tools    []Tool
	handlers map[string]ToolHandler
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]ToolHandler),
	}
}

// RegisterTool stores a tool and its handler under the tool's name.
// Registering the same name twice is a startup bug and returns an error.
func (r *Registry) RegisterTool(tool Tool, handler ToolHandler) error {
	if _, exists := r.handlers[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	r.tools = append(r.tools, tool)
	r.handlers[tool.Name] = handler
	return nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	return r.tools
}

// Resolve looks up a tool by exact name.
func (r *Registry) Resolve(name string) (ToolHandler, Tool, bool) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, Tool{}, false
	}
	for _, tool := range r.tools {
		if tool.Name == name {
			return handler, tool, true
		}
	}
	return nil, Tool{}, false
}

// ValidateArguments checks an argument bag against a tool's declared
// schema: unknown keys are rejected (closed set), declared-required keys
// must be present, enum values must be in range, and primitives must
// match their declared type.
func ValidateArguments(tool Tool, args map[string]any) error {
	for key := range args {
		if _, ok := tool.InputSchema.Properties[key]; !ok {
			return fmt.Errorf("unknown argument %q for tool %q", key, tool.Name)
		}
	}
	for _, required := range tool.InputSchema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required argument %q for tool %q", required, tool.Name)
		}
	}
	for key, value := range args {
		prop := tool.InputSchema.Properties[key]
		if err := checkProperty(key, prop, value); err != nil {
			return err
		}
	}
	return nil
}

func checkProperty(key string, prop Property, value any) error {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", key)
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, s) {
			return fmt.Errorf("argument %q must be one of %v", key, prop.Enum)
		}
	case "integer":
		switch n := value.(type) {
		case float64:
			// JSON numbers decode as float64; accept integral values only.
			if n != math.Trunc(n) {
				return fmt.Errorf("argument %q must be an integer", key)
			}
		case int, int64:
		default:
			return fmt.Errorf("argument %q must be an integer", key)
		}
	}
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
