package mcp

import (
	"reflect"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"mcpchat/api"
)

func TestConvertTools(t *testing.T) {
	tests := []struct {
		name     string
		input    []api.ToolDescriptor
		expected int
		validate func(t *testing.T, result []mcptypes.Tool)
	}{
		{
			name:     "no tools",
			input:    nil,
			expected: 0,
		},
		{
			name:     "nameless descriptors are skipped",
			input:    []api.ToolDescriptor{{Description: "orphan"}},
			expected: 0,
		},
		{
			name:     "no parameters",
			input:    []api.ToolDescriptor{{Name: "ping"}},
			expected: 1,
			validate: func(t *testing.T, result []mcptypes.Tool) {
				if result[0].InputSchema.Type != "object" {
					t.Errorf("expected object schema, got %q", result[0].InputSchema.Type)
				}
				if result[0].InputSchema.Properties == nil {
					t.Error("properties should be an empty map, not nil")
				}
			},
		},
		{
			name: "json schema parameters",
			input: []api.ToolDescriptor{{
				Name:        "search",
				Description: "Web search",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{"type": "string"},
						"limit": map[string]any{"type": "integer"},
					},
					"required": []any{"query"},
					"$defs":    map[string]any{"x": map[string]any{"type": "string"}},
				},
			}},
			expected: 1,
			validate: func(t *testing.T, result []mcptypes.Tool) {
				tool := result[0]
				if tool.Description != "Web search" {
					t.Errorf("description: got %q", tool.Description)
				}
				if len(tool.InputSchema.Properties) != 2 {
					t.Errorf("expected 2 properties, got %d", len(tool.InputSchema.Properties))
				}
				if !reflect.DeepEqual(tool.InputSchema.Required, []string{"query"}) {
					t.Errorf("required: got %v", tool.InputSchema.Required)
				}
				if tool.InputSchema.Defs == nil {
					t.Error("expected $defs to be carried over")
				}
			},
		},
		{
			name: "bare property map",
			input: []api.ToolDescriptor{{
				Name: "read_file",
				Parameters: map[string]any{
					"path": map[string]any{"type": "string"},
				},
			}},
			expected: 1,
			validate: func(t *testing.T, result []mcptypes.Tool) {
				props := result[0].InputSchema.Properties
				if _, ok := props["path"]; !ok {
					t.Errorf("expected path property, got %v", props)
				}
				if len(result[0].InputSchema.Required) != 0 {
					t.Errorf("bare maps carry no required list, got %v", result[0].InputSchema.Required)
				}
			},
		},
		{
			name: "typed nested map",
			input: []api.ToolDescriptor{{
				Name: "typed",
				Parameters: map[string]any{
					"properties": map[string]map[string]string{
						"q": {"type": "string"},
					},
					"required": []string{"q"},
				},
			}},
			expected: 1,
			validate: func(t *testing.T, result []mcptypes.Tool) {
				if _, ok := result[0].InputSchema.Properties["q"]; !ok {
					t.Errorf("expected q property, got %v", result[0].InputSchema.Properties)
				}
				if !reflect.DeepEqual(result[0].InputSchema.Required, []string{"q"}) {
					t.Errorf("required: got %v", result[0].InputSchema.Required)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertTools(tt.input)
			if len(result) != tt.expected {
				t.Fatalf("expected %d tools, got %d", tt.expected, len(result))
			}
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	tool := mcptypes.Tool{
		Name: "search",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{},
				"limit": map[string]any{},
				"lang":  map[string]any{},
			},
			Required: []string{"query"},
		},
	}

	if got, want := Signature(tool), "search(lang?, limit?, query)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	empty := mcptypes.Tool{Name: "ping"}
	if got := Signature(empty); got != "ping()" {
		t.Errorf("got %q, want ping()", got)
	}
}
