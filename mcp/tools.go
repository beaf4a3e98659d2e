package mcp

import (
	"encoding/json"
	"sort"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"mcpchat/api"
)

// ConvertTools turns the tool descriptors reported by /mcp/initialize into
// MCP tool definitions.
//
// The backend's "parameters" field is free-form. Two shapes are accepted:
//
//	{"type": "object", "properties": {...}, "required": [...]}   // JSON Schema
//	{"query": {"type": "string"}, "limit": {"type": "integer"}}  // bare property map
//
// Anything else ends up as an object schema with no properties.
func ConvertTools(descriptors []api.ToolDescriptor) []mcptypes.Tool {
	tools := make([]mcptypes.Tool, 0, len(descriptors))

	for _, d := range descriptors {
		if d.Name == "" {
			continue
		}
		tools = append(tools, mcptypes.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: convertParameters(d.Parameters),
		})
	}

	return tools
}

func convertParameters(params map[string]any) mcptypes.ToolInputSchema {
	schema := mcptypes.ToolInputSchema{
		Type:       "object",
		Properties: make(map[string]any),
	}

	if len(params) == 0 {
		return schema
	}

	if !looksLikeSchema(params) {
		for name, prop := range params {
			schema.Properties[name] = prop
		}
		return schema
	}

	if t, ok := params["type"].(string); ok && t != "" {
		schema.Type = t
	}

	if props, ok := asMap(params["properties"]); ok {
		schema.Properties = props
	}

	schema.Required = stringSlice(params["required"])

	if defs, ok := asMap(params["$defs"]); ok {
		schema.Defs = defs
	}

	return schema
}

func looksLikeSchema(params map[string]any) bool {
	if _, ok := params["properties"]; ok {
		return true
	}
	_, ok := params["type"].(string)
	return ok
}

func asMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	// Typed maps from callers that did not go through encoding/json.
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(bytes, &m); err != nil {
		return nil, false
	}
	return m, true
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Signature renders a tool as name(required, optional?) with arguments
// sorted by name.
func Signature(tool mcptypes.Tool) string {
	required := make(map[string]bool, len(tool.InputSchema.Required))
	for _, r := range tool.InputSchema.Required {
		required[r] = true
	}

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, len(names))
	for i, name := range names {
		if required[name] {
			args[i] = name
		} else {
			args[i] = name + "?"
		}
	}

	return tool.Name + "(" + strings.Join(args, ", ") + ")"
}
