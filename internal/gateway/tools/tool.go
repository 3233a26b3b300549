package tools

import (
	"context"
	"encoding/json"
)

// ToolDefinition describes a tool with its name, description, and input schema
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Handler processes a tool invocation and returns the text content of the result
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// ToolDescriptor is returned by the tool listing
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// CallRequest represents the params of a tools/call request
type CallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}
