package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
	"github.com/samber/lo"
)

// Registry manages tool definitions and dispatches tool calls
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]*toolEntry
	ordering []string // registration order, kept for the tool listing
}

type toolEntry struct {
	def     ToolDefinition
	handler Handler
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*toolEntry),
	}
}

// Register adds a tool definition and handler to the registry
func (r *Registry) Register(def ToolDefinition, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %s already registered", def.Name)
	}

	r.tools[def.Name] = &toolEntry{def: def, handler: handler}
	r.ordering = append(r.ordering, def.Name)

	return nil
}

// MustRegister registers a tool or panics on error (for init-time registration)
func (r *Registry) MustRegister(def ToolDefinition, handler Handler) {
	if err := r.Register(def, handler); err != nil {
		panic(err)
	}
}

// List returns all registered tool descriptors in registration order
func (r *Registry) List() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.ordering, func(name string, _ int) ToolDescriptor {
		def := r.tools[name].def
		return ToolDescriptor{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
	})
}

// Call executes a tool by name and wraps its text in a single content item
func (r *Registry) Call(ctx context.Context, req CallRequest) (jsonrpc.ToolCallResult, error) {
	r.mu.RLock()
	entry, exists := r.tools[req.Name]
	r.mu.RUnlock()

	if !exists {
		return jsonrpc.ToolCallResult{}, NewToolError(ErrCodeMethodNotFound, fmt.Sprintf("Tool not found: %s", req.Name))
	}

	args := req.Arguments
	if len(args) == 0 {
		args = []byte("{}")
	}

	text, err := entry.handler(ctx, args)
	if err != nil {
		return jsonrpc.ToolCallResult{}, err
	}

	return jsonrpc.ToolCallResult{
		Content: []jsonrpc.ContentItem{{Type: "text", Text: text}},
	}, nil
}
