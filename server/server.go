// Package server implements the tool registry, shared session state and the
// JSON-RPC dispatcher that routes tools/list and tools/call to tool handlers.
package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inferenco/inferenco-mcp/schema"
)

var (
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrInvalidTool is returned when a tool descriptor is incomplete.
	ErrInvalidTool = errors.New("invalid tool")
)

// Info contains server metadata exposed to clients during initialize.
type Info struct {
	Name         string
	Version      string
	Instructions string
}

// ToolInfo is the listing form of a registered tool.
type ToolInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	InputSchema *schema.Schema   `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// Registry maps tool names to descriptors. Tools keep their registration
// order, which is the order tools/list reports.
type Registry struct {
	mu    sync.RWMutex
	order []*Tool
	index map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Tool),
	}
}

// Register adds a tool. The descriptor is copied; later changes to t have no
// effect on the registry.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTool)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: tool %q has no handler", ErrInvalidTool, t.Name)
	}
	if t.InputSchema == nil {
		t.InputSchema = schema.Object()
	}
	if t.InputSchema.Type != schema.TypeObject {
		return fmt.Errorf("%w: tool %q input schema must be an object", ErrInvalidTool, t.Name)
	}
	if err := t.InputSchema.Compile(); err != nil {
		return fmt.Errorf("%w: tool %q: %v", ErrInvalidTool, t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[t.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, t.Name)
	}

	tool := t
	r.order = append(r.order, &tool)
	r.index[tool.Name] = &tool
	return nil
}

// Resolve retrieves a tool by name.
func (r *Registry) Resolve(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.index[name]
	return t, ok
}

// List returns info about all registered tools in registration order.
func (r *Registry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ToolInfo, 0, len(r.order))
	for _, t := range r.order {
		result = append(result, t.info())
	}
	return result
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, t := range r.order {
		names = append(names, t.Name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
