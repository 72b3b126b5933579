package tools

import (
	"fmt"

	"github.com/jyje/pilot-agent/internal/llm"
)

// entry pairs a registered tool with its enabled/disabled status.
type entry struct {
	tool    llm.Tool
	enabled bool
}

// Registry is the local tool registry. It holds tool entries keyed by
// name; callers may rely on snapshot semantics from GetEnabled because
// there is no concurrent mutation after session start.
type Registry struct {
	tools map[string]*entry
	order []string
}

// NewRegistry creates an empty local tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*entry)}
}

// Register adds a tool, enabled by default. Registering a name twice is an
// error.
func (r *Registry) Register(tool llm.Tool) error {
	name := tool.Spec().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}
	r.tools[name] = &entry{tool: tool, enabled: true}
	r.order = append(r.order, name)
	return nil
}

// Enable marks a registered tool as enabled.
func (r *Registry) Enable(name string) error {
	e, ok := r.tools[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	e.enabled = true
	return nil
}

// Disable marks a registered tool as disabled; it stays in the registry but
// is excluded from GetEnabled.
func (r *Registry) Disable(name string) error {
	e, ok := r.tools[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	e.enabled = false
	return nil
}

// Get returns the tool registered under name, regardless of enabled state.
func (r *Registry) Get(name string) (llm.Tool, bool) {
	e, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return e.tool, true
}

// GetEnabled returns enabled tools in registration order.
func (r *Registry) GetEnabled() []llm.Tool {
	out := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		if e := r.tools[name]; e.enabled {
			out = append(out, e.tool)
		}
	}
	return out
}

// Status is a tool name paired with its enabled/disabled state, as returned
// by List.
type Status struct {
	Name    string
	Enabled bool
}

// List returns every registered tool's name and status, in registration
// order.
func (r *Registry) List() []Status {
	out := make([]Status, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Status{Name: name, Enabled: r.tools[name].enabled})
	}
	return out
}
