package tool

import (
	"context"

	"github.com/helios-engine/helios/internal/registry"
)

// Registry is an insertion-ordered, name-unique catalog of Tools.
// Registering a duplicate name replaces the prior entry in place, mirroring
// internal/registry.Registry's replace semantics.
type Registry struct {
	base *registry.Registry[Tool]
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{base: registry.New[Tool]()}
}

// Register adds or replaces a tool under its own Definition().Name.
func (r *Registry) Register(t Tool) error {
	def := t.Definition()
	if def.Name == "" {
		return &RegistryError{Action: "Register", Message: "tool definition name cannot be empty"}
	}
	return r.base.Register(def.Name, t)
}

// Get returns the tool registered under name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	return r.base.Get(name)
}

// Definitions returns every registered tool's schema, in insertion order —
// the list the Agent Loop sends the LLM transport on every call.
func (r *Registry) Definitions() []Definition {
	tools := r.base.List()
	defs := make([]Definition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return r.base.Count()
}

// Execute looks up name and runs it. It returns UnknownTool if no such tool
// is registered; otherwise it returns whatever the tool itself returns —
// including a Result{IsError: true} for tool-local failures, which the
// caller should fold into the conversation, not treat as a Go error.
func (r *Registry) Execute(ctx context.Context, name string, arguments map[string]any) (Result, error) {
	t, ok := r.base.Get(name)
	if !ok {
		return Result{}, &UnknownTool{Name: name}
	}
	return t.Execute(ctx, arguments)
}
