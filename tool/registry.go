// Package tool holds the local tool registry and the Source interface the
// agent loop consumes tools through.
package tool

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	ai "github.com/spindleworks/spindle"
)

type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages named tools and their handlers. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler. Registering a name twice is an
// error.
func (r *Registry) Register(t ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: t.Name}
	}
	r.tools[t.Name] = registeredTool{tool: t, handler: handler}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(t ai.Tool, handler Handler) {
	if err := r.Register(t, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool. No-op when absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get returns the tool definition by name.
func (r *Registry) Get(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return ai.Tool{}, false
	}
	return rt.tool, true
}

// Tools returns all registered declarations, sorted by name so provider
// requests are stable.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for a call. An unknown tool returns
// ErrToolNotFound. Handler failures are absorbed into the result with
// IsError set so the model can see them and recover.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	content, err := rt.handler(ctx, call)
	if err != nil {
		return ai.ToolResult{
			ToolCallID: call.ID,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}
	return ai.ToolResult{
		ToolCallID: call.ID,
		Content:    content,
	}, nil
}

// RegisterFunc registers a tool with a typed handler; the parameter schema
// is generated from T's struct tags.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	schema, err := SchemaFor[T]()
	if err != nil {
		return err
	}
	return r.Register(ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}, wrapTyped(fn))
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := RegisterFunc(r, name, description, fn); err != nil {
		panic(err)
	}
}

func wrapTyped[T any](fn TypedHandler[T]) Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", err
			}
		}
		return fn(ctx, args)
	}
}

// Registration pairs a tool with its handler for fluent setup.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func builds a Registration from a typed handler, generating the schema
// from T. Panics if schema generation fails.
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Look up weather", weatherFn),
//	    tool.Func("get_time", "Current time", timeFn),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  MustSchemaFor[T](),
		},
		Handler: wrapTyped(fn),
	}
}

// WithTool builds a Registration from an existing declaration and handler.
func WithTool(t ai.Tool, h Handler) Registration {
	return Registration{Tool: t, Handler: h}
}

// Add registers registrations, panicking on duplicates. Returns the
// registry for chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}

var _ Source = (*Registry)(nil)
