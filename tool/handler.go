package tool

import (
	"context"

	ai "github.com/spindleworks/spindle"
)

// Handler executes one tool call and returns the result content. The
// context carries the per-execution timeout and run cancellation.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call whose JSON arguments have been
// unmarshalled into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Source is the surface the agent loop consumes tools through: a
// declaration list for the provider request and an executor for the calls
// the model makes. Registry implements it locally; remote registries (MCP)
// implement it by proxying.
type Source interface {
	// Tools returns the declarations to advertise to the model.
	Tools() []ai.Tool
	// Execute runs one call to completion. Handler failures are absorbed
	// into the returned result; an error return means the call could not
	// be dispatched at all.
	Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error)
}
