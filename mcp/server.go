package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/tool"
)

// ServerOption configures the MCP server identity.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer exposes a tool.Source to MCP clients. Every declaration the
// source advertises becomes an MCP tool whose calls are dispatched through
// the source's Execute.
func NewServer(source tool.Source, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "spindle-tools",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(cfg.name, cfg.version, server.WithToolCapabilities(true))
	for _, t := range source.Tools() {
		s.AddTool(ToMCPTool(t), sourceHandler(source, t.Name))
	}
	return s
}

// ServeStdio runs an MCP server for the source over stdin/stdout, the
// standard transport for subprocess servers.
func ServeStdio(source tool.Source, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(source, opts...))
}

func sourceHandler(source tool.Source, name string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := ai.ToolCall{Name: name, Arguments: marshalArguments(req)}
		result, err := source.Execute(ctx, call)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(result), nil
	}
}

func marshalArguments(req mcp.CallToolRequest) string {
	if req.Params.Arguments == nil {
		return "{}"
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return "{}"
	}
	return string(data)
}
