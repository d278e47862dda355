package mcp

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
)

func TestToMCPTool(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`)
	converted := ToMCPTool(ai.Tool{
		Name:        "get_weather",
		Description: "Look up weather",
		Parameters:  schema,
	})

	assert.Equal(t, "get_weather", converted.Name)
	assert.Equal(t, "Look up weather", converted.Description)
	assert.Equal(t, schema, converted.RawInputSchema)
}

func TestFromMCPTool(t *testing.T) {
	t.Run("raw schema is preferred", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object"}`)
		converted := FromMCPTool(mcp.NewToolWithRawSchema("weather", "Get weather", schema))

		assert.Equal(t, "weather", converted.Name)
		assert.JSONEq(t, `{"type":"object"}`, string(converted.Parameters))
	})

	t.Run("structured schema is marshalled", func(t *testing.T) {
		converted := FromMCPTool(mcp.NewTool("search",
			mcp.WithDescription("Search the web"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		))

		assert.Equal(t, "search", converted.Name)
		assert.NotNil(t, converted.Parameters)
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	t.Run("JSON arguments become a map", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{ID: "call_1", Name: "calc", Arguments: `{"a":10}`})

		assert.Equal(t, "calc", req.Params.Name)
		args, ok := req.Params.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(10), args["a"])
	})

	t.Run("empty arguments stay nil", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "noargs"})
		assert.Nil(t, req.Params.Arguments)
	})

	t.Run("non-JSON arguments pass through as text", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "raw", Arguments: `{"broken`})
		assert.Equal(t, `{"broken`, req.Params.Arguments)
	})
}

func TestFromMCPCallToolResult(t *testing.T) {
	t.Run("text result", func(t *testing.T) {
		result := FromMCPCallToolResult("call_1", mcp.NewToolResultText("hello"))
		assert.Equal(t, "call_1", result.ToolCallID)
		assert.Equal(t, "hello", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("error result", func(t *testing.T) {
		result := FromMCPCallToolResult("call_2", mcp.NewToolResultError("boom"))
		assert.True(t, result.IsError)
		assert.Equal(t, "boom", result.Content)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		result := FromMCPCallToolResult("call_3", nil)
		assert.True(t, result.IsError)
	})
}

func TestToMCPCallToolResult(t *testing.T) {
	ok := ToMCPCallToolResult(ai.ToolResult{ToolCallID: "c", Content: "fine"})
	assert.False(t, ok.IsError)

	bad := ToMCPCallToolResult(ai.ToolResult{ToolCallID: "c", Content: "nope", IsError: true})
	assert.True(t, bad.IsError)
}
