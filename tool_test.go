package spindle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCallArgumentsMap(t *testing.T) {
	t.Run("parses valid arguments", func(t *testing.T) {
		call := ToolCall{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Paris","days":3}`}
		args, err := call.ArgumentsMap()
		require.NoError(t, err)
		assert.Equal(t, "Paris", args["city"])
		assert.EqualValues(t, 3, args["days"])
	})

	t.Run("empty arguments parse as empty map", func(t *testing.T) {
		args, err := ToolCall{}.ArgumentsMap()
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("malformed arguments return an error and keep the raw text", func(t *testing.T) {
		call := ToolCall{Arguments: `{"city": `}
		_, err := call.ArgumentsMap()
		assert.Error(t, err)
		assert.Equal(t, `{"city": `, call.Arguments)
	})
}

func TestNewToolResultMessage(t *testing.T) {
	msg := NewToolResultMessage(
		ToolResult{ToolCallID: "call_1", Content: `{"temp":12}`},
		ToolResult{ToolCallID: "call_2", Content: "not found", IsError: true},
	)

	assert.Equal(t, RoleTool, msg.Role)
	require.Len(t, msg.ToolResults, 2)
	assert.Equal(t, "call_1", msg.ToolResults[0].ToolCallID)
	assert.True(t, msg.ToolResults[1].IsError)
}

func TestEmptyParameters(t *testing.T) {
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(EmptyParameters))
}

func TestMessageHelpers(t *testing.T) {
	t.Run("AssistantMessage preserves tool calls", func(t *testing.T) {
		resp := &Response{
			Content:   "checking",
			ToolCalls: []ToolCall{{ID: "call_1", Name: "get_weather"}},
		}
		msg := AssistantMessage(resp)
		assert.Equal(t, RoleAssistant, msg.Role)
		assert.Equal(t, "checking", msg.Content)
		assert.Equal(t, resp.ToolCalls, msg.ToolCalls)
	})

	t.Run("AssistantMessage tolerates nil response", func(t *testing.T) {
		msg := AssistantMessage(nil)
		assert.Equal(t, RoleAssistant, msg.Role)
		assert.Empty(t, msg.Content)
	})

	t.Run("usage accumulates", func(t *testing.T) {
		var total Usage
		total.Add(Usage{InputTokens: 10, OutputTokens: 5})
		total.Add(Usage{InputTokens: 7, OutputTokens: 2})
		assert.Equal(t, Usage{InputTokens: 17, OutputTokens: 7}, total)
	})
}
