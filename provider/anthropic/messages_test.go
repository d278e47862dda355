package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
)

func TestConvertMessages(t *testing.T) {
	t.Run("system messages lift into top-level system blocks", func(t *testing.T) {
		msgs, system := convertMessages([]ai.Message{
			{Role: ai.RoleSystem, Content: "be brief"},
			{Role: ai.RoleUser, Content: "hi"},
		})

		require.Len(t, system, 1)
		assert.Equal(t, "be brief", system[0].Text)
		require.Len(t, msgs, 1)
	})

	t.Run("tool round trip uses tool_use and tool_result blocks", func(t *testing.T) {
		msgs, _ := convertMessages([]ai.Message{
			{Role: ai.RoleUser, Content: "weather in Paris?"},
			{
				Role: ai.RoleAssistant,
				ToolCalls: []ai.ToolCall{
					{ID: "toolu_01", Name: "get_weather", Arguments: `{"city":"Paris"}`},
				},
			},
			ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "toolu_01", Content: `{"temp":12}`, IsError: false}),
		})
		require.Len(t, msgs, 3)

		wire, err := json.Marshal(msgs[1])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"type":"tool_use"`)
		assert.Contains(t, string(wire), `"id":"toolu_01"`)
		assert.Contains(t, string(wire), `"name":"get_weather"`)

		// Tool results travel as user messages with tool_result blocks.
		wire, err = json.Marshal(msgs[2])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"role":"user"`)
		assert.Contains(t, string(wire), `"type":"tool_result"`)
		assert.Contains(t, string(wire), `"tool_use_id":"toolu_01"`)
	})

	t.Run("base64 image sheds any data URI prefix", func(t *testing.T) {
		msgs, _ := convertMessages([]ai.Message{{
			Role: ai.RoleUser,
			Attachments: []ai.Attachment{
				ai.NewImageDataAttachment("data:image/png;base64,aGVsbG8=", "image/png"),
			},
		}})
		require.Len(t, msgs, 1)

		wire, err := json.Marshal(msgs[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"data":"aGVsbG8="`)
		assert.Contains(t, string(wire), `"media_type":"image/png"`)
		assert.NotContains(t, string(wire), "data:image/png")
	})

	t.Run("empty content blocks are skipped", func(t *testing.T) {
		msgs, system := convertMessages([]ai.Message{
			{Role: ai.RoleSystem, Content: ""},
			{Role: ai.RoleUser, Content: ""},
			{Role: ai.RoleUser, Content: "hi"},
		})
		assert.Empty(t, system)
		assert.Len(t, msgs, 1)
	})
}

func TestConvertTools(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}`)
	params := convertTools([]ai.Tool{{Name: "get_weather", Description: "look up weather", Parameters: schema}})
	require.Len(t, params, 1)

	wire, err := json.Marshal(params[0])
	require.NoError(t, err)
	assert.Contains(t, string(wire), `"name":"get_weather"`)
	assert.Contains(t, string(wire), `"input_schema"`)
	assert.Contains(t, string(wire), `"required":["city"]`)
}
