package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
)

func TestConvertMessages(t *testing.T) {
	t.Run("full tool round trip keeps ids and raw arguments", func(t *testing.T) {
		history := []ai.Message{
			{Role: ai.RoleUser, Content: "weather in Paris?"},
			{
				Role:    ai.RoleAssistant,
				Content: "checking",
				ToolCalls: []ai.ToolCall{
					{ID: "call_abc", Name: "get_weather", Arguments: `{"city":"Paris"}`},
				},
			},
			ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_abc", Content: `{"temp":12}`}),
		}

		converted, err := convertMessages(history, "you are helpful")
		require.NoError(t, err)
		require.Len(t, converted, 4)

		// System prompt leads as a system message.
		wire, err := json.Marshal(converted[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"role":"system","content":"you are helpful"}`, string(wire))

		// Assistant tool calls carry the wire field names the API expects.
		wire, err = json.Marshal(converted[2])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"tool_calls"`)
		assert.Contains(t, string(wire), `"id":"call_abc"`)
		assert.Contains(t, string(wire), `"arguments":"{\"city\":\"Paris\"}"`)

		// Tool results become tool-role messages keyed by tool_call_id.
		wire, err = json.Marshal(converted[3])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"role":"tool"`)
		assert.Contains(t, string(wire), `"tool_call_id":"call_abc"`)
	})

	t.Run("base64 image gains a data URI prefix", func(t *testing.T) {
		msgs := []ai.Message{{
			Role: ai.RoleUser,
			Attachments: []ai.Attachment{
				ai.NewTextAttachment("what is this?"),
				ai.NewImageDataAttachment("aGVsbG8=", "image/png"),
			},
		}}

		converted, err := convertMessages(msgs, "")
		require.NoError(t, err)
		require.Len(t, converted, 1)

		wire, err := json.Marshal(converted[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"image_url"`)
		assert.Contains(t, string(wire), "data:image/png;base64,aGVsbG8=")
	})

	t.Run("data URI payloads are not double-prefixed", func(t *testing.T) {
		msgs := []ai.Message{{
			Role: ai.RoleUser,
			Attachments: []ai.Attachment{
				ai.NewImageDataAttachment("data:image/png;base64,aGVsbG8=", "image/png"),
			},
		}}

		converted, err := convertMessages(msgs, "")
		require.NoError(t, err)

		wire, err := json.Marshal(converted[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), "data:image/png;base64,aGVsbG8=")
		assert.NotContains(t, string(wire), "base64,data:")
	})

	t.Run("remote image URLs pass through untouched", func(t *testing.T) {
		msgs := []ai.Message{{
			Role:        ai.RoleUser,
			Attachments: []ai.Attachment{ai.NewImageAttachment("https://example.com/cat.png")},
		}}

		converted, err := convertMessages(msgs, "")
		require.NoError(t, err)
		wire, err := json.Marshal(converted[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), "https://example.com/cat.png")
	})

	t.Run("unknown attachment kind is an error", func(t *testing.T) {
		msgs := []ai.Message{{
			Role:        ai.RoleUser,
			Attachments: []ai.Attachment{{Kind: "audio"}},
		}}
		_, err := convertMessages(msgs, "")
		assert.Error(t, err)
	})
}

func TestConvertTools(t *testing.T) {
	t.Run("schemaless tool still declares an object schema", func(t *testing.T) {
		params := convertTools([]ai.Tool{{Name: "ping", Description: "ping it"}})
		require.Len(t, params, 1)

		wire, err := json.Marshal(params[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"name":"ping"`)
		assert.Contains(t, string(wire), `"type":"object"`)
	})

	t.Run("declared schema is preserved", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}`)
		params := convertTools([]ai.Tool{{Name: "get_weather", Parameters: schema}})

		wire, err := json.Marshal(params[0])
		require.NoError(t, err)
		assert.Contains(t, string(wire), `"city"`)
		assert.Contains(t, string(wire), `"required"`)
	})
}
