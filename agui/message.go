package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spindleworks/spindle"
)

// Role constants matching the AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToMessages converts AG-UI messages to conversation messages.
func ToMessages(msgs []events.Message) []ai.Message {
	result := make([]ai.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToMessage(msg))
	}
	return result
}

// ToMessage converts a single AG-UI message.
func ToMessage(msg events.Message) ai.Message {
	m := ai.Message{
		ID:   msg.ID,
		Role: toRole(msg.Role),
	}

	if msg.Content != nil {
		m.Content = *msg.Content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]ai.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = ai.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
	}

	// An AG-UI tool message carries a single result.
	if msg.ToolCallID != nil && msg.Content != nil {
		m.ToolResults = []ai.ToolResult{{
			ToolCallID: *msg.ToolCallID,
			Content:    *msg.Content,
		}}
	}

	return m
}

// FromMessages converts conversation messages to AG-UI messages.
func FromMessages(msgs []ai.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromMessage(msg))
	}
	return result
}

// FromMessage converts a single conversation message. Messages without an
// id get a generated one.
func FromMessage(msg ai.Message) events.Message {
	id := msg.ID
	if id == "" {
		id = events.GenerateMessageID()
	}
	m := events.Message{
		ID:   id,
		Role: fromRole(msg.Role),
	}

	if msg.Content != "" {
		m.Content = &msg.Content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]events.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = events.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: events.Function{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			}
		}
	}

	// AG-UI tool messages hold one result each; a multi-result message
	// flattens to its first. Callers that need one message per result
	// should split before converting.
	if len(msg.ToolResults) > 0 {
		m.ToolCallID = &msg.ToolResults[0].ToolCallID
		m.Content = &msg.ToolResults[0].Content
	}

	return m
}

func toRole(role string) ai.Role {
	switch role {
	case RoleUser:
		return ai.RoleUser
	case RoleAssistant:
		return ai.RoleAssistant
	case RoleSystem:
		return ai.RoleSystem
	case RoleTool:
		return ai.RoleTool
	default:
		return ai.RoleUser
	}
}

func fromRole(role ai.Role) string {
	switch role {
	case ai.RoleUser:
		return RoleUser
	case ai.RoleAssistant:
		return RoleAssistant
	case ai.RoleSystem:
		return RoleSystem
	case ai.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
