package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spindleworks/spindle"
)

// convertMessages maps canonical messages onto the messages API shapes.
// System messages are lifted out into top-level system blocks. Tool results
// travel as user messages carrying tool_result blocks. Empty text blocks
// are skipped; the API rejects them.
func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
		case ai.RoleUser:
			if msg.HasAttachments() {
				blocks := convertAttachments(msg.Attachments)
				if len(blocks) > 0 {
					result = append(result, anthropic.MessageParam{
						Role:    anthropic.MessageParamRoleUser,
						Content: blocks,
					})
				}
			} else if msg.Content != "" {
				result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
			}
		case ai.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				var blocks []anthropic.ContentBlockParamUnion
				if msg.Content != "" {
					blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
				}
				for _, tc := range msg.ToolCalls {
					var input any
					json.Unmarshal([]byte(tc.Arguments), &input)
					blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
				}
				result = append(result, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: blocks,
				})
			} else if msg.Content != "" {
				result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			}
		case ai.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for _, tr := range msg.ToolResults {
				blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
			}
			if len(blocks) > 0 {
				result = append(result, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleUser,
					Content: blocks,
				})
			}
		default:
			if msg.Content != "" {
				result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
			}
		}
	}

	return result, system
}

func convertAttachments(attachments []ai.Attachment) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, att := range attachments {
		switch att.Kind {
		case ai.AttachmentText:
			if att.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(att.Text))
			}
		case ai.AttachmentImage:
			if att.URL != "" {
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{
					URL: att.URL,
				}))
			} else if att.Data != "" {
				mediaType := att.MimeType
				if mediaType == "" {
					mediaType = "image/jpeg"
				}
				// The base64 source wants raw base64, not a data URI.
				data := att.Data
				if idx := strings.Index(data, ";base64,"); strings.HasPrefix(data, "data:") && idx >= 0 {
					data = data[idx+len(";base64,"):]
				}
				blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, data))
			}
		}
	}
	return blocks
}
