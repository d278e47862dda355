package openai

import (
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	ai "github.com/spindleworks/spindle"
)

// convertMessages maps canonical messages onto the chat.completions message
// union. A non-empty systemPrompt becomes a leading system message. Tool
// results expand to one tool-role message each, keyed by tool_call_id.
func convertMessages(messages []ai.Message, systemPrompt string) ([]openai.ChatCompletionMessageParamUnion, error) {
	var result []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		result = append(result, openai.SystemMessage(systemPrompt))
	}

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content != "" {
				result = append(result, openai.SystemMessage(msg.Content))
			}
		case ai.RoleUser:
			if msg.HasAttachments() {
				parts, err := convertAttachments(msg.Attachments)
				if err != nil {
					return nil, err
				}
				if len(parts) > 0 {
					result = append(result, openai.ChatCompletionMessageParamUnion{
						OfUser: &openai.ChatCompletionUserMessageParam{
							Content: openai.ChatCompletionUserMessageParamContentUnion{
								OfArrayOfContentParts: parts,
							},
						},
					})
				}
			} else if msg.Content != "" {
				result = append(result, openai.UserMessage(msg.Content))
			}
		case ai.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					}
				}
				assistantMsg := openai.ChatCompletionAssistantMessageParam{
					ToolCalls: toolCalls,
				}
				if msg.Content != "" {
					assistantMsg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					}
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &assistantMsg,
				})
			} else if msg.Content != "" {
				result = append(result, openai.AssistantMessage(msg.Content))
			}
		case ai.RoleTool:
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ToolMessage(tr.Content, tr.ToolCallID))
			}
		default:
			if msg.Content != "" {
				result = append(result, openai.UserMessage(msg.Content))
			}
		}
	}
	return result, nil
}

func convertAttachments(attachments []ai.Attachment) ([]openai.ChatCompletionContentPartUnionParam, error) {
	var result []openai.ChatCompletionContentPartUnionParam
	for _, att := range attachments {
		switch att.Kind {
		case ai.AttachmentText:
			if att.Text != "" {
				result = append(result, openai.TextContentPart(att.Text))
			}
		case ai.AttachmentImage:
			url := att.URL
			if att.Data != "" {
				if strings.HasPrefix(att.Data, "data:") {
					// Already a data URI; pass through as-is.
					url = att.Data
				} else {
					// Wire format wants base64 images as data URIs.
					mimeType := att.MimeType
					if mimeType == "" {
						mimeType = "image/jpeg"
					}
					url = fmt.Sprintf("data:%s;base64,%s", mimeType, att.Data)
				}
			}
			if url != "" {
				result = append(result, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: url,
				}))
			}
		default:
			return nil, fmt.Errorf("unsupported attachment kind %q", att.Kind)
		}
	}
	return result, nil
}
