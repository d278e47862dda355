package spindle

import "github.com/google/uuid"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// AttachmentKind identifies the type of a multimodal attachment.
type AttachmentKind string

const (
	AttachmentText  AttachmentKind = "text"
	AttachmentImage AttachmentKind = "image"
)

// Attachment is one part of a multimodal message. Text attachments carry
// Text; image attachments carry either a URL or base64 Data with a MimeType.
// Data never includes a data-URI prefix; adapters add or strip it as their
// wire format requires.
type Attachment struct {
	Kind AttachmentKind `json:"kind"`
	// Text holds the text content when Kind is "text".
	Text string `json:"text,omitempty"`
	// URL points at a remotely hosted image. Mutually exclusive with Data.
	URL string `json:"url,omitempty"`
	// Data holds raw base64 image bytes. Mutually exclusive with URL.
	Data string `json:"data,omitempty"`
	// MimeType is required with Data (e.g. "image/png"), optional with URL.
	MimeType string `json:"mimeType,omitempty"`
}

// NewTextAttachment creates a text attachment.
func NewTextAttachment(text string) Attachment {
	return Attachment{Kind: AttachmentText, Text: text}
}

// NewImageAttachment creates an image attachment referencing a URL.
func NewImageAttachment(url string) Attachment {
	return Attachment{Kind: AttachmentImage, URL: url}
}

// NewImageDataAttachment creates an image attachment from base64 data.
func NewImageDataAttachment(data, mimeType string) Attachment {
	return Attachment{Kind: AttachmentImage, Data: data, MimeType: mimeType}
}

// Message is a single entry in a conversation history. Histories are
// append-only: the engine never reorders or rewrites messages it has
// already appended.
type Message struct {
	// ID is an optional unique identifier, used for correlation across
	// transports. Generated lazily where a transport requires one.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Attachments carries multimodal parts. When populated, providers that
	// support multimodal input prefer it over Content.
	Attachments []Attachment `json:"attachments,omitempty"`
	// ToolCalls holds tool invocation requests on assistant messages.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolResults holds execution results on tool messages.
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// NewMessageID creates a unique message identifier.
func NewMessageID() string {
	return "msg-" + uuid.New().String()
}

// HasAttachments reports whether the message carries multimodal parts.
func (m Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// UserMessage builds a plain-text user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AssistantMessage builds an assistant message from a provider response,
// preserving any tool calls the model declared.
func AssistantMessage(resp *Response) Message {
	if resp == nil {
		return Message{Role: RoleAssistant}
	}
	return Message{
		Role:      RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	}
}

// Response is a complete turn from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls contains the tool invocations the model requested this
	// turn, in declaration order.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// Usage holds token accounting for a single provider request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add accumulates another request's usage into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
