package spindle

import "encoding/json"

// Tool declares a callable tool exposed to the model: a name, a human
// description, and a JSON Schema for its arguments. Tools with no arguments
// still carry an object schema with empty properties; some providers reject
// declarations with a missing schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// EmptyParameters is the schema for a tool that takes no arguments.
var EmptyParameters = json.RawMessage(`{"type":"object","properties":{}}`)

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	// ID correlates this call with its eventual result. Unique within a
	// turn; providers may reuse ids across turns.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Arguments is the raw JSON argument text exactly as the model produced
	// it. It is preserved verbatim even when it fails to parse, so error
	// reports can quote it.
	Arguments string `json:"arguments"`
}

// ArgumentsMap parses the call's arguments into a generic map. An empty
// argument string parses as an empty map.
func (c ToolCall) ArgumentsMap() (map[string]any, error) {
	if c.Arguments == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(c.Arguments), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ToolResult is the outcome of one tool call, success or failure. Every
// observed ToolCall produces exactly one ToolResult with a matching
// ToolCallID.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	// IsError marks results produced from a failure: handler errors,
	// timeouts, rejected approvals, unparsable arguments, unknown tools.
	IsError bool `json:"isError,omitempty"`
}

// NewToolResultMessage wraps tool results into a tool-role message suitable
// for appending to a conversation history.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}

// ToolChoice controls whether the model may, must, or must not call tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide (the default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone forbids tool calls for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to call at least one tool.
	ToolChoiceRequired ToolChoice = "required"
)
