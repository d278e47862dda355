package agui

import (
	"encoding/json"

	ai "github.com/spindleworks/spindle"
)

// Tool is a tool definition in AG-UI wire form. Frontends send these in
// RunAgentInput to declare capabilities the agent may call.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToTool converts the declaration to its provider-facing form.
func (t Tool) ToTool() ai.Tool {
	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// ParseTools types the Tools field of RunAgentInput, which unmarshals
// as []any.
func ParseTools(raw []any) ([]Tool, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var tools []Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// ToTools converts a slice of AG-UI tools.
func ToTools(tools []Tool) []ai.Tool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]ai.Tool, len(tools))
	for i, t := range tools {
		result[i] = t.ToTool()
	}
	return result
}
