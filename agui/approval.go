package agui

import (
	"encoding/json"

	"github.com/spindleworks/spindle/agent"
)

// ApprovalInput is an approval decision posted by an AG-UI frontend in
// response to a pending tool call.
type ApprovalInput struct {
	ToolCallID string `json:"toolCallId"`
	Approved   bool   `json:"approved"`
	Reason     string `json:"reason,omitempty"`
}

// ParseApprovalInput decodes an approval decision from JSON.
func ParseApprovalInput(data []byte) (*ApprovalInput, error) {
	var input ApprovalInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// ToDecision converts the input to a broker decision.
func (a *ApprovalInput) ToDecision() agent.ApprovalDecision {
	return agent.ApprovalDecision{
		ToolCallID: a.ToolCallID,
		Approved:   a.Approved,
		Reason:     a.Reason,
	}
}

// HandleApproval delivers an approval input to the broker. Convenience for
// AG-UI server handlers.
func HandleApproval(broker *agent.ApprovalBroker, input *ApprovalInput) error {
	return broker.Decide(input.ToDecision())
}

// HandleApprovalJSON decodes and delivers a JSON-encoded approval input.
func HandleApprovalJSON(broker *agent.ApprovalBroker, data []byte) error {
	input, err := ParseApprovalInput(data)
	if err != nil {
		return err
	}
	return HandleApproval(broker, input)
}
