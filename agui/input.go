package agui

import (
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spindleworks/spindle"
)

// RunAgentInput is the AG-UI protocol request for running an agent. It
// mirrors the protocol shape and is transport-agnostic.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// PreparedInput is validated, converted input ready for a run.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Messages []ai.Message
	Tools    []Tool
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the input and converts it to run types. Returns
// ErrNoMessages if Messages is empty, or an error if tool parsing fails.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	messages := ToMessages(r.Messages)
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	result := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Messages: messages,
	}

	if len(r.Tools) > 0 {
		tools, err := ParseTools(r.Tools)
		if err != nil {
			return nil, err
		}
		result.Tools = tools
	}

	return result, nil
}

// RunTools converts the parsed frontend tools to their provider-facing
// form. Returns nil if none were sent.
func (p *PreparedInput) RunTools() []ai.Tool {
	return ToTools(p.Tools)
}
