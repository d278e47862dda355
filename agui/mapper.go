// Package agui bridges run events to the AG-UI protocol so web frontends
// can render runs live: a stateful Mapper translates the event stream, and
// conversion helpers move messages, tools, and approval decisions across
// the protocol boundary.
package agui

import (
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spindleworks/spindle/event"
)

// Mapper translates run events into AG-UI events. The run stream carries
// bare text deltas, so the mapper synthesizes the AG-UI text-message
// lifecycle (start/content/end) around them; one run event can therefore
// produce several AG-UI events. Not safe for concurrent use: create one
// Mapper per run.
type Mapper struct {
	threadID      string
	runID         string
	openMessageID string
}

// NewMapper creates a mapper for a single run. Empty ids are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{threadID: threadID, runID: runID}
}

// ThreadID returns the mapper's thread id.
func (m *Mapper) ThreadID() string { return m.threadID }

// RunID returns the mapper's run id.
func (m *Mapper) RunID() string { return m.runID }

// MapEvent translates one run event into zero or more AG-UI events, in
// emission order.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	case event.RunStart:
		return []events.Event{events.NewRunStartedEvent(m.threadID, m.runID)}

	case event.Done:
		return append(m.closeMessage(), events.NewRunFinishedEvent(m.threadID, m.runID))

	case event.Error:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return append(m.closeMessage(), events.NewRunErrorEvent(msg))

	case event.TurnStart:
		return []events.Event{events.NewStepStartedEvent(turnName(e.Iteration))}

	case event.TurnEnd:
		return append(m.closeMessage(), events.NewStepFinishedEvent(turnName(e.Iteration)))

	case event.TextDelta:
		var out []events.Event
		if m.openMessageID != e.MessageID {
			out = m.closeMessage()
			out = append(out, events.NewTextMessageStartEvent(e.MessageID, events.WithRole(RoleAssistant)))
			m.openMessageID = e.MessageID
		}
		return append(out, events.NewTextMessageContentEvent(e.MessageID, e.Delta))

	case event.ToolCallStart:
		return []events.Event{events.NewToolCallStartEvent(e.ToolCallID, e.ToolName)}

	case event.ToolCallArgsDelta:
		return []events.Event{events.NewToolCallArgsEvent(e.ToolCallID, e.ArgsDelta)}

	case event.ToolCallComplete:
		return []events.Event{events.NewToolCallEndEvent(e.ToolCallID)}

	case event.ToolCallResult:
		if e.ToolResult == nil {
			return nil
		}
		return []events.Event{events.NewToolCallResultEvent(events.GenerateMessageID(), e.ToolCallID, e.ToolResult.Content)}

	default:
		// Thinking and the approval lifecycle have no AG-UI equivalent.
		return nil
	}
}

// MapStream translates a run event channel into an AG-UI event channel.
// Events with no AG-UI equivalent are filtered out. The output channel
// closes when the input closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, cap(in))
	go func() {
		defer close(out)
		for e := range in {
			for _, mapped := range m.MapEvent(e) {
				out <- mapped
			}
		}
	}()
	return out
}

// closeMessage ends the currently open text message, if any.
func (m *Mapper) closeMessage() []events.Event {
	if m.openMessageID == "" {
		return nil
	}
	id := m.openMessageID
	m.openMessageID = ""
	return []events.Event{events.NewTextMessageEndEvent(id)}
}

func turnName(iteration int) string {
	return fmt.Sprintf("turn-%d", iteration)
}
