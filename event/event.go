// Package event defines the run-level event vocabulary the agent loop emits
// while executing. It is a superset of the provider stream union: every
// provider event forwards 1:1, and the loop adds lifecycle and tool
// execution events around them. Transports (SSE, AG-UI) consume this
// vocabulary directly.
package event

import (
	"time"

	ai "github.com/spindleworks/spindle"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires once when a run begins.
	RunStart Type = "run_start"

	// Done fires exactly once when a run ends for any non-error reason.
	// StopReason carries why.
	Done Type = "done"

	// Error fires exactly once when a run fails. No events follow it.
	Error Type = "error"
)

// Turn lifecycle events
const (
	// TurnStart fires before each provider call.
	TurnStart Type = "turn_start"

	// TurnEnd fires when a provider turn completes, carrying the
	// accumulated response.
	TurnEnd Type = "turn_end"
)

// Provider stream events, forwarded unchanged from the adapter.
const (
	// TextDelta carries an incremental fragment of assistant text.
	TextDelta Type = "text_delta"

	// Thinking carries an incremental fragment of model reasoning.
	Thinking Type = "thinking"

	// ToolCallStart announces a tool invocation with its id and name.
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgsDelta carries a fragment of a call's argument JSON.
	ToolCallArgsDelta Type = "tool_call_args_delta"

	// ToolCallComplete marks a call's arguments as fully streamed.
	ToolCallComplete Type = "tool_call_complete"
)

// Tool execution events, emitted by the coordinator.
const (
	// ToolCallPendingApproval fires when a call needs operator approval.
	ToolCallPendingApproval Type = "tool_call_pending_approval"

	// ToolCallApproved fires when a pending call is approved.
	ToolCallApproved Type = "tool_call_approved"

	// ToolCallRejected fires when a pending call is rejected; Message
	// carries the reason.
	ToolCallRejected Type = "tool_call_rejected"

	// ToolCallExecuting fires when a handler begins running.
	ToolCallExecuting Type = "tool_call_executing"

	// ToolCallResult fires when a call reaches a terminal state, success
	// or error.
	ToolCallResult Type = "tool_call_result"
)

// Event is one observable occurrence during a run. Type selects which
// fields are meaningful.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Iteration is the loop iteration the event belongs to, 0-indexed.
	Iteration int

	// MessageID correlates streaming deltas with the assistant message
	// being produced.
	MessageID string

	// Delta carries the fragment for TextDelta and Thinking events.
	Delta string

	// ToolCallID correlates tool events with one invocation.
	ToolCallID string

	// ToolName is set on ToolCallStart.
	ToolName string

	// ArgsDelta carries the argument fragment for ToolCallArgsDelta.
	ArgsDelta string

	// ToolCall is the fully assembled call for execution-phase events.
	ToolCall *ai.ToolCall

	// ToolResult is set on ToolCallResult.
	ToolResult *ai.ToolResult

	// Response is the accumulated turn response, set on TurnEnd and Done.
	Response *ai.Response

	// StopReason is set on Done.
	StopReason string

	// PendingToolCalls lists calls left unresolved when a run stops at its
	// iteration limit. Set on Done.
	PendingToolCalls []ai.ToolCall

	// Err is set on Error.
	Err error

	// Message holds additional context, e.g. a rejection reason.
	Message string

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// Emit sends an event on ch without blocking. Events are stamped on the way
// out; a full channel drops the event rather than stalling the loop.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
