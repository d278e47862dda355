package spindle

import "strings"

// StreamEventType tags a StreamEvent.
type StreamEventType string

const (
	// StreamTextDelta carries an incremental fragment of assistant text.
	StreamTextDelta StreamEventType = "text_delta"
	// StreamThinking carries an incremental fragment of model reasoning.
	// Not all providers emit it.
	StreamThinking StreamEventType = "thinking"
	// StreamToolCallStart announces a tool invocation: id and name are
	// known, arguments follow as deltas.
	StreamToolCallStart StreamEventType = "tool_call_start"
	// StreamToolCallArgsDelta carries a fragment of a call's JSON argument
	// text, correlated by tool call id.
	StreamToolCallArgsDelta StreamEventType = "tool_call_args_delta"
	// StreamToolCallComplete marks a call's arguments as fully streamed.
	StreamToolCallComplete StreamEventType = "tool_call_complete"
	// StreamDone terminates a stream normally.
	StreamDone StreamEventType = "done"
	// StreamError terminates a stream with a failure. No further events
	// follow.
	StreamError StreamEventType = "error"
)

// StreamEvent is one event in a provider's streaming response. It is a
// tagged union: Type selects which fields are meaningful. Events are
// transient and never persisted; only the accumulated messages are.
type StreamEvent struct {
	Type StreamEventType
	// Text holds the fragment for text_delta and thinking events.
	Text string
	// ToolCallID correlates tool_call_* events with one invocation.
	ToolCallID string
	// ToolName is set on tool_call_start.
	ToolName string
	// ArgsDelta is the argument fragment for tool_call_args_delta.
	ArgsDelta string
	// FinishReason is set on done.
	FinishReason string
	// Response, when non-nil on done, is the fully accumulated response.
	// Consumers without it can rebuild one with a StreamAccumulator.
	Response *Response
	// Err is set on error events.
	Err error
}

// TextDeltaEvent builds a text_delta event.
func TextDeltaEvent(text string) StreamEvent {
	return StreamEvent{Type: StreamTextDelta, Text: text}
}

// ThinkingEvent builds a thinking event.
func ThinkingEvent(text string) StreamEvent {
	return StreamEvent{Type: StreamThinking, Text: text}
}

// ToolCallStartEvent builds a tool_call_start event.
func ToolCallStartEvent(id, name string) StreamEvent {
	return StreamEvent{Type: StreamToolCallStart, ToolCallID: id, ToolName: name}
}

// ToolCallArgsDeltaEvent builds a tool_call_args_delta event.
func ToolCallArgsDeltaEvent(id, delta string) StreamEvent {
	return StreamEvent{Type: StreamToolCallArgsDelta, ToolCallID: id, ArgsDelta: delta}
}

// ToolCallCompleteEvent builds a tool_call_complete event.
func ToolCallCompleteEvent(id string) StreamEvent {
	return StreamEvent{Type: StreamToolCallComplete, ToolCallID: id}
}

// DoneEvent builds a terminal done event carrying the final response.
func DoneEvent(resp *Response) StreamEvent {
	ev := StreamEvent{Type: StreamDone, Response: resp}
	if resp != nil {
		ev.FinishReason = resp.FinishReason
	}
	return ev
}

// ErrorEvent builds a terminal error event.
func ErrorEvent(err error) StreamEvent {
	return StreamEvent{Type: StreamError, Err: err}
}

// StreamAccumulator folds a stream of events into a Response. It collects
// text deltas and assembles tool calls from their start/args/complete
// triplets, preserving declaration order. A repeated call id starts a new
// entry rather than merging into the first, so the declared list reaches
// consumers intact; arg deltas attach to the latest entry with their id.
// Thinking fragments are not part of the response content and are dropped.
type StreamAccumulator struct {
	text     strings.Builder
	calls    []*ToolCall
	latest   map[string]int
	finish   string
	response *Response
}

// NewStreamAccumulator creates an empty accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{latest: map[string]int{}}
}

// Add folds one event into the accumulator.
func (a *StreamAccumulator) Add(ev StreamEvent) {
	switch ev.Type {
	case StreamTextDelta:
		a.text.WriteString(ev.Text)
	case StreamToolCallStart:
		a.calls = append(a.calls, &ToolCall{ID: ev.ToolCallID, Name: ev.ToolName})
		a.latest[ev.ToolCallID] = len(a.calls) - 1
	case StreamToolCallArgsDelta:
		if i, ok := a.latest[ev.ToolCallID]; ok {
			a.calls[i].Arguments += ev.ArgsDelta
		}
	case StreamDone:
		a.finish = ev.FinishReason
		a.response = ev.Response
	}
}

// Response returns the accumulated response. If the stream's done event
// carried a pre-built response, that one is returned unchanged; otherwise a
// response is assembled from the observed deltas.
func (a *StreamAccumulator) Response() *Response {
	if a.response != nil {
		return a.response
	}
	resp := &Response{
		Content:      a.text.String(),
		FinishReason: a.finish,
	}
	for _, call := range a.calls {
		resp.ToolCalls = append(resp.ToolCalls, *call)
	}
	return resp
}

// ToolCalls returns the tool calls assembled so far, in declaration order.
func (a *StreamAccumulator) ToolCalls() []ToolCall {
	calls := make([]ToolCall, 0, len(a.calls))
	for _, call := range a.calls {
		calls = append(calls, *call)
	}
	return calls
}
