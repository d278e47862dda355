// Package sse carries run events over server-sent events. Frames are
// written as "event: <type>\ndata: <json>\n\n". Encoding is deterministic:
// a frame is a pure function of the event (timestamps are not encoded), so
// replaying the same event sequence produces byte-identical output.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/event"
)

// framePayload is the wire shape of one frame's data line. Struct-based
// marshalling keeps the field order stable across encodes.
type framePayload struct {
	Iteration  int            `json:"iteration"`
	MessageID  string         `json:"messageId,omitempty"`
	Delta      string         `json:"delta,omitempty"`
	ToolCallID string         `json:"toolCallId,omitempty"`
	ToolName   string         `json:"toolName,omitempty"`
	ArgsDelta  string         `json:"argsDelta,omitempty"`
	ToolCall   *ai.ToolCall   `json:"toolCall,omitempty"`
	ToolResult *ai.ToolResult `json:"toolResult,omitempty"`
	Response   *ai.Response   `json:"response,omitempty"`
	StopReason string         `json:"stopReason,omitempty"`
	Pending    []ai.ToolCall  `json:"pendingToolCalls,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Encoder writes run events as SSE frames. It preserves emission order and
// guarantees at most one terminal frame: once a done or error event has
// been written, further events are silently dropped.
type Encoder struct {
	w        io.Writer
	flusher  http.Flusher
	terminal bool
}

// NewEncoder creates an encoder writing to w. When w implements
// http.Flusher each frame is flushed as it is written.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w}
	if f, ok := w.(http.Flusher); ok {
		e.flusher = f
	}
	return e
}

// Encode writes one event as an SSE frame. Events arriving after the
// terminal frame are dropped without error.
func (e *Encoder) Encode(ev event.Event) error {
	if e.terminal {
		return nil
	}

	payload := framePayload{
		Iteration:  ev.Iteration,
		MessageID:  ev.MessageID,
		Delta:      ev.Delta,
		ToolCallID: ev.ToolCallID,
		ToolName:   ev.ToolName,
		ArgsDelta:  ev.ArgsDelta,
		ToolCall:   ev.ToolCall,
		ToolResult: ev.ToolResult,
		Response:   ev.Response,
		StopReason: ev.StopReason,
		Pending:    ev.PendingToolCalls,
		Message:    ev.Message,
	}
	if ev.Err != nil {
		payload.Error = ev.Err.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sse frame: %w", err)
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}

	if ev.Type == event.Done || ev.Type == event.Error {
		e.terminal = true
	}
	return nil
}

// Closed reports whether the terminal frame has been written.
func (e *Encoder) Closed() bool {
	return e.terminal
}
