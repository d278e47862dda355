package sse

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/event"
)

func TestEncoder(t *testing.T) {
	t.Run("writes frames in emission order", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)

		require.NoError(t, enc.Encode(event.Event{Type: event.RunStart}))
		require.NoError(t, enc.Encode(event.Event{Type: event.TextDelta, Delta: "hel"}))
		require.NoError(t, enc.Encode(event.Event{Type: event.TextDelta, Delta: "lo"}))
		require.NoError(t, enc.Encode(event.Event{Type: event.Done, StopReason: "completed"}))

		out := buf.String()
		frames := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
		require.Len(t, frames, 4)
		assert.True(t, strings.HasPrefix(frames[0], "event: run_start\ndata: "))
		assert.Contains(t, frames[1], `"delta":"hel"`)
		assert.Contains(t, frames[2], `"delta":"lo"`)
		assert.Contains(t, frames[3], `"stopReason":"completed"`)
	})

	t.Run("drops events after the terminal frame", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)

		require.NoError(t, enc.Encode(event.Event{Type: event.Done, StopReason: "completed"}))
		assert.True(t, enc.Closed())

		before := buf.Len()
		require.NoError(t, enc.Encode(event.Event{Type: event.TextDelta, Delta: "late"}))
		require.NoError(t, enc.Encode(event.Event{Type: event.Error, Err: errors.New("late")}))
		assert.Equal(t, before, buf.Len())
	})

	t.Run("error frames carry the message and terminate", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)

		require.NoError(t, enc.Encode(event.Event{Type: event.Error, Err: errors.New("provider unreachable")}))
		assert.Contains(t, buf.String(), `"error":"provider unreachable"`)
		assert.True(t, enc.Closed())
	})

	t.Run("encoding is idempotent across replays", func(t *testing.T) {
		events := []event.Event{
			{Type: event.RunStart},
			{Type: event.ToolCallStart, ToolCallID: "call_1", ToolName: "get_weather", Iteration: 1},
			{Type: event.ToolCallArgsDelta, ToolCallID: "call_1", ArgsDelta: `{"city":"Paris"}`, Iteration: 1},
			{Type: event.ToolCallResult, ToolResult: &ai.ToolResult{ToolCallID: "call_1", Content: `{"temp":12}`}, Iteration: 1},
			{Type: event.Done, StopReason: "completed", Response: &ai.Response{Content: "12C"}},
		}

		encode := func() string {
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			for _, ev := range events {
				require.NoError(t, enc.Encode(ev))
			}
			return buf.String()
		}

		assert.Equal(t, encode(), encode())
	})
}

func TestReader(t *testing.T) {
	t.Run("round trips encoder output", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)
		require.NoError(t, enc.Encode(event.Event{Type: event.TextDelta, Delta: "hi"}))
		require.NoError(t, enc.Encode(event.Event{Type: event.Done, StopReason: "completed"}))

		r := NewReader(&buf)

		frame, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, "text_delta", frame.Event)
		assert.Contains(t, string(frame.Data), `"delta":"hi"`)

		frame, err = r.Next()
		require.NoError(t, err)
		assert.Equal(t, "done", frame.Event)

		_, err = r.Next()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("skips comments and unknown fields", func(t *testing.T) {
		input := ": keepalive\nid: 42\nretry: 1000\nevent: custom_thing\ndata: {\"x\":1}\n\n"
		r := NewReader(strings.NewReader(input))

		frame, err := r.Next()
		require.NoError(t, err)
		// Unknown event names decode fine; consumers decide what to do.
		assert.Equal(t, "custom_thing", frame.Event)
		assert.JSONEq(t, `{"x":1}`, string(frame.Data))
	})

	t.Run("joins multiple data lines", func(t *testing.T) {
		input := "event: done\ndata: line1\ndata: line2\n\n"
		r := NewReader(strings.NewReader(input))

		frame, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", string(frame.Data))
	})

	t.Run("empty stream returns EOF", func(t *testing.T) {
		_, err := NewReader(strings.NewReader("")).Next()
		assert.Equal(t, io.EOF, err)
	})
}
