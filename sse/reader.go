package sse

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// maxFrameBytes bounds a single frame's size.
const maxFrameBytes = 1024 * 1024

// Frame is one decoded SSE frame. Event names the frame decodes to are not
// validated; consumers must tolerate types they do not recognize.
type Frame struct {
	Event string
	Data  json.RawMessage
}

// Reader incrementally decodes SSE frames from a stream. Comment lines and
// unknown SSE fields (id, retry) are skipped; multiple data lines within a
// frame are joined with newlines per the SSE format.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a reader over source.
func NewReader(source io.Reader) *Reader {
	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next frame, or io.EOF when the stream ends. Frames with
// no data line are skipped.
func (r *Reader) Next() (Frame, error) {
	var frame Frame
	var data []string

	flush := func() (Frame, bool) {
		if len(data) == 0 {
			return Frame{}, false
		}
		frame.Data = json.RawMessage(strings.Join(data, "\n"))
		return frame, true
	}

	for r.scanner.Scan() {
		line := r.scanner.Text()

		// Blank line ends the frame.
		if strings.TrimSpace(line) == "" {
			if f, ok := flush(); ok {
				return f, nil
			}
			frame = Frame{}
			data = nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			frame.Event = value
		case "data":
			data = append(data, value)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return Frame{}, err
	}
	if f, ok := flush(); ok {
		return f, nil
	}
	return Frame{}, io.EOF
}
