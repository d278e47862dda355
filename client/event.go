package client

import (
	"time"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/retry"
)

// EventType identifies a client operation event.
type EventType string

const (
	// EventRequestStart fires before a provider request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a request succeeds.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a request fails for good.
	EventRequestError EventType = "request_error"

	// EventRetry forwards an event from the retry layer.
	EventRetry EventType = "retry"
)

// Event is one observable occurrence inside the client.
type Event struct {
	Type      EventType
	Operation string // "complete" or "stream"
	Provider  ai.Provider
	Duration  time.Duration
	Usage     *ai.Usage
	Error     error
	// RetryEvent carries the retry-layer event for EventRetry.
	RetryEvent *retry.Event
	Timestamp  time.Time
}

func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case ch <- ev:
	default:
	}
}
