package retry

import (
	"context"
	"errors"
	"time"

	ai "github.com/spindleworks/spindle"
)

// EventType identifies a retry lifecycle event.
type EventType string

const (
	// EventAttemptStart fires before each attempt.
	EventAttemptStart EventType = "attempt_start"
	// EventAttemptFailed fires after a failed attempt.
	EventAttemptFailed EventType = "attempt_failed"
	// EventRetrying fires before sleeping between attempts.
	EventRetrying EventType = "retrying"
	// EventSuccess fires when an attempt succeeds.
	EventSuccess EventType = "success"
	// EventExhausted fires when every attempt has failed.
	EventExhausted EventType = "exhausted"
)

// Event is one observable occurrence during a retried call.
type Event struct {
	Type        EventType
	Attempt     int // 1-indexed
	MaxAttempts int
	Error       error
	Delay       time.Duration
	Retryable   bool
	Timestamp   time.Time
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

// Do runs fn until it succeeds, a permanent error occurs, or the attempt
// budget runs out. events may be nil; delivery never blocks. Backoff sleeps
// respect ctx cancellation.
func Do[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		emit(events, Event{Type: EventAttemptStart, Attempt: attempt + 1, MaxAttempts: cfg.MaxAttempts})

		result, err := fn()
		if err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt + 1, MaxAttempts: cfg.MaxAttempts})
			return result, nil
		}
		lastErr = err

		retryable := IsTransient(err)
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt + 1,
			MaxAttempts: cfg.MaxAttempts,
			Error:       err,
			Retryable:   retryable,
		})
		if !retryable {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			delay := effectiveDelay(cfg.Delay(attempt), err)
			emit(events, Event{Type: EventRetrying, Attempt: attempt + 1, MaxAttempts: cfg.MaxAttempts, Delay: delay})

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	emit(events, Event{Type: EventExhausted, Attempt: cfg.MaxAttempts, MaxAttempts: cfg.MaxAttempts, Error: lastErr})
	return zero, lastErr
}

// DoStream is Do for channel-returning functions. Only stream establishment
// is retried: once a channel is handed out, failures mid-stream are the
// consumer's to observe.
func DoStream[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (<-chan T, error)) (<-chan T, error) {
	ch, err := Do(ctx, cfg, events, func() (<-chan T, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// effectiveDelay honors a server-provided Retry-After when it exceeds the
// computed backoff.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := ai.RetryAfterOf(err); server > configured {
		return server
	}
	return configured
}

// statusCoder is implemented by the OpenAI and Anthropic SDK errors.
type statusCoder interface {
	StatusCode() int
}

// IsTransient reports whether an error is worth retrying. Categorized
// errors are trusted outright; anything else is judged by status code and
// network-level heuristics.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}
