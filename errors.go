package spindle

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoMessages is returned when a chat call receives an empty history.
var ErrNoMessages = errors.New("no messages")

// ErrorCategory classifies errors by how callers should handle them.
type ErrorCategory string

const (
	// ErrorTransient marks temporary failures worth retrying: rate limits,
	// server overload, network blips.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent marks failures retry cannot fix: bad credentials,
	// missing models, revoked access.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput marks failures caused by the request itself: malformed
	// parameters, oversized payloads, policy violations.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError exposes handling metadata alongside the error message.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // true iff Category == ErrorTransient
	StatusCode() int           // HTTP status if applicable, 0 otherwise
	RetryAfter() time.Duration // server-suggested delay, 0 if absent
}

// Error is the concrete categorized error used throughout the engine.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int
	RetryDelay time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Category returns the error category.
func (e *Error) Category() ErrorCategory { return e.Cat }

// Retryable reports whether the error is transient.
func (e *Error) Retryable() bool { return e.Cat == ErrorTransient }

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int { return e.Code }

// RetryAfter returns the server-suggested retry delay, or 0.
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewTransientError creates a retryable error.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewTransientErrorWithRetry creates a retryable error carrying a
// server-suggested delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, RetryDelay: retryAfter, Cause: cause}
}

// NewPermanentError creates a non-retryable error.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error attributable to the request itself.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// IsTransient reports whether err (or anything it wraps) is categorized
// transient.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent reports whether err is categorized permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput reports whether err is categorized as a user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf extracts the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf extracts the suggested retry delay from a categorized error,
// or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
