package spindle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		transient bool
		permanent bool
		userInput bool
	}{
		{
			name:      "transient",
			err:       NewTransientError("rate limited", 429, nil),
			transient: true,
		},
		{
			name:      "permanent",
			err:       NewPermanentError("invalid api key", 401, nil),
			permanent: true,
		},
		{
			name:      "user input",
			err:       NewUserInputError("bad request", 400, nil),
			userInput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
			assert.Equal(t, tt.permanent, IsPermanent(tt.err))
			assert.Equal(t, tt.userInput, IsUserInput(tt.err))
			assert.Equal(t, tt.transient, tt.err.Retryable())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Run("categorization survives wrapping", func(t *testing.T) {
		inner := NewTransientError("overloaded", 529, nil)
		wrapped := fmt.Errorf("chat failed: %w", inner)

		assert.True(t, IsTransient(wrapped))
		assert.Equal(t, 529, StatusCodeOf(wrapped))
	})

	t.Run("Unwrap exposes the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewTransientError("request failed", 0, cause)

		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("uncategorized errors match nothing", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.False(t, IsUserInput(err))
		assert.Zero(t, StatusCodeOf(err))
	})
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
	assert.Equal(t, 30*time.Second, RetryAfterOf(err))
	assert.Zero(t, RetryAfterOf(errors.New("plain")))
}
