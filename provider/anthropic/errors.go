package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spindleworks/spindle"
)

// wrapError maps an Anthropic SDK error into the categorized taxonomy. 429
// and 529 (overloaded) are transient; auth failures are permanent; request
// shape problems are user input.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.StatusCode
	retryAfter := parseRetryAfter(apiErr.Response)
	msg := err.Error()

	if retryAfter > 0 {
		return ai.NewTransientErrorWithRetry(msg, code, retryAfter, err)
	}

	switch {
	case code == 429 || code == 529 || (code >= 500 && code < 600):
		return ai.NewTransientError(msg, code, err)
	case code == 400 || code == 404 || code == 413 || code == 422:
		return ai.NewUserInputError(msg, code, err)
	default:
		return ai.NewPermanentError(msg, code, err)
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}
