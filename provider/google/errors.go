package google

import (
	"errors"

	"google.golang.org/genai"

	ai "github.com/spindleworks/spindle"
)

// wrapError maps a GenAI SDK error into the categorized taxonomy. The SDK
// does not expose response headers, so no Retry-After hint is available.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.Code
	msg := err.Error()
	switch {
	case code == 429 || (code >= 500 && code < 600):
		return ai.NewTransientError(msg, code, err)
	case code == 400 || code == 404 || code == 422:
		return ai.NewUserInputError(msg, code, err)
	default:
		return ai.NewPermanentError(msg, code, err)
	}
}
