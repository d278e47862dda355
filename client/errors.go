package client

import "fmt"

// ErrMissingAPIKey is returned when a request routes to a provider with no
// configured credential.
type ErrMissingAPIKey struct {
	Provider string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("client: no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when a request names no model and the client has
// no default.
type ErrNoModel struct{}

func (e *ErrNoModel) Error() string {
	return "client: no model specified: set Config.DefaultModel or use spindle.WithModel()"
}
