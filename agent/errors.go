package agent

import "errors"

// ErrNilProvider is returned when an agent is run without a provider.
var ErrNilProvider = errors.New("agent: nil provider")
