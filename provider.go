package spindle

import "context"

// Provider identifies an LLM provider family.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// Model names a concrete model and the provider it belongs to. Routing is
// driven entirely by this declaration; nothing inspects adapter types at
// runtime.
type Model interface {
	// String returns the provider-side model identifier.
	String() string
	// Provider returns the provider family the model belongs to.
	Provider() Provider
}

// ChatProvider is the capability surface the agent loop depends on. A
// provider that cannot stream may implement Stream by buffering a Complete
// call, but the loop only ever consumes the streaming form.
type ChatProvider interface {
	// Complete sends a conversation and returns the full response.
	Complete(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// Stream sends a conversation and returns a channel of stream events.
	// The channel carries exactly one terminal event (done or error) and is
	// closed afterward. Cancelling ctx stops emission promptly; a cancelled
	// stream ends with an error event, never a synthetic done.
	Stream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}
