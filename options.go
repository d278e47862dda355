package spindle

// Options holds per-request configuration for a chat call.
type Options struct {
	// Model selects both the model identifier and, through its Provider,
	// which adapter serves the request.
	Model     Model
	MaxTokens int
	// Temperature is nil when unset so adapters can distinguish "default"
	// from an explicit 0.
	Temperature *float64
	// SystemPrompt is injected in whatever form the provider's wire format
	// requires: a leading system message for OpenAI-style APIs, a top-level
	// system field for Anthropic.
	SystemPrompt string
	// Tools declares the tools available for this request.
	Tools []Tool
	// ToolChoice constrains tool use. Zero value means provider default.
	ToolChoice ToolChoice
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model for the request.
func WithModel(model Model) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithSystemPrompt sets the system prompt for the request.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithTools declares the tools the model may call.
func WithTools(tools ...Tool) Option {
	return func(o *Options) {
		o.Tools = append(o.Tools, tools...)
	}
}

// WithToolChoice constrains whether the model may, must, or must not call
// tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions folds functional options into an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
