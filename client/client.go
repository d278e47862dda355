// Package client is the unified entry point to every provider adapter. A
// Client implements spindle.ChatProvider: the request's model picks the
// adapter by its declared provider, adapters are initialized lazily on
// first use, and transient failures are retried with backoff. Mid-stream
// failures are never retried; only stream establishment is.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/provider/anthropic"
	"github.com/spindleworks/spindle/provider/google"
	"github.com/spindleworks/spindle/provider/openai"
	"github.com/spindleworks/spindle/retry"
)

// APIKeys holds per-provider credentials. Configure only the providers you
// intend to use; an adapter without a key fails at first use, not at
// construction.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config configures a Client.
type Config struct {
	// APIKeys holds provider credentials.
	APIKeys APIKeys

	// DefaultModel serves requests that carry no model option.
	DefaultModel ai.Model

	// RetryConfig controls transient-error retry. Nil means the default
	// backoff; use retry.Disabled() to turn retry off.
	RetryConfig *retry.Config

	// Events optionally receives operational events. Delivery never
	// blocks; a full channel drops events.
	Events chan<- Event
}

// ClientOption configures a Client beyond its Config.
type ClientOption func(*Client)

// WithDefaultChatOptions sets options applied to every request; per-request
// options override them.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, opts...)
	}
}

// Client routes chat requests to provider adapters. Safe for concurrent
// use; adapters initialize lazily on first request.
type Client struct {
	apiKeys      APIKeys
	defaultModel ai.Model
	retryConfig  retry.Config
	events       chan<- Event
	defaultOpts  []ai.Option

	mu              sync.RWMutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

var _ ai.ChatProvider = (*Client)(nil)

// New creates a client from cfg.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	c := &Client{
		apiKeys:      cfg.APIKeys,
		defaultModel: cfg.DefaultModel,
		retryConfig:  retryConfig,
		events:       cfg.Events,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a conversation and returns the full response, retrying
// transient failures per the retry configuration.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	opts, provider, err := c.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	adapter, err := c.adapterFor(ctx, provider)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emit(c.events, Event{Type: EventRequestStart, Operation: "complete", Provider: provider})

	retryEvents := c.retryEventChannel("complete", provider)
	resp, err := retry.Do(ctx, c.retryConfig, retryEvents, func() (*ai.Response, error) {
		return adapter.Complete(ctx, messages, opts...)
	})
	if retryEvents != nil {
		close(retryEvents)
	}

	if err != nil {
		emit(c.events, Event{Type: EventRequestError, Operation: "complete", Provider: provider, Duration: time.Since(start), Error: err})
		return nil, err
	}

	ev := Event{Type: EventRequestComplete, Operation: "complete", Provider: provider, Duration: time.Since(start)}
	if resp != nil {
		ev.Usage = &resp.Usage
	}
	emit(c.events, ev)
	return resp, nil
}

// Stream sends a conversation and returns the provider's event stream.
// Only establishing the stream is retried; once events flow, a failure
// surfaces as the stream's terminal error event.
func (c *Client) Stream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	opts, provider, err := c.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	adapter, err := c.adapterFor(ctx, provider)
	if err != nil {
		return nil, err
	}

	emit(c.events, Event{Type: EventRequestStart, Operation: "stream", Provider: provider})

	retryEvents := c.retryEventChannel("stream", provider)
	stream, err := retry.DoStream(ctx, c.retryConfig, retryEvents, func() (<-chan ai.StreamEvent, error) {
		return adapter.Stream(ctx, messages, opts...)
	})
	if retryEvents != nil {
		close(retryEvents)
	}

	if err != nil {
		emit(c.events, Event{Type: EventRequestError, Operation: "stream", Provider: provider, Error: err})
		return nil, err
	}
	return stream, nil
}

// prepare resolves the request's model, injecting the configured default
// when absent, and returns the final options plus the serving provider.
func (c *Client) prepare(ctx context.Context, opts []ai.Option) ([]ai.Option, ai.Provider, error) {
	opts = append(c.defaultOpts, opts...)
	options := ai.ApplyOptions(opts...)

	model := options.Model
	if model == nil {
		model = c.defaultModel
	}
	if model == nil {
		return nil, "", &ErrNoModel{}
	}
	if options.Model == nil {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}
	return opts, model.Provider(), nil
}

// adapterFor returns the adapter serving a provider, initializing it on
// first use.
func (c *Client) adapterFor(ctx context.Context, provider ai.Provider) (ai.ChatProvider, error) {
	switch provider {
	case ai.ProviderAnthropic:
		return c.getAnthropic()
	case ai.ProviderOpenAI:
		return c.getOpenAI()
	case ai.ProviderGoogle:
		return c.getGoogle(ctx)
	default:
		return nil, fmt.Errorf("client: unsupported provider %q", provider)
	}
}

func (c *Client) getAnthropic() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}
	if c.apiKeys.Anthropic == "" {
		return nil, &ErrMissingAPIKey{Provider: string(ai.ProviderAnthropic)}
	}
	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
	return c.anthropicClient, nil
}

func (c *Client) getOpenAI() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openaiClient != nil {
		return c.openaiClient, nil
	}
	if c.apiKeys.OpenAI == "" {
		return nil, &ErrMissingAPIKey{Provider: string(ai.ProviderOpenAI)}
	}
	c.openaiClient = openai.New(c.apiKeys.OpenAI)
	return c.openaiClient, nil
}

func (c *Client) getGoogle(ctx context.Context) (*google.Client, error) {
	c.mu.RLock()
	if c.googleClient != nil {
		defer c.mu.RUnlock()
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.googleClient != nil {
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		return nil, c.googleInitErr
	}
	if c.apiKeys.Google == "" {
		return nil, &ErrMissingAPIKey{Provider: string(ai.ProviderGoogle)}
	}

	client, err := google.New(ctx, c.apiKeys.Google)
	if err != nil {
		c.googleInitErr = fmt.Errorf("client: initializing google adapter: %w", err)
		return nil, c.googleInitErr
	}
	c.googleClient = client
	return c.googleClient, nil
}

func (c *Client) retryEventChannel(operation string, provider ai.Provider) chan retry.Event {
	if c.events == nil {
		return nil
	}
	ch := make(chan retry.Event, 10)
	go func() {
		for re := range ch {
			re := re
			emit(c.events, Event{
				Type:       EventRetry,
				Operation:  operation,
				Provider:   provider,
				Error:      re.Error,
				RetryEvent: &re,
			})
		}
	}()
	return ch
}
