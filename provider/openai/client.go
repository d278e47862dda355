// Package openai adapts the official OpenAI Go SDK to the spindle
// ChatProvider interface. The SDK owns the chat.completions wire format;
// this package only translates between it and the canonical data model.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/spindleworks/spindle"
)

// DefaultModel is used when a request does not select a model.
const DefaultModel = "gpt-4o"

// Client implements ai.ChatProvider on top of the OpenAI SDK.
type Client struct {
	client *openai.Client
	model  string
}

// New creates an OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithDefaultModel sets the model used when requests do not specify one.
func WithDefaultModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildParams(messages []ai.Message, options *ai.Options) (openai.ChatCompletionNewParams, error) {
	if len(messages) == 0 {
		return openai.ChatCompletionNewParams{}, ai.ErrNoMessages
	}

	model := c.model
	if options.Model != nil {
		model = options.Model.String()
	}

	converted, err := convertMessages(messages, options.SystemPrompt)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: converted,
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params, nil
}

// Complete sends a conversation and returns the full response.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	params, err := c.buildParams(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewPermanentError("openai: response contained no choices", 0, nil)
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// Stream sends a conversation and returns a channel of stream events. Tool
// call deltas arrive indexed; ids and names are announced on the first
// chunk for each index and argument fragments follow correlated by id.
func (c *Client) Stream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params, err := c.buildParams(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)

		var acc openai.ChatCompletionAccumulator
		// Chunks identify tool calls by index; the id only appears on the
		// first chunk for each call.
		idByIndex := map[int64]string{}
		var open []string

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta

			if delta.Content != "" {
				ch <- ai.TextDeltaEvent(delta.Content)
			}
			for _, tc := range delta.ToolCalls {
				id, seen := idByIndex[tc.Index]
				if !seen {
					id = tc.ID
					idByIndex[tc.Index] = id
					open = append(open, id)
					ch <- ai.ToolCallStartEvent(id, tc.Function.Name)
				}
				if tc.Function.Arguments != "" {
					ch <- ai.ToolCallArgsDeltaEvent(id, tc.Function.Arguments)
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.ErrorEvent(wrapError(err))
			return
		}
		if len(acc.Choices) == 0 {
			ch <- ai.ErrorEvent(ai.NewPermanentError("openai: stream contained no choices", 0, nil))
			return
		}

		for _, id := range open {
			ch <- ai.ToolCallCompleteEvent(id)
		}

		completion := acc.Choices[0]
		ch <- ai.DoneEvent(&ai.Response{
			Content:      completion.Message.Content,
			FinishReason: string(completion.FinishReason),
			Usage: ai.Usage{
				InputTokens:  int(acc.Usage.PromptTokens),
				OutputTokens: int(acc.Usage.CompletionTokens),
			},
			ToolCalls: extractToolCalls(completion.Message.ToolCalls),
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
