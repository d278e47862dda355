// Package anthropic adapts the official Anthropic Go SDK to the spindle
// ChatProvider interface. The SDK owns the messages API wire format: system
// prompts travel as top-level system blocks, tool results as user messages
// with tool_result blocks.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/spindleworks/spindle"
)

// DefaultModel is used when a request does not select a model.
const DefaultModel = "claude-sonnet-4-5"

// defaultMaxTokens applies when the request does not set a limit; the
// messages API requires one.
const defaultMaxTokens = 4096

// Client implements ai.ChatProvider on top of the Anthropic SDK.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates an Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithDefaultModel sets the model used when requests do not specify one.
func WithDefaultModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildParams(messages []ai.Message, options *ai.Options) (anthropic.MessageNewParams, error) {
	if len(messages) == 0 {
		return anthropic.MessageNewParams{}, ai.ErrNoMessages
	}

	model := c.model
	if options.Model != nil {
		model = options.Model.String()
	}
	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	if options.SystemPrompt != "" {
		system = append([]anthropic.TextBlockParam{{Text: options.SystemPrompt}}, system...)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
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

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &ai.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: extractToolCalls(resp.Content),
	}, nil
}

// Stream sends a conversation and returns a channel of stream events.
// Content block lifecycle maps directly onto the stream union:
// content_block_start for a tool_use block becomes tool_call_start,
// input_json_delta becomes tool_call_args_delta, content_block_stop becomes
// tool_call_complete. Thinking deltas are forwarded as thinking events.
func (c *Client) Stream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params, err := c.buildParams(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)

		var acc anthropic.Message
		// Block index to tool call id, for correlating deltas and stops.
		toolByIndex := map[int64]string{}

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			switch event.Type {
			case "content_block_start":
				start := event.AsContentBlockStart()
				if start.ContentBlock.Type == "tool_use" {
					toolByIndex[start.Index] = start.ContentBlock.ID
					ch <- ai.ToolCallStartEvent(start.ContentBlock.ID, start.ContentBlock.Name)
				}
			case "content_block_delta":
				delta := event.AsContentBlockDelta()
				switch delta.Delta.Type {
				case "text_delta":
					ch <- ai.TextDeltaEvent(delta.Delta.AsTextDelta().Text)
				case "thinking_delta":
					ch <- ai.ThinkingEvent(delta.Delta.AsThinkingDelta().Thinking)
				case "input_json_delta":
					if id, ok := toolByIndex[delta.Index]; ok {
						ch <- ai.ToolCallArgsDeltaEvent(id, delta.Delta.AsInputJSONDelta().PartialJSON)
					}
				}
			case "content_block_stop":
				stop := event.AsContentBlockStop()
				if id, ok := toolByIndex[stop.Index]; ok {
					ch <- ai.ToolCallCompleteEvent(id)
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.ErrorEvent(wrapError(err))
			return
		}

		content := ""
		for _, block := range acc.Content {
			if block.Type == "text" {
				content += block.Text
			}
		}

		ch <- ai.DoneEvent(&ai.Response{
			Content:      content,
			FinishReason: string(acc.StopReason),
			Usage: ai.Usage{
				InputTokens:  int(acc.Usage.InputTokens),
				OutputTokens: int(acc.Usage.OutputTokens),
			},
			ToolCalls: extractToolCalls(acc.Content),
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
