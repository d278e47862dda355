// Package google adapts the Google GenAI SDK (Gemini API) to the spindle
// ChatProvider interface. Gemini has no streaming argument deltas: function
// calls arrive whole, so each one is announced, delivered as a single
// argument fragment, and completed in immediate succession.
package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	ai "github.com/spindleworks/spindle"
)

// DefaultModel is used when a request does not select a model.
const DefaultModel = "gemini-2.5-flash"

// Client implements ai.ChatProvider on top of the Google GenAI SDK.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithDefaultModel sets the model used when requests do not specify one.
func WithDefaultModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildRequest(messages []ai.Message, options *ai.Options) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	if len(messages) == 0 {
		return "", nil, nil, ai.ErrNoMessages
	}

	model := c.model
	if options.Model != nil {
		model = options.Model.String()
	}

	contents, err := convertMessages(messages)
	if err != nil {
		return "", nil, nil, err
	}

	config := &genai.GenerateContentConfig{}
	if options.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: options.SystemPrompt}},
		}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config, nil
}

// Complete sends a conversation and returns the full response.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	model, contents, config, err := c.buildRequest(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, ai.NewUserInputError(
			fmt.Sprintf("google: request blocked: %s", resp.PromptFeedback.BlockReason), 0, nil)
	}

	content := ""
	var toolCalls []ai.ToolCall
	finishReason := ""
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
		if resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				content += part.Text
			}
			toolCalls = extractToolCalls(resp.Candidates[0].Content.Parts)
		}
	}

	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ai.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage:        usage,
		ToolCalls:    toolCalls,
	}, nil
}

// Stream sends a conversation and returns a channel of stream events.
func (c *Client) Stream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	model, contents, config, err := c.buildRequest(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)

		var content string
		var finishReason string
		var usage ai.Usage
		var toolCalls []ai.ToolCall
		got := false

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			got = true
			if err != nil {
				ch <- ai.ErrorEvent(wrapError(err))
				return
			}
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				ch <- ai.ErrorEvent(ai.NewUserInputError(
					fmt.Sprintf("google: request blocked: %s", resp.PromptFeedback.BlockReason), 0, nil))
				return
			}
			if len(resp.Candidates) == 0 {
				continue
			}
			candidate := resp.Candidates[0]
			finishReason = string(candidate.FinishReason)
			if candidate.Content != nil {
				for _, part := range candidate.Content.Parts {
					if part.Text != "" {
						ch <- ai.TextDeltaEvent(part.Text)
						content += part.Text
					}
					if part.FunctionCall != nil {
						call := toolCallFromFunctionCall(len(toolCalls), part.FunctionCall)
						toolCalls = append(toolCalls, call)
						ch <- ai.ToolCallStartEvent(call.ID, call.Name)
						ch <- ai.ToolCallArgsDeltaEvent(call.ID, call.Arguments)
						ch <- ai.ToolCallCompleteEvent(call.ID)
					}
				}
			}
			if resp.UsageMetadata != nil {
				usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		if !got {
			ch <- ai.ErrorEvent(ai.NewTransientError("google: stream returned no data", 0, nil))
			return
		}

		ch <- ai.DoneEvent(&ai.Response{
			Content:      content,
			FinishReason: finishReason,
			Usage:        usage,
			ToolCalls:    toolCalls,
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
