// Package agent runs the conversational loop: call the model, stream its
// events, resolve the tool calls it declares, feed results back, repeat
// until the model finishes, the iteration budget runs out, or the caller
// cancels. Every tool call reaches exactly one terminal outcome and every
// run emits exactly one terminal event.
package agent

import (
	"context"
	"time"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/event"
	"github.com/spindleworks/spindle/knowledge"
	"github.com/spindleworks/spindle/store"
	"github.com/spindleworks/spindle/tool"
)

// Agent drives the loop against one provider and one tool source.
type Agent struct {
	provider ai.ChatProvider
	tools    tool.Source
}

// New creates an agent. tools may be nil for a run without tool calling.
func New(provider ai.ChatProvider, tools tool.Source) *Agent {
	return &Agent{provider: provider, tools: tools}
}

// Run executes the loop to completion and returns the result. Events go to
// the optional observer channel without blocking; use RunStream for
// lossless delivery. The returned error is non-nil for failed and cancelled
// runs; hitting the iteration limit is not an error.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	o := ApplyOptions(opts...)
	return a.run(ctx, messages, o, func(e event.Event) {
		event.Emit(o.Events, e)
	})
}

// RunStream executes the loop in the background and delivers every event on
// the returned channel, one send per event in emission order. The channel
// ends with exactly one terminal event (done or error) and is then closed.
// The consumer must drain the channel until it closes, even after
// cancelling ctx; cancellation makes the remaining events arrive promptly.
func (a *Agent) RunStream(ctx context.Context, messages []ai.Message, opts ...Option) <-chan event.Event {
	o := ApplyOptions(opts...)
	ch := make(chan event.Event)

	go func() {
		defer close(ch)
		a.run(ctx, messages, o, func(e event.Event) {
			e.Timestamp = time.Now()
			ch <- e
		})
	}()
	return ch
}

func (a *Agent) run(ctx context.Context, messages []ai.Message, o *Options, emit func(event.Event)) (*Result, error) {
	if a.provider == nil {
		emit(event.Event{Type: event.Error, Err: ErrNilProvider})
		return &Result{StopReason: StopFailed, Err: ErrNilProvider}, ErrNilProvider
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	history := store.NewMessageStore(nil)
	if o.Knowledge != nil {
		if msg, ok := knowledge.Augment(ctx, o.Knowledge, lastUserContent(messages)); ok {
			history.Append(msg)
		}
	}
	history.Append(messages...)

	result := &Result{history: history}
	emit(event.Event{Type: event.RunStart})

	iteration := 0
	for {
		if err := ctx.Err(); err != nil {
			result.StopReason = StopCancelled
			result.Err = err
			result.Iterations = iteration
			emit(doneEvent(result, iteration))
			return result, err
		}

		emit(event.Event{Type: event.TurnStart, Iteration: iteration})

		resp, err := a.turn(ctx, history.Messages(), o, iteration, emit)
		if err != nil {
			if ctx.Err() != nil {
				result.StopReason = StopCancelled
			} else {
				result.StopReason = StopFailed
			}
			result.Err = err
			result.Iterations = iteration
			emit(event.Event{Type: event.Error, Iteration: iteration, Err: err})
			return result, err
		}

		result.Response = resp
		result.TotalUsage.Add(resp.Usage)
		history.Append(ai.AssistantMessage(resp))
		emit(event.Event{Type: event.TurnEnd, Iteration: iteration, Response: resp})

		if len(resp.ToolCalls) == 0 {
			result.StopReason = StopCompleted
			result.Iterations = iteration + 1
			emit(doneEvent(result, iteration))
			return result, nil
		}

		// The tool round would need another model call to consume its
		// results; stop here when the budget does not allow one.
		if iteration+1 >= o.MaxIterations {
			result.StopReason = StopMaxIterations
			result.PendingToolCalls = resp.ToolCalls
			result.Iterations = iteration + 1
			emit(doneEvent(result, iteration))
			return result, nil
		}

		results, execs := a.resolveToolCalls(ctx, iteration, resp.ToolCalls, o, emit)
		result.Executions = append(result.Executions, execs...)
		history.Append(ai.NewToolResultMessage(results...))
		iteration++
	}
}

// turn makes one streaming model call, forwarding provider events 1:1 and
// returning the accumulated response.
func (a *Agent) turn(ctx context.Context, messages []ai.Message, o *Options, iteration int, emit func(event.Event)) (*ai.Response, error) {
	chatOpts := o.ChatOptions
	if a.tools != nil {
		if tools := a.tools.Tools(); len(tools) > 0 {
			chatOpts = append([]ai.Option{ai.WithTools(tools...)}, o.ChatOptions...)
		}
	}

	stream, err := a.provider.Stream(ctx, messages, chatOpts...)
	if err != nil {
		return nil, err
	}

	acc := ai.NewStreamAccumulator()
	messageID := ai.NewMessageID()
	for ev := range stream {
		acc.Add(ev)
		switch ev.Type {
		case ai.StreamTextDelta:
			emit(event.Event{Type: event.TextDelta, Iteration: iteration, MessageID: messageID, Delta: ev.Text})
		case ai.StreamThinking:
			emit(event.Event{Type: event.Thinking, Iteration: iteration, MessageID: messageID, Delta: ev.Text})
		case ai.StreamToolCallStart:
			emit(event.Event{Type: event.ToolCallStart, Iteration: iteration, ToolCallID: ev.ToolCallID, ToolName: ev.ToolName})
		case ai.StreamToolCallArgsDelta:
			emit(event.Event{Type: event.ToolCallArgsDelta, Iteration: iteration, ToolCallID: ev.ToolCallID, ArgsDelta: ev.ArgsDelta})
		case ai.StreamToolCallComplete:
			emit(event.Event{Type: event.ToolCallComplete, Iteration: iteration, ToolCallID: ev.ToolCallID})
		case ai.StreamError:
			return nil, ev.Err
		}
	}
	return acc.Response(), nil
}

func doneEvent(r *Result, iteration int) event.Event {
	return event.Event{
		Type:             event.Done,
		Iteration:        iteration,
		Response:         r.Response,
		StopReason:       string(r.StopReason),
		PendingToolCalls: r.PendingToolCalls,
	}
}

// lastUserContent picks the knowledge query: the content of the most recent
// user message.
func lastUserContent(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
