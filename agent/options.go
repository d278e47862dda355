package agent

import (
	"time"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/event"
	"github.com/spindleworks/spindle/knowledge"
)

// Options contains configuration for one agent run.
type Options struct {
	// MaxIterations caps the number of model calls in a run. When the final
	// permitted call still requests tools, the run stops with
	// StopMaxIterations and the unresolved calls flagged on the result; the
	// tools are never executed. 0 permits a single model call with no tool
	// rounds. Default is 10.
	MaxIterations int

	// Timeout bounds the entire run. 0 means no run-level deadline beyond
	// the caller's context.
	Timeout time.Duration

	// HandlerTimeout bounds each individual tool execution. 0 disables the
	// per-execution deadline. Default is 30 seconds.
	HandlerTimeout time.Duration

	// ParallelToolCalls executes a turn's approved tool calls concurrently.
	// Results keep declaration order regardless. Default is true.
	ParallelToolCalls bool

	// Approval decides which tools need operator approval before execution.
	// The zero value auto-approves everything.
	Approval ApprovalPolicy

	// Approver is consulted for calls the policy marks manual. A manual
	// call with no approver configured is rejected.
	Approver ApproverFunc

	// Knowledge, when set, is searched once before the first model call and
	// the results lead the conversation as a system message. Advisory:
	// search failures never fail the run.
	Knowledge knowledge.Searcher

	// Events receives run events without blocking the loop; a full channel
	// drops events. RunStream consumers get lossless delivery on the
	// returned channel instead.
	Events chan<- event.Event

	// ChatOptions are passed through to every provider call.
	ChatOptions []ai.Option
}

// Option is a functional option for configuring a run.
type Option func(*Options)

// WithMaxIterations caps the number of model calls. Default is 10.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTimeout bounds the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout bounds each tool execution. Default is 30 seconds.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls toggles concurrent tool execution. Default is true.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithApprovalPolicy sets which tools require operator approval.
func WithApprovalPolicy(p ApprovalPolicy) Option {
	return func(o *Options) {
		o.Approval = p
	}
}

// WithApprover sets the function consulted for manual-approval calls.
func WithApprover(fn ApproverFunc) Option {
	return func(o *Options) {
		o.Approver = fn
	}
}

// WithKnowledge sets the searcher used to augment the run.
func WithKnowledge(s knowledge.Searcher) Option {
	return func(o *Options) {
		o.Knowledge = s
	}
}

// WithEvents sets an observer channel for run events. Delivery is
// non-blocking; a slow consumer loses events rather than stalling the run.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithChatOptions passes options through to every provider call.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for provider calls.
func WithModel(model ai.Model) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithModel(model))
	}
}

// WithMaxTokens is a convenience option to set max tokens for provider calls.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithMaxTokens(n))
	}
}

// WithTemperature is a convenience option to set sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithTemperature(t))
	}
}

// ApplyOptions folds functional options into an Options struct with
// defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations:     10,
		HandlerTimeout:    30 * time.Second,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
