package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	ai "github.com/spindleworks/spindle"
)

// ApprovalMode selects how tool calls are gated.
type ApprovalMode string

const (
	// ApprovalAuto executes calls without operator involvement.
	ApprovalAuto ApprovalMode = "auto"

	// ApprovalManual blocks calls until an operator approves or rejects
	// them. Rejected calls produce an error result; the handler is never
	// invoked.
	ApprovalManual ApprovalMode = "manual"
)

// ApprovalPolicy decides the approval mode per tool. The zero value
// auto-approves everything.
type ApprovalPolicy struct {
	// Default applies to tools not listed in Tools. Empty means auto.
	Default ApprovalMode

	// Tools overrides the default per tool name.
	Tools map[string]ApprovalMode
}

// ModeFor returns the effective mode for a tool name.
func (p ApprovalPolicy) ModeFor(name string) ApprovalMode {
	if m, ok := p.Tools[name]; ok {
		return m
	}
	if p.Default == "" {
		return ApprovalAuto
	}
	return p.Default
}

// ApproverFunc decides a manual-approval call. It returns true to approve,
// or false with a reason; the reason is sent back to the model as an error
// result.
type ApproverFunc func(ctx context.Context, call ai.ToolCall) (approved bool, reason string)

// ApprovalDecision is an operator's decision on one tool call.
type ApprovalDecision struct {
	ToolCallID string
	Approved   bool
	Reason     string
}

// ApprovalBroker routes async approval decisions to runs waiting on them,
// letting a frontend approve or reject calls by id.
//
//	broker := agent.NewApprovalBroker()
//	result, err := ag.Run(ctx, messages,
//	    agent.WithApprovalPolicy(agent.ApprovalPolicy{Default: agent.ApprovalManual}),
//	    agent.WithApprover(broker.Approver()),
//	)
//	// elsewhere: broker.Approve(id) or broker.Reject(id, reason)
type ApprovalBroker struct {
	mu       sync.Mutex
	pending  map[string]chan ApprovalDecision
	timeout  time.Duration
	onSubmit func(call ai.ToolCall)
}

// ApprovalBrokerOption configures an ApprovalBroker.
type ApprovalBrokerOption func(*ApprovalBroker)

// WithDecisionTimeout sets how long the broker waits for a decision before
// rejecting. Default is 5 minutes.
func WithDecisionTimeout(d time.Duration) ApprovalBrokerOption {
	return func(b *ApprovalBroker) {
		b.timeout = d
	}
}

// WithOnSubmit sets a callback invoked when a call starts waiting for a
// decision, useful for notifying a frontend.
func WithOnSubmit(fn func(call ai.ToolCall)) ApprovalBrokerOption {
	return func(b *ApprovalBroker) {
		b.onSubmit = fn
	}
}

// NewApprovalBroker creates a broker. The default decision timeout is
// 5 minutes.
func NewApprovalBroker(opts ...ApprovalBrokerOption) *ApprovalBroker {
	b := &ApprovalBroker{
		pending: make(map[string]chan ApprovalDecision),
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Approver returns an ApproverFunc backed by the broker. It blocks until a
// decision arrives, the decision timeout expires, or the context is
// cancelled.
func (b *ApprovalBroker) Approver() ApproverFunc {
	return func(ctx context.Context, call ai.ToolCall) (bool, string) {
		return b.waitForDecision(ctx, call)
	}
}

// Decide routes a decision to the waiting call. Returns an error when no
// call with that id is waiting.
func (b *ApprovalBroker) Decide(decision ApprovalDecision) error {
	b.mu.Lock()
	ch, ok := b.pending[decision.ToolCallID]
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("agent: no pending approval for tool call %q", decision.ToolCallID)
	}

	select {
	case ch <- decision:
	default:
	}
	return nil
}

// Approve approves the waiting call with the given id.
func (b *ApprovalBroker) Approve(toolCallID string) error {
	return b.Decide(ApprovalDecision{ToolCallID: toolCallID, Approved: true})
}

// Reject rejects the waiting call with the given id and reason.
func (b *ApprovalBroker) Reject(toolCallID, reason string) error {
	return b.Decide(ApprovalDecision{ToolCallID: toolCallID, Approved: false, Reason: reason})
}

// PendingCount returns the number of calls waiting for a decision.
func (b *ApprovalBroker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *ApprovalBroker) waitForDecision(ctx context.Context, call ai.ToolCall) (bool, string) {
	ch := make(chan ApprovalDecision, 1)

	b.mu.Lock()
	b.pending[call.ID] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, call.ID)
		b.mu.Unlock()
	}()

	if b.onSubmit != nil {
		b.onSubmit(call)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	select {
	case decision := <-ch:
		return decision.Approved, decision.Reason
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return false, "approval cancelled"
		}
		return false, "approval timed out"
	}
}
