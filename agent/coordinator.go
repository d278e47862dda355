package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/event"
)

// ExecutionStatus tracks a tool call through its lifecycle.
type ExecutionStatus string

const (
	ExecutionPending          ExecutionStatus = "pending"
	ExecutionAwaitingApproval ExecutionStatus = "awaiting_approval"
	ExecutionExecuting        ExecutionStatus = "executing"
	ExecutionCompleted        ExecutionStatus = "completed"
	ExecutionError            ExecutionStatus = "error"
)

// ApprovalStatus records the approval outcome for one execution.
type ApprovalStatus string

const (
	// ApprovalStatusAuto means the policy did not require approval.
	ApprovalStatusAuto ApprovalStatus = "auto"
	// ApprovalStatusApproved means an operator approved the call.
	ApprovalStatusApproved ApprovalStatus = "approved"
	// ApprovalStatusRejected means an operator rejected the call.
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// ToolExecution records one observed tool call through resolution. A fresh
// record is created for every call the model declares, even when a provider
// reuses an id across iterations; (Iteration, Call.ID) distinguishes them.
type ToolExecution struct {
	// ID uniquely identifies this execution record.
	ID string

	// Iteration is the loop iteration that declared the call.
	Iteration int

	// Call is the declared call with its raw argument text preserved.
	Call ai.ToolCall

	// Status is the execution's current lifecycle state.
	Status ExecutionStatus

	// Approval records how the approval gate resolved.
	Approval ApprovalStatus

	// Result is the terminal outcome, error or success.
	Result *ai.ToolResult

	// StartedAt is when the handler began running; zero when it never ran.
	StartedAt time.Time

	// CompletedAt is when the execution reached a terminal state.
	CompletedAt time.Time
}

// resolveToolCalls takes every call a turn declared to a terminal state and
// returns results in declaration order, exactly one per call. Approval gates
// run sequentially; approved executions may run concurrently. Invalid calls
// (duplicate id, unparsable arguments) become error results without
// touching a handler.
func (a *Agent) resolveToolCalls(ctx context.Context, iteration int, calls []ai.ToolCall, o *Options, emit func(event.Event)) ([]ai.ToolResult, []*ToolExecution) {
	results := make([]ai.ToolResult, len(calls))
	execs := make([]*ToolExecution, len(calls))
	var runnable []int

	seen := make(map[string]bool, len(calls))
	for i, call := range calls {
		exec := &ToolExecution{
			ID:        uuid.NewString(),
			Iteration: iteration,
			Call:      call,
			Status:    ExecutionPending,
			Approval:  ApprovalStatusAuto,
		}
		execs[i] = exec

		if seen[call.ID] {
			results[i] = a.failExecution(exec, fmt.Sprintf("duplicate tool call id %q", call.ID), emit)
			continue
		}
		seen[call.ID] = true

		if err := validateArguments(call); err != nil {
			results[i] = a.failExecution(exec,
				fmt.Sprintf("invalid arguments for tool %s: %v (raw: %s)", call.Name, err, call.Arguments), emit)
			continue
		}

		if o.Approval.ModeFor(call.Name) == ApprovalManual {
			if !a.approve(ctx, exec, o, emit) {
				results[i] = *exec.Result
				continue
			}
		}

		runnable = append(runnable, i)
	}

	execute := func(i int) {
		results[i] = a.executeCall(ctx, execs[i], o, emit)
	}
	if o.ParallelToolCalls && len(runnable) > 1 {
		var wg sync.WaitGroup
		for _, i := range runnable {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				execute(i)
			}(i)
		}
		wg.Wait()
	} else {
		for _, i := range runnable {
			execute(i)
		}
	}

	return results, execs
}

// approve runs the approval gate for one execution. Returns true when the
// call may execute; otherwise the execution carries a rejection result.
func (a *Agent) approve(ctx context.Context, exec *ToolExecution, o *Options, emit func(event.Event)) bool {
	exec.Status = ExecutionAwaitingApproval
	emit(event.Event{
		Type:       event.ToolCallPendingApproval,
		Iteration:  exec.Iteration,
		ToolCallID: exec.Call.ID,
		ToolName:   exec.Call.Name,
		ToolCall:   &exec.Call,
	})

	approved := false
	reason := "no approver configured"
	if o.Approver != nil {
		approved, reason = o.Approver(ctx, exec.Call)
	}

	if !approved {
		if reason == "" {
			reason = "rejected by operator"
		}
		exec.Approval = ApprovalStatusRejected
		emit(event.Event{
			Type:       event.ToolCallRejected,
			Iteration:  exec.Iteration,
			ToolCallID: exec.Call.ID,
			ToolName:   exec.Call.Name,
			ToolCall:   &exec.Call,
			Message:    reason,
		})
		a.failExecution(exec, reason, emit)
		return false
	}

	exec.Approval = ApprovalStatusApproved
	emit(event.Event{
		Type:       event.ToolCallApproved,
		Iteration:  exec.Iteration,
		ToolCallID: exec.Call.ID,
		ToolName:   exec.Call.Name,
		ToolCall:   &exec.Call,
	})
	return true
}

// executeCall runs one approved call through the tool source under the
// per-execution timeout. Handler failures come back as error results, never
// as loop errors.
func (a *Agent) executeCall(ctx context.Context, exec *ToolExecution, o *Options, emit func(event.Event)) ai.ToolResult {
	// Once the run is cancelled, no further handler may start; calls still
	// waiting resolve to error results instead.
	if err := ctx.Err(); err != nil {
		return a.failExecution(exec, fmt.Sprintf("not executed: %v", err), emit)
	}

	exec.Status = ExecutionExecuting
	exec.StartedAt = time.Now()
	emit(event.Event{
		Type:       event.ToolCallExecuting,
		Iteration:  exec.Iteration,
		ToolCallID: exec.Call.ID,
		ToolName:   exec.Call.Name,
		ToolCall:   &exec.Call,
	})

	execCtx := ctx
	if o.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, o.HandlerTimeout)
		defer cancel()
	}

	var result ai.ToolResult
	if a.tools == nil {
		result = ai.ToolResult{ToolCallID: exec.Call.ID, Content: "no tool source configured", IsError: true}
	} else if r, err := a.tools.Execute(execCtx, exec.Call); err != nil {
		result = ai.ToolResult{ToolCallID: exec.Call.ID, Content: err.Error(), IsError: true}
	} else {
		result = r
	}

	exec.Result = &result
	exec.CompletedAt = time.Now()
	if result.IsError {
		exec.Status = ExecutionError
	} else {
		exec.Status = ExecutionCompleted
	}

	emit(event.Event{
		Type:       event.ToolCallResult,
		Iteration:  exec.Iteration,
		ToolCallID: exec.Call.ID,
		ToolName:   exec.Call.Name,
		ToolCall:   &exec.Call,
		ToolResult: &result,
	})
	return result
}

// failExecution resolves an execution to an error result without running a
// handler and emits the terminal result event.
func (a *Agent) failExecution(exec *ToolExecution, msg string, emit func(event.Event)) ai.ToolResult {
	result := ai.ToolResult{
		ToolCallID: exec.Call.ID,
		Content:    msg,
		IsError:    true,
	}
	exec.Result = &result
	exec.Status = ExecutionError
	exec.CompletedAt = time.Now()

	emit(event.Event{
		Type:       event.ToolCallResult,
		Iteration:  exec.Iteration,
		ToolCallID: exec.Call.ID,
		ToolName:   exec.Call.Name,
		ToolCall:   &exec.Call,
		ToolResult: &result,
	})
	return result
}

// validateArguments checks a call's argument text is parseable JSON. Empty
// arguments are allowed; they mean a no-parameter call.
func validateArguments(call ai.ToolCall) error {
	if strings.TrimSpace(call.Arguments) == "" {
		return nil
	}
	if !json.Valid([]byte(call.Arguments)) {
		return fmt.Errorf("not valid JSON")
	}
	return nil
}
