package agent

import (
	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/store"
)

// StopReason indicates why a run ended.
type StopReason string

const (
	// StopCompleted indicates the model finished without requesting tools.
	StopCompleted StopReason = "completed"

	// StopMaxIterations indicates the iteration budget ran out while the
	// model still requested tools. Not a failure; the unresolved calls are
	// flagged on the result.
	StopMaxIterations StopReason = "max_iterations"

	// StopCancelled indicates context cancellation or deadline expiry.
	StopCancelled StopReason = "cancelled"

	// StopFailed indicates an unrecoverable provider or transport error.
	StopFailed StopReason = "failed"
)

// Result is the final outcome of a run.
type Result struct {
	// Response is the last model response, nil when the run failed before
	// the first turn completed.
	Response *ai.Response

	// Iterations is the number of model calls completed.
	Iterations int

	// StopReason indicates why the run ended.
	StopReason StopReason

	// PendingToolCalls holds calls left unresolved by StopMaxIterations.
	PendingToolCalls []ai.ToolCall

	// Executions records every tool call observed during the run, in the
	// order the model declared them, one record per observed call.
	Executions []*ToolExecution

	// TotalUsage aggregates token usage across all model calls.
	TotalUsage ai.Usage

	// Err is the error that ended the run, set with StopFailed and
	// StopCancelled.
	Err error

	history *store.MessageStore
}

// Messages returns the run's full conversation history, including tool
// result messages.
func (r *Result) Messages() []ai.Message {
	if r.history == nil {
		return nil
	}
	return r.history.Messages()
}

// MessageCount returns the number of messages in the history.
func (r *Result) MessageCount() int {
	if r.history == nil {
		return 0
	}
	return r.history.Len()
}
