package agui

import (
	"context"
	"testing"
	"time"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/agent"
)

func TestParseApprovalInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		input, err := ParseApprovalInput([]byte(`{"toolCallId":"call-1","approved":true}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input.ToolCallID != "call-1" {
			t.Errorf("expected 'call-1', got %q", input.ToolCallID)
		}
		if !input.Approved {
			t.Error("expected approved")
		}
	})

	t.Run("rejection with reason", func(t *testing.T) {
		input, err := ParseApprovalInput([]byte(`{"toolCallId":"call-2","approved":false,"reason":"too risky"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input.Approved {
			t.Error("expected rejected")
		}
		if input.Reason != "too risky" {
			t.Errorf("expected reason 'too risky', got %q", input.Reason)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := ParseApprovalInput([]byte(`{broken`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestToDecision(t *testing.T) {
	input := &ApprovalInput{ToolCallID: "call-1", Approved: false, Reason: "nope"}
	decision := input.ToDecision()

	if decision.ToolCallID != "call-1" || decision.Approved || decision.Reason != "nope" {
		t.Errorf("unexpected decision: %+v", decision)
	}
}

func TestHandleApproval(t *testing.T) {
	t.Run("delivers to a waiting call", func(t *testing.T) {
		broker := agent.NewApprovalBroker()
		approver := broker.Approver()

		type outcome struct {
			approved bool
			reason   string
		}
		done := make(chan outcome, 1)
		go func() {
			approved, reason := approver(context.Background(), ai.ToolCall{ID: "call-1", Name: "delete_file"})
			done <- outcome{approved, reason}
		}()

		// Wait for the call to register with the broker.
		deadline := time.After(time.Second)
		for broker.PendingCount() == 0 {
			select {
			case <-deadline:
				t.Fatal("call never registered with broker")
			default:
				time.Sleep(time.Millisecond)
			}
		}

		err := HandleApprovalJSON(broker, []byte(`{"toolCallId":"call-1","approved":true}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := <-done
		if !got.approved {
			t.Errorf("expected approval, got rejection with reason %q", got.reason)
		}
	})

	t.Run("unknown call id errors", func(t *testing.T) {
		broker := agent.NewApprovalBroker()
		err := HandleApproval(broker, &ApprovalInput{ToolCallID: "nope", Approved: true})
		if err == nil {
			t.Error("expected error for unknown tool call id")
		}
	})

	t.Run("invalid JSON errors", func(t *testing.T) {
		broker := agent.NewApprovalBroker()
		if err := HandleApprovalJSON(broker, []byte(`not json`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}
