package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/agent"
	"github.com/spindleworks/spindle/agui"
	"github.com/spindleworks/spindle/sse"
)

// Server wires the HTTP surface to the agent loop. Handlers do transport
// work only; orchestration lives in the agent package.
type Server struct {
	agent  *agent.Agent
	broker *agent.ApprovalBroker
	config *Config
}

// NewServer creates the HTTP surface for an agent.
func NewServer(a *agent.Agent, broker *agent.ApprovalBroker, cfg *Config) *Server {
	return &Server{agent: a, broker: broker, config: cfg}
}

// Routes registers the server's endpoints on a mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.Handle("/v1/chat", corsMiddleware(http.HandlerFunc(s.handleChat)))
	mux.Handle("/v1/agui", corsMiddleware(http.HandlerFunc(s.handleAGUI)))
	mux.Handle("/v1/approvals", corsMiddleware(http.HandlerFunc(s.handleApproval)))
	mux.HandleFunc("/healthz", handleHealth)
}

// chatRequest is the body of POST /v1/chat.
type chatRequest struct {
	Messages []ai.Message `json:"messages"`

	// Approval selects the gating mode for this run: "auto" (default) or
	// "manual". Manual runs block tool calls until a decision arrives on
	// POST /v1/approvals.
	Approval string `json:"approval,omitempty"`

	// MaxIterations overrides the server default when positive.
	MaxIterations int `json:"maxIterations,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "no messages provided", http.StatusBadRequest)
		return
	}

	opts, err := s.runOptions(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log := slog.With("endpoint", "/v1/chat", "message_count", len(req.Messages))
	log.Info("request started")

	setSSEHeaders(w)
	if _, ok := w.(http.Flusher); !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	encoder := sse.NewEncoder(w)
	stream := s.agent.RunStream(r.Context(), req.Messages, opts...)
	var eventCount int
	for ev := range stream {
		if err := encoder.Encode(ev); err != nil {
			log.Error("failed to write SSE frame", "error", err, "event_type", ev.Type)
			// Keep draining so the run goroutine can finish.
			for range stream {
			}
			break
		}
		eventCount++
	}

	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

func (s *Server) handleAGUI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log := slog.With("endpoint", "/v1/agui", "run_id", input.RunID, "thread_id", input.ThreadID)

	prepared, err := input.Prepare()
	if err != nil {
		log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info("request started", "message_count", len(prepared.Messages))

	setSSEHeaders(w)
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	stream := s.agent.RunStream(r.Context(), prepared.Messages,
		agent.WithMaxIterations(s.config.MaxIterations),
		agent.WithTimeout(s.config.RunTimeout),
	)

	var eventCount int
	for ev := range mapper.MapStream(stream) {
		if err := writeAGUIFrame(w, flusher, ev); err != nil {
			log.Error("failed to write SSE frame", "error", err, "event_type", ev.Type())
			// Keep draining so the run goroutine can finish.
			for range stream {
			}
			break
		}
		eventCount++
	}

	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

func (s *Server) handleApproval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.ApprovalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if input.ToolCallID == "" {
		http.Error(w, "toolCallId is required", http.StatusBadRequest)
		return
	}

	if err := agui.HandleApproval(s.broker, &input); err != nil {
		slog.Warn("approval for unknown call", "tool_call_id", input.ToolCallID)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	slog.Info("approval decision delivered",
		"tool_call_id", input.ToolCallID,
		"approved", input.Approved,
	)
	w.WriteHeader(http.StatusNoContent)
}

// runOptions builds per-run options from a chat request.
func (s *Server) runOptions(req chatRequest) ([]agent.Option, error) {
	maxIterations := s.config.MaxIterations
	if req.MaxIterations > 0 {
		maxIterations = req.MaxIterations
	}

	opts := []agent.Option{
		agent.WithMaxIterations(maxIterations),
		agent.WithTimeout(s.config.RunTimeout),
	}

	switch req.Approval {
	case "", "auto":
	case "manual":
		opts = append(opts,
			agent.WithApprovalPolicy(agent.ApprovalPolicy{Default: agent.ApprovalManual}),
			agent.WithApprover(s.broker.Approver()),
		)
	default:
		return nil, fmt.Errorf("unknown approval mode %q", req.Approval)
	}

	return opts, nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeAGUIFrame writes one AG-UI event in SSE format.
func writeAGUIFrame(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	flusher.Flush()
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
