// Command server exposes an agent over HTTP.
//
// Endpoints:
//
//	POST /v1/chat      - run the agent, streaming run events as SSE frames
//	POST /v1/agui      - run the agent, streaming AG-UI protocol events
//	POST /v1/approvals - deliver an approval decision for a pending tool call
//	GET  /healthz      - health check
//
// Configuration is via environment variables (a .env file is honored):
//
//	SPINDLE_PORT           - server port (default: 8080)
//	SPINDLE_PROVIDER       - anthropic, openai, or google (required)
//	SPINDLE_MODEL          - model id override (default: provider default)
//	SPINDLE_MAX_ITERATIONS - model call budget per run (default: 10)
//	SPINDLE_TIMEOUT        - per-run timeout (default: 2m)
//	SPINDLE_LOG_LEVEL      - debug, info, warn, or error (default: info)
//	SPINDLE_DEMO_TOOLS     - register demo tools (default: true)
//	ANTHROPIC_API_KEY      - Anthropic API key
//	OPENAI_API_KEY         - OpenAI API key
//	GOOGLE_API_KEY         - Google API key
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spindleworks/spindle/agent"
	"github.com/spindleworks/spindle/client"
	"github.com/spindleworks/spindle/tool"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	c := client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		DefaultModel: cfg.Model,
	})

	registry := tool.NewRegistry()
	if cfg.DemoTools {
		SetupDemoTools(registry)
		slog.Info("registered demo tools", "count", registry.Len(), "names", registry.Names())
	}

	broker := agent.NewApprovalBroker()
	srv := NewServer(agent.New(c, registry), broker, cfg)

	mux := http.NewServeMux()
	srv.Routes(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting",
		"port", cfg.Port,
		"provider", cfg.Provider,
		"model", cfg.Model.String(),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
