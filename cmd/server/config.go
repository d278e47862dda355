package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/model"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Port          string
	Provider      ai.Provider
	Model         ai.Model
	MaxIterations int
	RunTimeout    time.Duration
	LogLevel      slog.Level
	DemoTools     bool

	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string
}

// LoadConfig reads configuration from the environment, consulting a .env
// file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          envOr("SPINDLE_PORT", "8080"),
		Provider:      ai.Provider(envOr("SPINDLE_PROVIDER", "")),
		MaxIterations: 10,
		RunTimeout:    2 * time.Minute,
		LogLevel:      slog.LevelInfo,
		DemoTools:     envOr("SPINDLE_DEMO_TOOLS", "true") == "true",
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		GoogleKey:     os.Getenv("GOOGLE_API_KEY"),
	}

	if v := os.Getenv("SPINDLE_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid SPINDLE_MAX_ITERATIONS %q", v)
		}
		cfg.MaxIterations = n
	}

	if v := os.Getenv("SPINDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SPINDLE_TIMEOUT %q: %w", v, err)
		}
		cfg.RunTimeout = d
	}

	if v := os.Getenv("SPINDLE_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid SPINDLE_LOG_LEVEL %q: %w", v, err)
		}
	}

	switch cfg.Provider {
	case ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle:
	case "":
		return nil, fmt.Errorf("SPINDLE_PROVIDER is required (anthropic, openai, or google)")
	default:
		return nil, fmt.Errorf("unknown SPINDLE_PROVIDER %q", cfg.Provider)
	}

	if cfg.apiKeyFor(cfg.Provider) == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", cfg.Provider)
	}

	m, err := resolveModel(cfg.Provider)
	if err != nil {
		return nil, err
	}
	cfg.Model = m

	return cfg, nil
}

func (c *Config) apiKeyFor(p ai.Provider) string {
	switch p {
	case ai.ProviderAnthropic:
		return c.AnthropicKey
	case ai.ProviderOpenAI:
		return c.OpenAIKey
	case ai.ProviderGoogle:
		return c.GoogleKey
	}
	return ""
}

// resolveModel picks the model: SPINDLE_MODEL when set (catalogued ids keep
// their declared provider, unknown ids are assumed to belong to the
// configured provider), otherwise the provider default.
func resolveModel(p ai.Provider) (ai.Model, error) {
	if id := os.Getenv("SPINDLE_MODEL"); id != "" {
		if m, ok := model.ByID(id); ok {
			if m.Provider() != p {
				return nil, fmt.Errorf("SPINDLE_MODEL %q belongs to provider %s, not %s", id, m.Provider(), p)
			}
			return m, nil
		}
		return model.New(id, p), nil
	}
	return model.Default(p)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
