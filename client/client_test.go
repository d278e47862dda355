package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
	"github.com/spindleworks/spindle/model"
)

func TestCompleteRequiresModel(t *testing.T) {
	c := New(Config{})

	_, err := c.Complete(context.Background(), []ai.Message{ai.UserMessage("hi")})
	var noModel *ErrNoModel
	require.ErrorAs(t, err, &noModel)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		model    ai.Model
		provider string
	}{
		{"openai", model.GPT4o, "openai"},
		{"anthropic", model.ClaudeSonnet45, "anthropic"},
		{"google", model.Gemini25Flash, "google"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{DefaultModel: tt.model})

			_, err := c.Complete(context.Background(), []ai.Message{ai.UserMessage("hi")})
			var missing *ErrMissingAPIKey
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.provider, missing.Provider)
		})
	}
}

func TestStreamRequiresAPIKey(t *testing.T) {
	c := New(Config{})

	_, err := c.Stream(context.Background(), []ai.Message{ai.UserMessage("hi")},
		ai.WithModel(model.GPT4oMini))
	var missing *ErrMissingAPIKey
	require.ErrorAs(t, err, &missing)
}

func TestUnsupportedProvider(t *testing.T) {
	c := New(Config{DefaultModel: model.New("weird", ai.Provider("mystery"))})

	_, err := c.Complete(context.Background(), []ai.Message{ai.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestPerRequestModelOverridesDefault(t *testing.T) {
	// The default routes to openai; the per-request model routes to
	// anthropic, and the anthropic key is the one reported missing.
	c := New(Config{DefaultModel: model.GPT4o})

	_, err := c.Complete(context.Background(), []ai.Message{ai.UserMessage("hi")},
		ai.WithModel(model.ClaudeSonnet45))
	var missing *ErrMissingAPIKey
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "anthropic", missing.Provider)
}
