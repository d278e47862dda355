package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
)

func TestRegistry(t *testing.T) {
	echo := func(ctx context.Context, call ai.ToolCall) (string, error) {
		return call.Arguments, nil
	}

	t.Run("register and look up", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echo))

		tool, ok := r.Get("echo")
		assert.True(t, ok)
		assert.Equal(t, "echo", tool.Name)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("duplicate registration is an error", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echo))

		err := r.Register(ai.Tool{Name: "echo"}, echo)
		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "echo", dup.Name)
	})

	t.Run("tools and names are sorted", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "zeta"}, echo))
		require.NoError(t, r.Register(ai.Tool{Name: "alpha"}, echo))

		assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
		tools := r.Tools()
		require.Len(t, tools, 2)
		assert.Equal(t, "alpha", tools[0].Name)
	})

	t.Run("unregister is idempotent", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echo))
		r.Unregister("echo")
		r.Unregister("echo")
		assert.Zero(t, r.Len())
	})
}

func TestRegistryExecute(t *testing.T) {
	t.Run("success produces a result keyed by call id", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return call.Arguments, nil
		}))

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "call_1", Name: "echo", Arguments: `{"x":1}`})
		require.NoError(t, err)
		assert.Equal(t, "call_1", result.ToolCallID)
		assert.Equal(t, `{"x":1}`, result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("handler error is absorbed into the result", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "fail"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", errors.New("backend unavailable")
		}))

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "call_1", Name: "fail"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "backend unavailable", result.Content)
	})

	t.Run("unknown tool returns ErrToolNotFound", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "ghost"})
		var notFound *ErrToolNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestRegisterFunc(t *testing.T) {
	type weatherArgs struct {
		City  string `json:"city" desc:"City name" required:"true"`
		Units string `json:"units" enum:"metric,imperial"`
	}

	t.Run("generates schema from struct tags", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterFunc(r, "get_weather", "Look up weather",
			func(ctx context.Context, args weatherArgs) (string, error) {
				return args.City, nil
			}))

		tool, ok := r.Get("get_weather")
		require.True(t, ok)
		assert.JSONEq(t, `{
			"type": "object",
			"properties": {
				"city": {"type": "string", "description": "City name"},
				"units": {"type": "string", "enum": ["metric", "imperial"]}
			},
			"required": ["city"]
		}`, string(tool.Parameters))
	})

	t.Run("typed handler receives unmarshalled arguments", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterFunc(r, "get_weather", "",
			func(ctx context.Context, args weatherArgs) (string, error) {
				return "weather in " + args.City, nil
			}))

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city":"Paris"}`})
		require.NoError(t, err)
		assert.Equal(t, "weather in Paris", result.Content)
	})

	t.Run("malformed arguments surface as error results", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterFunc(r, "get_weather", "",
			func(ctx context.Context, args weatherArgs) (string, error) {
				return "", nil
			}))

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city":`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestFluentRegistration(t *testing.T) {
	type empty struct{}
	r := NewRegistry().Add(
		Func("ping", "liveness probe", func(ctx context.Context, args empty) (string, error) {
			return "pong", nil
		}),
		WithTool(ai.Tool{Name: "raw", Parameters: ai.EmptyParameters},
			func(ctx context.Context, call ai.ToolCall) (string, error) { return "ok", nil }),
	)

	assert.Equal(t, []string{"ping", "raw"}, r.Names())

	result, err := r.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: "ping", Arguments: ""})
	require.NoError(t, err)
	assert.Equal(t, "pong", result.Content)
}
