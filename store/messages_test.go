package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindleworks/spindle"
)

func TestMessageStoreAppend(t *testing.T) {
	ms := NewMessageStore(nil)
	ms.Append(ai.UserMessage("hello"))
	ms.Append(ai.Message{Role: ai.RoleAssistant, Content: "hi"})

	assert.Equal(t, 2, ms.Len())
	msgs := ms.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, ai.RoleUser, msgs[0].Role)
	assert.Equal(t, ai.RoleAssistant, msgs[1].Role)
}

func TestMessageStoreCopyOnRead(t *testing.T) {
	ms := NewMessageStoreFrom([]ai.Message{ai.UserMessage("original")}, nil)

	msgs := ms.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", ms.Messages()[0].Content)
}

func TestMessageStoreLast(t *testing.T) {
	ms := NewMessageStore(nil)
	ms.Append(ai.UserMessage("a"), ai.UserMessage("b"), ai.UserMessage("c"))

	last := ms.Last(2)
	require.Len(t, last, 2)
	assert.Equal(t, "b", last[0].Content)
	assert.Equal(t, "c", last[1].Content)

	assert.Len(t, ms.Last(10), 3)
	assert.Nil(t, ms.Last(0))
}

func TestMessageStoreClone(t *testing.T) {
	ms := NewMessageStore(nil)
	ms.Append(ai.UserMessage("a"))

	clone := ms.Clone()
	clone.Append(ai.UserMessage("b"))

	assert.Equal(t, 1, ms.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestMessageStoreSyncReload(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	ms := NewMessageStore(adapter)
	ms.Append(ai.UserMessage("persist me"))
	require.NoError(t, ms.Sync(ctx, "conv-1"))

	restored := NewMessageStore(adapter)
	require.NoError(t, restored.Reload(ctx, "conv-1"))
	require.Equal(t, 1, restored.Len())
	assert.Equal(t, "persist me", restored.Messages()[0].Content)

	assert.ErrorIs(t, restored.Reload(ctx, "missing"), ErrKeyNotFound)
}
