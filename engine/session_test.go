package engine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Recent(t *testing.T) {
	session := engine.NewSession(store.NewMemoryStore())
	ctx := context.Background()

	assert.Empty(t, session.Recent(ctx, 5))

	for i := 0; i < 8; i++ {
		require.NoError(t, session.AddUser(ctx, fmt.Sprintf("msg %d", i)))
	}

	recent := session.Recent(ctx, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "msg 3", recent[0].Content)
	assert.Equal(t, "msg 7", recent[4].Content)

	assert.Len(t, session.History(ctx), 8)
}

func TestSession_Counters(t *testing.T) {
	session := engine.NewSession(store.NewMemoryStore())

	stats := session.Stats()
	assert.Equal(t, 0, stats.ToolCalls)
	assert.Equal(t, 0, stats.Errors)
	assert.False(t, stats.StartedAt.IsZero())

	session.RecordToolCall()
	session.RecordToolCall()
	session.RecordError()

	stats = session.Stats()
	assert.Equal(t, 2, stats.ToolCalls)
	assert.Equal(t, 1, stats.Errors)
}

func TestSession_ClearKeepsCounters(t *testing.T) {
	session := engine.NewSession(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, session.AddUser(ctx, "hello"))
	session.RecordToolCall()

	require.NoError(t, session.Clear(ctx))
	assert.Empty(t, session.History(ctx))
	assert.Equal(t, 1, session.Stats().ToolCalls)
}

func TestSession_IDs(t *testing.T) {
	a := engine.NewSession(store.NewMemoryStore())
	b := engine.NewSession(store.NewMemoryStore())
	assert.NotEqual(t, a.ID(), b.ID())

	c := engine.NewSessionWithID("fixed", store.NewMemoryStore())
	assert.Equal(t, "fixed", c.ID())
}
