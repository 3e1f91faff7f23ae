package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/store"
)

func Test_RedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{
				"ALLOW_EMPTY_PASSWORD=yes",
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(ctx))
	})

	state, err := redisContainer.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Running)

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)

	client := redis.NewClient(options)
	rs := client.Ping(ctx)
	require.NoError(t, rs.Err(), "failed to connect to Redis")

	prefix := fmt.Sprintf("test-%d", time.Now().Unix())
	st := store.NewRedisStore(client, prefix)

	chatID := "chat1"
	assert.Empty(t, st.Messages(ctx, chatID))

	require.NoError(t, st.Add(ctx, chatID, chat.UserMessage("Hello")))
	require.NoError(t, st.Add(ctx, chatID, chat.AssistantMessage("Hi! How can I help?")))

	msgs := st.Messages(ctx, chatID)
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, chat.RoleAssistant, msgs[1].Role)

	// history is bounded to the most recent 50 entries
	for i := 0; i < 60; i++ {
		require.NoError(t, st.Add(ctx, chatID, chat.UserMessage(fmt.Sprintf("msg %d", i))))
	}
	bounded := st.Messages(ctx, chatID)
	assert.Len(t, bounded, 50)
	assert.Equal(t, "msg 59", bounded[len(bounded)-1].Content)

	require.NoError(t, st.Reset(ctx, chatID))
	assert.Empty(t, st.Messages(ctx, chatID))
}
