package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "store")

// The redis store implements the MessageStore interface using Redis as the
// backend, so hosted chats survive process restarts.
// The keys namespace is organized as follows:
// - `/<prefix>/chatstore/messages/<chatID>` for storing chat messages

// maxStoredMessages bounds the per-chat history kept in Redis.
const maxStoredMessages = 50

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Redis-backed MessageStore under the given key prefix.
func NewRedisStore(client *redis.Client, prefix string) MessageStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) messagesKey(chatID string) string {
	return path.Join(m.prefix, "chatstore", "messages", chatID)
}

func (m *redisStore) Messages(ctx context.Context, chatID string) []chat.Message {
	key := m.messagesKey(chatID)
	data, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "redis_lrange", "chat_id", chatID, "err", err.Error())
		return nil
	}

	var messages []chat.Message
	for _, item := range data {
		var msg chat.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal message", "err", err.Error())
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (m *redisStore) Add(ctx context.Context, chatID string, msg chat.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal message")
	}

	key := m.messagesKey(chatID)
	pipe := m.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -maxStoredMessages, -1)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to store message in Redis")
	}
	return nil
}

func (m *redisStore) Reset(ctx context.Context, chatID string) error {
	err := m.client.Del(ctx, m.messagesKey(chatID)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to reset chat in Redis")
	}
	return nil
}
