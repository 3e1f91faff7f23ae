// Package store provides conversation history storage keyed by chat ID.
//
// The in-memory store backs a single interactive session; the Redis store
// backs the hosted API where chats outlive a single process connection.
package store

import (
	"context"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

// MessageStore holds the ordered, append-only conversation history of a chat.
type MessageStore interface {
	// Messages returns the turns of the chat in arrival order.
	Messages(ctx context.Context, chatID string) []chat.Message
	// Add appends a turn to the chat.
	Add(ctx context.Context, chatID string, msg chat.Message) error
	// Reset removes all turns of the chat.
	Reset(ctx context.Context, chatID string) error
}
