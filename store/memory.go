package store

import (
	"context"
	"sync"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string][]chat.Message
}

// NewMemoryStore returns a process-local MessageStore.
func NewMemoryStore() MessageStore {
	return &inMemory{}
}

func (m *inMemory) Messages(_ context.Context, chatID string) []chat.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil
	}
	msgs := m.storage[chatID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (m *inMemory) Add(_ context.Context, chatID string, msg chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string][]chat.Message)
	}
	m.storage[chatID] = append(m.storage[chatID], msg)
	return nil
}

func (m *inMemory) Reset(_ context.Context, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, chatID)
	}
	return nil
}
