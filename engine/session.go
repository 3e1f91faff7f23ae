package engine

import (
	"context"
	"sync"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/google/uuid"
)

// Stats is a point-in-time snapshot of session counters.
type Stats struct {
	ToolCalls int
	Errors    int
	StartedAt time.Time
}

// Session ties a conversation ID to its message history and counters. It is
// safe for concurrent use.
type Session struct {
	id    string
	store store.MessageStore

	mu        sync.Mutex
	toolCalls int
	errors    int
	startedAt time.Time
}

// NewSession creates a session with a fresh random ID.
func NewSession(messages store.MessageStore) *Session {
	return NewSessionWithID(uuid.NewString(), messages)
}

// NewSessionWithID creates a session with a caller-chosen ID, for resuming an
// existing conversation.
func NewSessionWithID(id string, messages store.MessageStore) *Session {
	return &Session{
		id:        id,
		store:     messages,
		startedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns the full stored conversation.
func (s *Session) History(ctx context.Context) []chat.Message {
	return s.store.Messages(ctx, s.id)
}

// Recent returns the trailing n messages of the conversation.
func (s *Session) Recent(ctx context.Context, n int) []chat.Message {
	msgs := s.store.Messages(ctx, s.id)
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// AddUser appends a user turn.
func (s *Session) AddUser(ctx context.Context, content string) error {
	return s.store.Add(ctx, s.id, chat.UserMessage(content))
}

// AddAssistant appends an assistant turn.
func (s *Session) AddAssistant(ctx context.Context, content string) error {
	return s.store.Add(ctx, s.id, chat.AssistantMessage(content))
}

// Clear discards the stored conversation. Counters are untouched.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Reset(ctx, s.id)
}

// RecordToolCall counts one successful tool call.
func (s *Session) RecordToolCall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolCalls++
}

// RecordError counts one failed query.
func (s *Session) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

// Stats returns a snapshot of the counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ToolCalls: s.toolCalls,
		Errors:    s.errors,
		StartedAt: s.startedAt,
	}
}
