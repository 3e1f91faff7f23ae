// Package chat defines the provider-agnostic chat completion capability
// consumed by the decision and interpretation pipeline.
//
// The `chat.go` file contains the message types and the Completer interface.
// The `options.go` file provides per-call options to configure a completion.
// Provider implementations live in subpackages.
package chat

import (
	"context"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
)

// Role is the type of chat message.
type Role string

const (
	// RoleSystem is a message that primes the model.
	RoleSystem Role = "system"
	// RoleUser is a message sent by a human.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the model.
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message in a completion request
// or a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a Message with the system role.
func SystemMessage(s string) Message {
	return Message{Role: RoleSystem, Content: s}
}

// UserMessage creates a Message with the user role.
func UserMessage(s string) Message {
	return Message{Role: RoleUser, Content: s}
}

// AssistantMessage creates a Message with the assistant role.
func AssistantMessage(s string) Message {
	return Message{Role: RoleAssistant, Content: s}
}

// Completer is the interface chat providers implement.
// Implementations send the ordered message sequence to the model and
// return the generated text.
type Completer interface {
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// Complete asks the model to generate text from a sequence of
	// role-tagged messages.
	Complete(ctx context.Context, messages []Message, options ...CallOption) (string, error)
}
