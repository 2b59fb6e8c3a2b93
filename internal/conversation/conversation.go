package conversation

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a conversation.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusArchived  Status = "ARCHIVED"
	StatusFailed    Status = "FAILED"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
	RoleSystem    Role = "SYSTEM"
)

// ErrNotFound is returned when a conversation id resolves to nothing.
var ErrNotFound = errors.New("conversation not found")

// Conversation is a durable exchange between a user and the agent.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one entry in a conversation. Messages are append-only: once
// written they are never mutated.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	ToolsUsed      []string  `json:"tools_used,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store durably persists conversations and their messages. Implementations
// must serialize writes per conversation id so concurrent turns on
// different conversations cannot interleave a single conversation's
// messages.
type Store interface {
	Create(ctx context.Context, userID string) (Conversation, error)
	FindByID(ctx context.Context, id string) (Conversation, error)
	Save(ctx context.Context, conv Conversation) (Conversation, error)
	AppendMessage(ctx context.Context, msg Message) (Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
}

// Sweeper is implemented by stores that can enumerate idle conversations
// for the background janitor.
type Sweeper interface {
	ListIdleActive(ctx context.Context, olderThan time.Time) ([]Conversation, error)
}
