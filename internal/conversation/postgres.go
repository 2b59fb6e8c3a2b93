package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore persists conversations in PostgreSQL.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore opens a connection for the given DSN and verifies it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, userID string) (Conversation, error) {
	conv := Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: StatusActive,
	}
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO conversations (id, user_id, status, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING created_at, updated_at`,
		conv.ID, conv.UserID, string(conv.Status),
	).Scan(&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Conversation, error) {
	var conv Conversation
	var status string
	err := s.DB.QueryRowContext(ctx, `
SELECT id, user_id, status, created_at, updated_at FROM conversations WHERE id = $1`,
		id,
	).Scan(&conv.ID, &conv.UserID, &status, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("find conversation: %w", err)
	}
	conv.Status = Status(status)
	return conv, nil
}

func (s *PostgresStore) Save(ctx context.Context, conv Conversation) (Conversation, error) {
	err := s.DB.QueryRowContext(ctx, `
UPDATE conversations SET status = $2, updated_at = NOW() WHERE id = $1
RETURNING updated_at`,
		conv.ID, string(conv.Status),
	).Scan(&conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("save conversation: %w", err)
	}
	return conv, nil
}

func (s *PostgresStore) AppendMessage(ctx context.Context, msg Message) (Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	var toolsUsed interface{}
	if len(msg.ToolsUsed) > 0 {
		b, err := json.Marshal(msg.ToolsUsed)
		if err != nil {
			return Message{}, fmt.Errorf("marshal tools_used: %w", err)
		}
		toolsUsed = b
	}
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO messages (id, conversation_id, role, content, tools_used, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
RETURNING created_at`,
		msg.ID, msg.ConversationID, string(msg.Role), msg.Content, toolsUsed,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, conversation_id, role, content, tools_used, created_at
FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var msg Message
		var role string
		var toolsUsed []byte
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &toolsUsed, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = Role(role)
		if len(toolsUsed) > 0 {
			_ = json.Unmarshal(toolsUsed, &msg.ToolsUsed)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// ListIdleActive returns ACTIVE conversations untouched since olderThan.
func (s *PostgresStore) ListIdleActive(ctx context.Context, olderThan time.Time) ([]Conversation, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, user_id, status, created_at, updated_at
FROM conversations WHERE status = $1 AND updated_at < $2`,
		string(StatusActive), olderThan)
	if err != nil {
		return nil, fmt.Errorf("list idle conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var conv Conversation
		var status string
		if err := rows.Scan(&conv.ID, &conv.UserID, &status, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conv.Status = Status(status)
		out = append(out, conv)
	}
	return out, rows.Err()
}
