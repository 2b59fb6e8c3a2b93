package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists conversations in Redis: a hash per conversation, a
// list per message log and a set of all conversation ids for sweeping.
type RedisStore struct {
	rdb *redis.Client
}

const convIndexKey = "conversations"

// NewRedisStore wraps the given client and verifies the connection.
func NewRedisStore(ctx context.Context, rdb *redis.Client) (*RedisStore, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func convKey(id string) string     { return "conv:" + id }
func messagesKey(id string) string { return "conv:" + id + ":messages" }

func (s *RedisStore) Create(ctx context.Context, userID string) (Conversation, error) {
	now := time.Now().UTC()
	conv := Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.writeConversation(ctx, conv); err != nil {
		return Conversation{}, err
	}
	if err := s.rdb.SAdd(ctx, convIndexKey, conv.ID).Err(); err != nil {
		return Conversation{}, fmt.Errorf("index conversation: %w", err)
	}
	return conv, nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (Conversation, error) {
	fields, err := s.rdb.HGetAll(ctx, convKey(id)).Result()
	if err != nil {
		return Conversation{}, fmt.Errorf("find conversation: %w", err)
	}
	if len(fields) == 0 {
		return Conversation{}, ErrNotFound
	}
	conv := Conversation{
		ID:     id,
		UserID: fields["user_id"],
		Status: Status(fields["status"]),
	}
	conv.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	conv.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return conv, nil
}

func (s *RedisStore) Save(ctx context.Context, conv Conversation) (Conversation, error) {
	if _, err := s.FindByID(ctx, conv.ID); err != nil {
		return Conversation{}, err
	}
	conv.UpdatedAt = time.Now().UTC()
	if err := s.writeConversation(ctx, conv); err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, msg Message) (Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("marshal message: %w", err)
	}
	if err := s.rdb.RPush(ctx, messagesKey(msg.ConversationID), b).Err(); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *RedisStore) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	raw, err := s.rdb.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// ListIdleActive scans the conversation index for ACTIVE conversations
// untouched since olderThan.
func (s *RedisStore) ListIdleActive(ctx context.Context, olderThan time.Time) ([]Conversation, error) {
	ids, err := s.rdb.SMembers(ctx, convIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	var out []Conversation
	for _, id := range ids {
		conv, err := s.FindByID(ctx, id)
		if err != nil {
			continue
		}
		if conv.Status == StatusActive && conv.UpdatedAt.Before(olderThan) {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (s *RedisStore) writeConversation(ctx context.Context, conv Conversation) error {
	err := s.rdb.HSet(ctx, convKey(conv.ID), map[string]interface{}{
		"user_id":    conv.UserID,
		"status":     string(conv.Status),
		"created_at": conv.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": conv.UpdatedAt.Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	return nil
}
