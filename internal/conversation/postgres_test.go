package conversation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &PostgresStore{DB: db}
	now := time.Now()

	query := regexp.QuoteMeta(`
INSERT INTO conversations (id, user_id, status, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING created_at, updated_at`)
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "u1", "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	conv, err := st.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if conv.UserID != "u1" || conv.Status != StatusActive || conv.ID == "" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &PostgresStore{DB: db}

	query := regexp.QuoteMeta(`
SELECT id, user_id, status, created_at, updated_at FROM conversations WHERE id = $1`)
	mock.ExpectQuery(query).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "created_at", "updated_at"}))

	if _, err := st.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresAppendMessageWithTools(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &PostgresStore{DB: db}
	now := time.Now()

	query := regexp.QuoteMeta(`
INSERT INTO messages (id, conversation_id, role, content, tools_used, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
RETURNING created_at`)
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "conv-1", "ASSISTANT", "done", []byte(`["customer_search","send_email_reminder"]`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	msg, err := st.AppendMessage(context.Background(), Message{
		ConversationID: "conv-1",
		Role:           RoleAssistant,
		Content:        "done",
		ToolsUsed:      []string{"customer_search", "send_email_reminder"},
	})
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if msg.ID == "" || msg.CreatedAt.IsZero() {
		t.Fatalf("message not populated: %+v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresListMessagesDecodesTools(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &PostgresStore{DB: db}
	now := time.Now()

	query := regexp.QuoteMeta(`
SELECT id, conversation_id, role, content, tools_used, created_at
FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`)
	mock.ExpectQuery(query).
		WithArgs("conv-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "role", "content", "tools_used", "created_at"}).
			AddRow("m1", "conv-1", "USER", "hello", nil, now).
			AddRow("m2", "conv-1", "ASSISTANT", "done", []byte(`["customer_search"]`), now.Add(time.Second)))

	msgs, err := st.ListMessages(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ToolsUsed != nil {
		t.Fatalf("user message should carry no tools: %+v", msgs[0])
	}
	if len(msgs[1].ToolsUsed) != 1 || msgs[1].ToolsUsed[0] != "customer_search" {
		t.Fatalf("tools not decoded: %+v", msgs[1])
	}
}

func TestPostgresListIdleActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &PostgresStore{DB: db}
	cutoff := time.Now().Add(-24 * time.Hour)

	query := regexp.QuoteMeta(`
SELECT id, user_id, status, created_at, updated_at
FROM conversations WHERE status = $1 AND updated_at < $2`)
	mock.ExpectQuery(query).
		WithArgs("ACTIVE", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "created_at", "updated_at"}).
			AddRow("conv-1", "u1", "ACTIVE", cutoff.Add(-time.Hour), cutoff.Add(-time.Hour)))

	idle, err := st.ListIdleActive(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ListIdleActive: %v", err)
	}
	if len(idle) != 1 || idle[0].ID != "conv-1" {
		t.Fatalf("unexpected idle set: %+v", idle)
	}
}
