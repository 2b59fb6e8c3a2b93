package server

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/rgonzalez/agentd/internal/conversation"
)

func TestJanitorSweepArchivesIdleConversations(t *testing.T) {
	store := conversation.NewMemoryStore()
	ctx := context.Background()

	idle, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	completed, _ := store.Create(ctx, "u2")
	completed.Status = conversation.StatusCompleted
	if _, err := store.Save(ctx, completed); err != nil {
		t.Fatalf("Save: %v", err)
	}

	j := &Janitor{
		Store:     store,
		Sweeper:   store,
		Cron:      "@hourly",
		IdleAfter: 0, // everything created before the sweep counts as idle
		Logger:    log.New(log.Writer(), "[JANITOR] ", log.LstdFlags),
	}
	time.Sleep(5 * time.Millisecond)
	j.sweep()

	got, _ := store.FindByID(ctx, idle.ID)
	if got.Status != conversation.StatusArchived {
		t.Fatalf("idle ACTIVE conversation should be archived, got %s", got.Status)
	}
	got, _ = store.FindByID(ctx, completed.ID)
	if got.Status != conversation.StatusCompleted {
		t.Fatalf("completed conversations must be left alone, got %s", got.Status)
	}
}

func TestJanitorDue(t *testing.T) {
	j := &Janitor{
		Cron:   "0 * * * *",
		Logger: log.New(log.Writer(), "[JANITOR] ", log.LstdFlags),
	}

	base := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	j.lastSweep = base
	if j.due(base.Add(10 * time.Minute)) {
		t.Fatalf("should not be due before the next cron tick")
	}
	if !j.due(base.Add(time.Hour)) {
		t.Fatalf("should be due after the cron tick passes")
	}
}

func TestJanitorDueRejectsBadCron(t *testing.T) {
	j := &Janitor{
		Cron:   "not a cron line",
		Logger: log.New(log.Writer(), "[JANITOR] ", log.LstdFlags),
	}
	j.lastSweep = time.Now()
	if j.due(time.Now().Add(time.Hour)) {
		t.Fatalf("a bad cron expression must never fire")
	}
}
