package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"github.com/rgonzalez/agentd/internal/conversation"
)

// Janitor archives conversations that have been sitting ACTIVE with no
// activity past the idle window. It runs on a cron schedule and takes a
// redis lock so only one replica sweeps at a time.
type Janitor struct {
	Store     conversation.Store
	Sweeper   conversation.Sweeper
	Rdb       *redis.Client
	Cron      string
	IdleAfter time.Duration
	Logger    *log.Logger
	Stop      chan struct{}

	lastSweep time.Time
}

func (j *Janitor) Start() {
	ticker := time.NewTicker(1 * time.Minute)
	j.lastSweep = time.Now()
	go func() {
		for {
			select {
			case <-j.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				if !j.due(time.Now()) {
					continue
				}
				j.lastSweep = time.Now()
				j.sweep()
			}
		}
	}()
}

func (j *Janitor) due(now time.Time) bool {
	expr, err := cronexpr.Parse(j.Cron)
	if err != nil {
		j.Logger.Printf("bad cron expression %q: %v", j.Cron, err)
		return false
	}
	next := expr.Next(j.lastSweep)
	return !next.IsZero() && !next.After(now)
}

func (j *Janitor) sweep() {
	ctx := context.Background()

	if j.Rdb != nil {
		ok, err := j.Rdb.SetNX(ctx, "janitor:lock", "1", 2*time.Minute).Result()
		if err != nil {
			j.Logger.Printf("janitor lock error: %v", err)
			return
		}
		if !ok {
			return
		}
		defer j.Rdb.Del(ctx, "janitor:lock")
	}

	cutoff := time.Now().Add(-j.IdleAfter)
	idle, err := j.Sweeper.ListIdleActive(ctx, cutoff)
	if err != nil {
		j.Logger.Printf("listing idle conversations: %v", err)
		return
	}

	archived := 0
	for _, conv := range idle {
		conv.Status = conversation.StatusArchived
		if _, err := j.Store.Save(ctx, conv); err != nil {
			j.Logger.Printf("archiving conversation %s: %v", conv.ID, err)
			continue
		}
		archived++
	}
	if archived > 0 {
		j.Logger.Printf("archived %d idle conversations", archived)
	}
}
