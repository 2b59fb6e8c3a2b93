package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rgonzalez/agentd/config"
	"github.com/rgonzalez/agentd/internal/agent"
	"github.com/rgonzalez/agentd/internal/conversation"
	"github.com/rgonzalez/agentd/internal/plan"
	"github.com/rgonzalez/agentd/internal/planner"
	"github.com/rgonzalez/agentd/internal/provider"
	"github.com/rgonzalez/agentd/internal/telemetry"
	"github.com/rgonzalez/agentd/internal/tool"
)

// Run wires the service together and serves HTTP until the listener fails.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	store, sweeper, rdb, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	directory, err := tool.NewDirectory()
	if err != nil {
		return fmt.Errorf("building customer directory: %w", err)
	}
	registry := tool.NewRegistry(
		tool.NewCustomerSearch(directory),
		tool.NewEmailReminder(),
	)

	factory, err := provider.FromConfig(cfg.LLM)
	if err != nil {
		return err
	}

	validator := plan.NewValidator(cfg.Tools.Allowed)
	var pl planner.Planner
	switch cfg.Planner.Mode {
	case "llm":
		plannerLogger := log.New(log.Writer(), "[PLANNER] ", log.LstdFlags)
		pl = planner.NewLLMPlanner(factory, validator, registry, plannerLogger)
	default:
		pl = planner.NewRulePlanner()
	}

	metrics := telemetry.New()
	svc := agent.NewService(store, registry, pl, factory, cfg.LLM.Synthesis, metrics)

	ch := &ConversationsHandler{Service: svc}
	ch.Register(e.Group("/conversations"))
	ph := &ProvidersHandler{Factory: factory}
	ph.Register(e.Group("/llm-providers"))

	if cfg.Janitor.Enabled {
		if sweeper == nil {
			return fmt.Errorf("janitor enabled but storage driver %q cannot enumerate idle conversations", cfg.Storage.Driver)
		}
		j := &Janitor{
			Store:     store,
			Sweeper:   sweeper,
			Rdb:       rdb,
			Cron:      cfg.Janitor.Cron,
			IdleAfter: cfg.Janitor.IdleAfter,
			Logger:    log.New(log.Writer(), "[JANITOR] ", log.LstdFlags),
			Stop:      make(chan struct{}),
		}
		j.Start()
		defer close(j.Stop)
	}

	return e.Start(cfg.Server.Address)
}

// openStore builds the conversation store for the configured driver. The
// redis client is returned separately so the janitor can reuse it for
// locking even when storage runs on postgres.
func openStore(ctx context.Context, cfg *config.Config) (conversation.Store, conversation.Sweeper, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.Storage.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
	}

	switch cfg.Storage.Driver {
	case "postgres":
		if err := Migrate("file://migrations", cfg.Storage.Postgres.DSN(), "up", 0); err != nil {
			return nil, nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
		st, err := conversation.NewPostgresStore(ctx, cfg.Storage.Postgres.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return st, st, rdb, nil
	case "redis":
		if rdb == nil {
			return nil, nil, nil, fmt.Errorf("storage.redis.host not configured")
		}
		st, err := conversation.NewRedisStore(ctx, rdb)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, st, rdb, nil
	case "memory":
		st := conversation.NewMemoryStore()
		return st, st, rdb, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
