package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"taskbox/internal/audit"
	authHandler "taskbox/internal/auth/handler"
	authService "taskbox/internal/auth/service"
	userStore "taskbox/internal/auth/store/user"
	"taskbox/internal/auth/token"
	httpapi "taskbox/internal/http"
	"taskbox/internal/platform/config"
	"taskbox/internal/platform/httpserver"
	"taskbox/internal/platform/logger"
	"taskbox/internal/platform/metrics"
	"taskbox/internal/platform/postgres"
	todoHandler "taskbox/internal/todo/handler"
	todoService "taskbox/internal/todo/service"
	todoStore "taskbox/internal/todo/store/todo"
)

const auditInboxSize = 256

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	tokens, err := token.New(cfg.SecretKey, cfg.TokenAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		users  userStore.Store
		todos  todoStore.Store
		events audit.Store
		db     *sql.DB
	)

	if cfg.DatabaseURL != "" {
		sqlDB, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		if err := postgres.Migrate(sqlDB); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		users = userStore.NewPostgres(sqlDB)
		todos = todoStore.NewPostgres(sqlDB)
		events = audit.NewPostgres(sqlDB)
		db = sqlDB
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		users = userStore.NewInMemoryStore()
		todos = todoStore.NewInMemoryStore()
		events = audit.NewInMemoryStore()
	}

	inbox := make(chan audit.Event, auditInboxSize)
	auditor := audit.NewAsyncPublisher(inbox)
	worker := audit.NewWorker(events, inbox, log)

	auth := authService.NewService(users, tokens,
		authService.WithAudit(auditor),
		authService.WithMetrics(m),
	)
	todoSvc := todoService.NewService(todos,
		todoService.WithAudit(auditor),
		todoService.WithMetrics(m),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:    authHandler.New(auth, auth, log),
		Todos:   todoHandler.New(todoSvc, auth, log),
		Logger:  log,
		Metrics: m,
		DB:      db,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting taskbox", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := worker.Run(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
