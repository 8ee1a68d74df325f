// @title Todo API
// @version 1.0
// @description Multi-user todo service with cookie sessions and CSRF protection.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/config"
	"github.com/todo-app/backend/internal/db"
	"github.com/todo-app/backend/internal/handler"
	"github.com/todo-app/backend/internal/lock"
	"github.com/todo-app/backend/internal/logging"
	"github.com/todo-app/backend/internal/observability"
	"github.com/todo-app/backend/internal/service"
	"github.com/todo-app/backend/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	if err := observability.InitSentry(cfg.Sentry); err != nil {
		logger.Warn("sentry init failed", "error", err)
	}
	defer observability.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	store := db.NewPostgres(pool)

	kit, err := auth.NewKit(cfg.Auth, cfg.HTTP.APIPrefix, store, nil, logger)
	if err != nil {
		return err
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Config:      cfg,
		Auth:        kit,
		AuthService: service.NewAuthService(store, kit.Passwords, logger),
		TodoService: service.NewTodoService(store),
		DB:          store,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	locker, closeLocker, err := newLocker(cfg.Redis)
	if err != nil {
		return err
	}
	defer closeLocker()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Reminder.Enabled {
		reminders := service.NewReminderService(store, cfg.Reminder.Window, nil, logger)
		runner := worker.NewReminderRunner(reminders, locker, cfg.Reminder, logger)
		g.Go(func() error {
			return runner.Run(gctx)
		})
	}

	return g.Wait()
}

// newLocker falls back to a local no-op lock when Redis is not configured.
func newLocker(cfg config.RedisConfig) (lock.Locker, func(), error) {
	if cfg.URL == "" {
		return lock.NoopLocker{}, func() {}, nil
	}
	client, err := lock.NewRedisClient(cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedisLocker(client), func() { _ = client.Close() }, nil
}
