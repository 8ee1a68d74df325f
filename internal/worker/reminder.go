package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/todo-app/backend/internal/config"
	"github.com/todo-app/backend/internal/lock"
)

// ReminderScanner is satisfied by service.ReminderService.
type ReminderScanner interface {
	SendDueNotifications(ctx context.Context) (int, error)
}

// ReminderRunner runs the scan once at start and then on every tick until
// its context is cancelled.
type ReminderRunner struct {
	scanner  ReminderScanner
	locker   lock.Locker
	interval time.Duration
	lockKey  string
	lockTTL  time.Duration
	logger   *slog.Logger
}

func NewReminderRunner(scanner ReminderScanner, locker lock.Locker, cfg config.ReminderConfig, logger *slog.Logger) *ReminderRunner {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderRunner{
		scanner:  scanner,
		locker:   locker,
		interval: cfg.Interval,
		lockKey:  cfg.LockKey,
		lockTTL:  cfg.LockTTL,
		logger:   logger,
	}
}

func (r *ReminderRunner) Run(ctx context.Context) error {
	r.logger.Info("reminder runner started", "interval", r.interval.String())
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reminder runner stopped")
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick never returns an error; a failed scan is retried on the next tick.
func (r *ReminderRunner) tick(ctx context.Context) {
	release, ok, err := r.locker.TryLock(ctx, r.lockKey, r.lockTTL)
	if err != nil {
		r.logger.Error("reminder lock failed", "error", err)
		return
	}
	if !ok {
		r.logger.Debug("reminder tick skipped, lock held elsewhere")
		return
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("reminder lock release failed", "error", err)
		}
	}()

	count, err := r.scanner.SendDueNotifications(ctx)
	if err != nil {
		r.logger.Error("reminder scan failed", "error", err)
		return
	}
	r.logger.Info("reminder tick complete", "count", count)
}
