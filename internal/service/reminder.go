package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/todo-app/backend/internal/model"
)

type DueTodoLister interface {
	ListDueTodos(ctx context.Context, from, to time.Time) ([]model.Todo, error)
}

// ReminderService finds open todos that fall due soon. Delivery is a log
// line per todo.
type ReminderService struct {
	repo   DueTodoLister
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewReminderService(repo DueTodoLister, window time.Duration, now func() time.Time, logger *slog.Logger) *ReminderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderService{repo: repo, window: window, now: now, logger: logger}
}

// SendDueNotifications returns how many todos were due within the window.
func (s *ReminderService) SendDueNotifications(ctx context.Context) (int, error) {
	now := s.now().UTC()
	todos, err := s.repo.ListDueTodos(ctx, now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("list due todos: %w", err)
	}

	for _, todo := range todos {
		s.logger.InfoContext(ctx, "todo due soon",
			"todo_id", todo.ID,
			"title", todo.Title,
			"user_id", todo.UserID,
			"due_date", todo.DueDate,
		)
	}
	s.logger.InfoContext(ctx, "reminder scan finished", "count", len(todos))
	return len(todos), nil
}
