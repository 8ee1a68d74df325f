package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todo-app/backend/internal/mocks"
	"github.com/todo-app/backend/internal/model"
	"go.uber.org/mock/gomock"
)

func TestSendDueNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTodoRepository(ctrl)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewReminderService(repo, 24*time.Hour, func() time.Time { return now }, nil)

	due := now.Add(2 * time.Hour)
	repo.EXPECT().
		ListDueTodos(gomock.Any(), now, now.Add(24*time.Hour)).
		Return([]model.Todo{
			{ID: 1, UserID: 1, Title: "a", DueDate: &due},
			{ID: 2, UserID: 2, Title: "b", DueDate: &due},
		}, nil)

	count, err := svc.SendDueNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSendDueNotificationsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTodoRepository(ctrl)
	svc := NewReminderService(repo, time.Hour, nil, nil)

	repo.EXPECT().ListDueTodos(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	count, err := svc.SendDueNotifications(context.Background())
	require.Error(t, err)
	assert.Zero(t, count)
}
