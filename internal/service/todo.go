package service

import (
	"context"
	"time"

	"github.com/todo-app/backend/internal/model"
)

const (
	DefaultTodoLimit = 20
	MaxTodoLimit     = 100
)

// TodoRepository scopes every call by owner. Rows owned by someone else
// are reported as model.ErrNotFound.
type TodoRepository interface {
	ListTodos(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error)
	GetTodo(ctx context.Context, userID, todoID int64) (*model.Todo, error)
	CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	UpdateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID int64) error
	ListDueTodos(ctx context.Context, from, to time.Time) ([]model.Todo, error)
}

type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) List(ctx context.Context, userID int64, q model.TodoListQuery) ([]model.Todo, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultTodoLimit
	}
	if limit > MaxTodoLimit {
		limit = MaxTodoLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	return s.repo.ListTodos(ctx, model.TodoFilter{
		UserID: userID,
		Status: q.Status,
		Skip:   skip,
		Limit:  limit,
	})
}

func (s *TodoService) Get(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	return s.repo.GetTodo(ctx, userID, todoID)
}

func (s *TodoService) Create(ctx context.Context, userID int64, req model.TodoCreateRequest) (*model.Todo, error) {
	status := req.Status
	if status == "" {
		status = model.TodoStatusPending
	}
	return s.repo.CreateTodo(ctx, model.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
	})
}

// Update applies only the fields present in req.
func (s *TodoService) Update(ctx context.Context, userID, todoID int64, req model.TodoUpdateRequest) (*model.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = req.Description
	}
	if req.Status != nil {
		todo.Status = *req.Status
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}

	return s.repo.UpdateTodo(ctx, *todo)
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) error {
	return s.repo.DeleteTodo(ctx, userID, todoID)
}
