package handler

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/todo-app/backend/internal/db"
	"github.com/todo-app/backend/internal/model"
)

// memoryStore is an in-memory stand-in for db.Postgres.
type memoryStore struct {
	mu      sync.Mutex
	users   map[int64]*model.User
	todos   map[int64]*model.Todo
	nextID  int64
	pingErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[int64]*model.User{}, todos: map[int64]*model.Todo{}}
}

func (s *memoryStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *memoryStore) CreateUser(_ context.Context, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, db.ErrDuplicateEmail
		}
	}
	s.nextID++
	u := &model.User{ID: s.nextID, Email: email, PasswordHash: passwordHash, IsActive: true, CreatedAt: time.Now().UTC()}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *memoryStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memoryStore) setActive(id int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id].IsActive = active
}

func (s *memoryStore) ListTodos(_ context.Context, f model.TodoFilter) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, 0)
	for _, t := range s.todos {
		if t.UserID != f.UserID || (f.Status != "" && t.Status != f.Status) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Skip >= len(out) {
		return []model.Todo{}, nil
	}
	out = out[f.Skip:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memoryStore) GetTodo(_ context.Context, userID, todoID int64) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, model.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *memoryStore) CreateTodo(_ context.Context, todo model.Todo) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	todo.ID = s.nextID
	todo.CreatedAt = time.Now().UTC()
	todo.UpdatedAt = todo.CreatedAt
	s.todos[todo.ID] = &todo
	copied := todo
	return &copied, nil
}

func (s *memoryStore) UpdateTodo(_ context.Context, todo model.Todo) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.todos[todo.ID]
	if !ok || existing.UserID != todo.UserID {
		return nil, model.ErrNotFound
	}
	todo.UpdatedAt = time.Now().UTC()
	s.todos[todo.ID] = &todo
	copied := todo
	return &copied, nil
}

func (s *memoryStore) DeleteTodo(_ context.Context, userID, todoID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return model.ErrNotFound
	}
	delete(s.todos, todoID)
	return nil
}

func (s *memoryStore) ListDueTodos(context.Context, time.Time, time.Time) ([]model.Todo, error) {
	return nil, errors.New("not used")
}
