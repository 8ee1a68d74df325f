// Package mocks provides gomock implementations of the storage interfaces.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserStore(ctrl)
//	users.EXPECT().GetUserByID(gomock.Any(), int64(1)).Return(user, nil)
package mocks

// MockUserStore: GetUserByID, GetUserByEmail
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_store_mock.go github.com/todo-app/backend/internal/auth UserStore

// MockTodoRepository: ListTodos, GetTodo, CreateTodo, UpdateTodo, DeleteTodo, ListDueTodos
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=todo_repository_mock.go github.com/todo-app/backend/internal/service TodoRepository
