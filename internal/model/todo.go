package model

import "time"

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted:
		return true
	}
	return false
}

type Todo struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TodoStatus `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TodoCreateRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	Status      TodoStatus `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	DueDate     *time.Time `json:"due_date"`
}

// TodoUpdateRequest carries a partial update; nil fields are left as-is.
type TodoUpdateRequest struct {
	Title       *string     `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string     `json:"description"`
	Status      *TodoStatus `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	DueDate     *time.Time  `json:"due_date"`
}

type TodoListQuery struct {
	Status TodoStatus `form:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Skip   int        `form:"skip" binding:"min=0"`
	Limit  int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

// TodoFilter is the store-level form of a list request.
type TodoFilter struct {
	UserID int64
	Status TodoStatus
	Skip   int
	Limit  int
}
