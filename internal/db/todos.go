package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/todo-app/backend/internal/model"
)

const todoColumns = `id, user_id, title, description, status, due_date, created_at, updated_at`

func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.Status,
		&todo.DueDate,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

func collectTodos(rows pgx.Rows) ([]model.Todo, error) {
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (db *Postgres) ListTodos(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todo_items
		WHERE user_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		OFFSET $3
		LIMIT $4
	`
	rows, err := db.Pool.Query(ctx, query, filter.UserID, string(filter.Status), filter.Skip, filter.Limit)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

// GetTodo returns model.ErrNotFound for rows owned by another user.
func (db *Postgres) GetTodo(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todo_items WHERE id = $1 AND user_id = $2`
	return scanTodo(db.Pool.QueryRow(ctx, query, todoID, userID))
}

func (db *Postgres) CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	query := `
		INSERT INTO todo_items (user_id, title, description, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + todoColumns
	return scanTodo(db.Pool.QueryRow(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
		string(todo.Status),
		todo.DueDate,
	))
}

// UpdateTodo writes every mutable column of todo; callers merge partial
// updates before calling.
func (db *Postgres) UpdateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	query := `
		UPDATE todo_items
		SET title = $3,
			description = $4,
			status = $5,
			due_date = $6,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	return scanTodo(db.Pool.QueryRow(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		string(todo.Status),
		todo.DueDate,
	))
}

func (db *Postgres) DeleteTodo(ctx context.Context, userID, todoID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM todo_items WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListDueTodos returns open todos due within [from, to], soonest first.
func (db *Postgres) ListDueTodos(ctx context.Context, from, to time.Time) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todo_items
		WHERE due_date IS NOT NULL
		  AND due_date >= $1
		  AND due_date <= $2
		  AND status <> 'completed'
		ORDER BY due_date ASC, id ASC
	`
	rows, err := db.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}
