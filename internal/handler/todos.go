package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/model"
	"github.com/todo-app/backend/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ListTodos godoc
// @Summary List todos
// @Description Returns the current user's todos, newest first.
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed)
// @Param skip query int false "Items to skip" minimum(0)
// @Param limit query int false "Maximum items" minimum(1) maximum(100) default(20)
// @Success 200 {array} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/todos [get]
func (h *TodoHandler) ListTodos(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var q model.TodoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, "invalid query")
		return
	}

	todos, err := h.svc.List(c.Request.Context(), user.ID, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodo godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-CSRF-Token header string true "CSRF token"
// @Param request body model.TodoCreateRequest true "Todo"
// @Success 201 {object} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/todos [post]
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req model.TodoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request")
		return
	}

	todo, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// GetTodo godoc
// @Summary Get a todo
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/todos/{id} [get]
func (h *TodoHandler) GetTodo(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	todo, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// UpdateTodo godoc
// @Summary Update a todo
// @Description Partial update; omitted fields keep their value.
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Todo ID"
// @Param request body model.TodoUpdateRequest true "Fields to change"
// @Success 200 {object} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	var req model.TodoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request")
		return
	}

	todo, err := h.svc.Update(c.Request.Context(), user.ID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Tags todos
// @Security BearerAuth
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func requireUser(c *gin.Context) (*model.User, bool) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, auth.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(c, "invalid todo id")
		return 0, false
	}
	return id, true
}
