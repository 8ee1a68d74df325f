package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/model"
	"github.com/todo-app/backend/internal/observability"
	"github.com/todo-app/backend/internal/service"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the CSRF errors wrap auth.ErrForbidden and must match first.
var errorMappings = []errorMapping{
	{auth.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
	{auth.ErrCSRFTokenMissing, http.StatusForbidden, "CSRF token missing"},
	{auth.ErrCSRFTokenInvalid, http.StatusForbidden, "CSRF token invalid"},
	{auth.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{service.ErrConflict, http.StatusConflict, "email already registered"},
	{service.ErrInactiveUser, http.StatusForbidden, "inactive user"},
	{service.ErrPasswordTooLong, http.StatusBadRequest, "password must be at most 72 bytes"},
	{model.ErrNotFound, http.StatusNotFound, "not found"},
}

func lookupError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

// writeError aborts the chain with the mapped status. Unmapped errors are
// logged and reported; their text never reaches the client.
func writeError(c *gin.Context, err error) {
	status, message := lookupError(err)
	if errors.Is(err, auth.ErrUnauthenticated) {
		c.Header("WWW-Authenticate", "Bearer")
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
		observability.CaptureException(err)
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: message})
}

func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Error: message})
}
