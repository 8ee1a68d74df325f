package handler

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/config"
	"github.com/todo-app/backend/internal/model"
	"github.com/todo-app/backend/internal/observability"
)

const (
	authUserKey     = "auth_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// Gate is one pre-dispatch check. A non-nil error stops the request.
type Gate func(c *gin.Context) error

// Gates runs the given checks in order and aborts on the first failure.
func Gates(gates ...Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, gate := range gates {
			if err := gate(c); err != nil {
				writeError(c, err)
				return
			}
		}
		c.Next()
	}
}

func CSRFGate(guard *auth.CSRFGuard) Gate {
	return func(c *gin.Context) error {
		return guard.Check(c.Request)
	}
}

// AuthGate resolves the session user and binds it to both the gin context
// and the request context.
func AuthGate(authenticator *auth.Authenticator) Gate {
	return func(c *gin.Context) error {
		if c.Request.Method == http.MethodOptions {
			return nil
		}
		user, err := authenticator.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			return err
		}
		c.Set(authUserKey, user)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		return nil
	}
}

func GetAuthUser(c *gin.Context) *model.User {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	if user, ok := auth.UserFromContext(c.Request.Context()); ok {
		return user
	}
	return nil
}

func CORSMiddleware(cfg config.CORSConfig, csrfHeader string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}
	_, allowAny := originMap["*"]
	allowHeaders := strings.Join(cfg.AllowedHeaders, ", ")
	allowMethods := strings.Join(cfg.AllowedMethods, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := originMap[origin]
			if ok || allowAny {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if cfg.AllowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", allowHeaders)
				c.Header("Access-Control-Allow-Methods", allowMethods)
				auth.AppendExposeHeader(c.Writer.Header(), csrfHeader)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				observability.CapturePanic(rec, debug.Stack(), c.Request.Method, c.Request.URL.Path)
				logger.ErrorContext(c.Request.Context(), "panic_recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", rec,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
