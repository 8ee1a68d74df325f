package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/config"
	"github.com/todo-app/backend/internal/service"
)

type RouterDeps struct {
	Config      *config.Config
	Auth        *auth.Kit
	AuthService *service.AuthService
	TodoService *service.TodoService
	DB          Pinger
	Logger      *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	router := gin.New()
	router.Use(
		RequestID(),
		Recovery(logger),
		RequestLogger(logger),
		CORSMiddleware(cfg.CORS, cfg.Auth.CSRFHeaderName),
	)

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/healthz", NewHealthHandler(deps.DB).Healthz)
	router.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(deps.AuthService, deps.Auth.Issuer, deps.Auth.Refresher)
	todoHandler := NewTodoHandler(deps.TodoService)

	csrf := CSRFGate(deps.Auth.CSRF)
	authenticated := AuthGate(deps.Auth.Authenticator)

	api := router.Group(cfg.HTTP.APIPrefix)
	api.Use(Gates(csrf))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", Gates(authenticated), authHandler.Logout)
	authGroup.GET("/me", Gates(authenticated), authHandler.Me)

	todos := api.Group("/todos", Gates(authenticated))
	todos.GET("", todoHandler.ListTodos)
	todos.POST("", todoHandler.CreateTodo)
	todos.GET("/:id", todoHandler.GetTodo)
	todos.PUT("/:id", todoHandler.UpdateTodo)
	todos.DELETE("/:id", todoHandler.DeleteTodo)

	return router
}
