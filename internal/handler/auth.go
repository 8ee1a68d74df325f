package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/model"
	"github.com/todo-app/backend/internal/service"
)

type AuthHandler struct {
	svc       *service.AuthService
	issuer    *auth.Issuer
	refresher *auth.Refresher
}

func NewAuthHandler(svc *service.AuthService, issuer *auth.Issuer, refresher *auth.Refresher) *AuthHandler {
	return &AuthHandler{svc: svc, issuer: issuer, refresher: refresher}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account and starts a session (access, refresh and CSRF cookies).
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Email and password"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, model.NewUserResponse(user))
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request")
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

// Refresh godoc
// @Summary Rotate the session
// @Description Uses the refresh token cookie only and issues a new cookie triple.
// @Tags auth
// @Produce json
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	user, err := h.refresher.Refresh(c.Request.Context(), c.Request, c.Writer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookies.
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.issuer.ClearCookies(c.Writer)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, auth.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

func (h *AuthHandler) startSession(c *gin.Context, user *model.User) bool {
	session, err := h.issuer.Issue(user)
	if err != nil {
		writeError(c, err)
		return false
	}
	h.issuer.AttachCookies(c.Writer, session)
	return true
}
