package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/interfaces/http/middleware"
	"habita-coop.backend/internal/interfaces/http/response"
	"habita-coop.backend/internal/usecases"
	"habita-coop.backend/pkg/redis"
)

type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterUserInput) (*usecases.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*usecases.AuthResponse, error)
	AssociationLogin(ctx context.Context, email, password string) (*usecases.AuthResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	authUsecase AuthService
	sessions    *redis.SessionStore
	sessionTTL  time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService, sessions *redis.SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, sessions: sessions, sessionTTL: sessionTTL}
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register registers a new cooperative member
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	auth, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessionID := h.createSession(c, auth)
	response.Success(c, http.StatusCreated, gin.H{
		"user":      auth.User,
		"tokens":    auth.Tokens,
		"sessionId": sessionID,
	})
}

// Login authenticates a member
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	auth, err := h.authUsecase.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessionID := h.createSession(c, auth)
	response.Success(c, http.StatusOK, gin.H{
		"user":      auth.User,
		"tokens":    auth.Tokens,
		"sessionId": sessionID,
	})
}

// AssociationLogin authenticates an association back-office account
// POST /api/v1/auth/association/login
func (h *AuthHandler) AssociationLogin(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	auth, err := h.authUsecase.AssociationLogin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessionID := h.createSession(c, auth)
	response.Success(c, http.StatusOK, gin.H{
		"association": auth.Association,
		"tokens":      auth.Tokens,
		"sessionId":   sessionID,
	})
}

// Me returns the authenticated member
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	user, err := h.authUsecase.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Logout ends the server-side session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if h.sessions != nil {
		if err := h.sessions.Delete(c.Request.Context(), input.SessionID); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true})
}

// createSession stores the refresh token server-side; session storage is
// best-effort and never blocks a login.
func (h *AuthHandler) createSession(c *gin.Context, auth *usecases.AuthResponse) string {
	if h.sessions == nil || auth.Tokens == nil {
		return ""
	}

	data := &redis.SessionData{RefreshToken: auth.Tokens.RefreshToken}
	switch {
	case auth.User != nil:
		data.UserID = auth.User.ID.String()
		data.Role = string(auth.User.Role())
	case auth.Association != nil:
		data.UserID = auth.Association.ID.String()
		data.Role = "association"
	}

	sessionID := uuid.New().String()
	if err := h.sessions.Create(c.Request.Context(), sessionID, data, h.sessionTTL); err != nil {
		return ""
	}
	return sessionID
}
