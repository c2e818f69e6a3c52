package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Request/Response DTOs
type RegisterRequest struct {
	Nome  string `json:"nome" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required,min=6"`
}

type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid registration request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nome, email válido e senha (mínimo 6 caracteres) são obrigatórios"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Nome, req.Email, req.Senha)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{ID: user.ID, Nome: user.Nome, Email: user.Email})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Email e senha são obrigatórios"})
		return
	}

	user, tokens, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Nome:         user.Nome,
		Email:        user.Email,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// RefreshToken mints a new access token from a stored refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Refresh token é obrigatório"})
		return
	}

	tokens, err := h.service.RefreshAccess(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	})
}

// Logout revokes a refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Refresh token é obrigatório"})
		return
	}

	if err := h.service.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Logout realizado com sucesso"})
}

// Verify reports the identity behind the bearer token
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Token inválido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"autenticado": true,
		"user":        UserResponse{ID: user.ID, Nome: user.Nome, Email: user.Email},
	})
}
