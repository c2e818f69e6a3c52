package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// Context keys set by RequireAuth.
const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// AuthMiddleware handles JWT validation
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth validates the bearer token, loads the user and stores both in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("⚠️ [Middleware] Missing Authorization header", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Token não fornecido"})
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Token inválido"})
			return
		}

		user, err := m.service.VerifyAndLoad(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				m.logger.Debug("⌛ [Middleware] Token expired")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Token expirado", "code": "TOKEN_EXPIRED"})
			case errors.Is(err, service.ErrInvalidToken):
				m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Token inválido"})
			case errors.Is(err, service.ErrUserNotFound):
				m.logger.Warn("⚠️ [Middleware] Token for deleted user")
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"erro": "Usuário não encontrado"})
			default:
				m.logger.Error("❌ [Middleware] Failed to load user", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno do servidor"})
			}
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", user.ID)

		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
