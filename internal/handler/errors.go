package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var validation *service.ValidationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"erro": validation.Message})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Email já cadastrado"})
	case errors.Is(err, service.ErrAlreadySubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Email já inscrito na newsletter"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Email ou senha inválidos"})
	case errors.Is(err, service.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Refresh token inválido"})
	case errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Token expirado", "code": "TOKEN_EXPIRED"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Token inválido"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"erro": "Usuário não encontrado"})
	case errors.Is(err, service.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"erro": "Refresh token não encontrado"})
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"erro": "Post não encontrado"})
	default:
		logger.Error("❌ [Handler] Internal server error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno do servidor"})
	}
}

// parseID reads a positive numeric path parameter that fits a BIGINT column.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 63)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}
