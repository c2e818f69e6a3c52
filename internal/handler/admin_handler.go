package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
)

// AdminHandler serves the authenticated back-office routes
type AdminHandler struct {
	newsletterService service.NewsletterService
	logger            *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(newsletterService service.NewsletterService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		newsletterService: newsletterService,
		logger:            logger,
	}
}

// Panel handles GET /admin
func (h *AdminHandler) Panel(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		h.logger.Info("🛡️ [AdminHandler] Admin panel accessed", "user_id", user.ID)
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Painel administrativo acessado com sucesso!"})
}

// Subscribers handles GET /newsletter
func (h *AdminHandler) Subscribers(c *gin.Context) {
	subs, err := h.newsletterService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}
