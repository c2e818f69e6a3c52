package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// NewsletterHandler handles newsletter sign-ups
type NewsletterHandler struct {
	service service.NewsletterService
	logger  *slog.Logger
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(service service.NewsletterService, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service: service,
		logger:  logger,
	}
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /newsletter
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Email é obrigatório"})
		return
	}

	if _, err := h.service.Subscribe(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Inscrição realizada com sucesso!"})
}
