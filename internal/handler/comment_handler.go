package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// CommentHandler handles HTTP requests for post comments
type CommentHandler struct {
	service service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger,
	}
}

type CommentRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
}

// Create handles POST /posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Texto do comentário é obrigatório"})
		return
	}

	comment, err := h.service.Create(c.Request.Context(), postID, req.Text, req.AuthorName)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// List handles GET /posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := h.service.List(c.Request.Context(), postID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
