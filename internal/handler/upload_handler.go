package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// UploadHandler handles image uploads for post bodies
type UploadHandler struct {
	service   service.MediaService
	publicURL string
	maxSize   int64
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler. An empty publicURL means
// file URLs are built from the request's scheme and host. Forwarding headers
// are ignored; deployments behind a proxy set PUBLIC_URL.
func NewUploadHandler(service service.MediaService, publicURL string, maxSize int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:   service,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
		logger:    logger,
	}
}

// Upload handles POST /upload (multipart field "file")
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxSize > 0 {
		// Room for the multipart envelope on top of the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"erro": "Arquivo muito grande"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nenhum arquivo enviado"})
		return
	}

	name, err := h.service.Save(c.Request.Context(), file)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": h.baseURL(c) + "/uploads/" + name})
}

func (h *UploadHandler) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
