package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
)

// PostHandler handles HTTP requests for posts and categories
type PostHandler struct {
	service service.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

type PostRequest struct {
	Titulo    string   `json:"titulo"`
	Conteudo  string   `json:"conteudo"`
	Categoria string   `json:"categoria"`
	Resumo    string   `json:"resumo"`
	Imagem    string   `json:"imagem"`
	Tags      []string `json:"tags"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Titulo:    r.Titulo,
		Conteudo:  r.Conteudo,
		Categoria: r.Categoria,
		Resumo:    r.Resumo,
		Imagem:    r.Imagem,
		Tags:      r.Tags,
	}
}

// List handles GET /posts?page=&limit=&categoria=&q=
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPostsPerPage)))

	result, err := h.service.List(c.Request.Context(), service.ListPostsQuery{
		Page:      page,
		Limit:     limit,
		Categoria: c.Query("categoria"),
		Search:    c.Query("q"),
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create handles POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição inválido"})
		return
	}

	post, err := h.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update handles PUT /posts/:id. The tag list always replaces the stored one.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição inválido"})
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Post excluído com sucesso"})
}

// Categories handles GET /categories
func (h *PostHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
