package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
)

const (
	DefaultPostsPerPage = 6
	MaxPostsPerPage     = 50
)

// PostInput is the writable part of a post.
type PostInput struct {
	Titulo    string
	Conteudo  string
	Categoria string
	Resumo    string
	Imagem    string
	Tags      []string
}

// ListPostsQuery selects one page of posts.
type ListPostsQuery struct {
	Page      int
	Limit     int
	Categoria string
	Search    string
}

// PostPage is one page of a post listing.
type PostPage struct {
	TotalPosts  int64         `json:"totalPosts"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Posts       []models.Post `json:"posts"`
}

// PostService defines the interface for post business logic
type PostService interface {
	List(ctx context.Context, query ListPostsQuery) (*PostPage, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, input PostInput) (*models.Post, error)
	Update(ctx context.Context, id uint, input PostInput) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
}

type postService struct {
	tx       database.Transactor
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	tags     TagRegistry
	cache    database.PostCache
	logger   *slog.Logger
}

// NewPostService creates a new post service instance. cache may be nil.
func NewPostService(
	tx database.Transactor,
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	tags TagRegistry,
	cache database.PostCache,
	logger *slog.Logger,
) PostService {
	if cache == nil {
		cache = database.NoOpPostCache{}
	}
	return &postService{
		tx:       tx,
		postRepo: postRepo,
		tagRepo:  tagRepo,
		tags:     tags,
		cache:    cache,
		logger:   logger,
	}
}

func (s *postService) List(ctx context.Context, query ListPostsQuery) (*PostPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = DefaultPostsPerPage
	}
	if limit > MaxPostsPerPage {
		limit = MaxPostsPerPage
	}

	// Pages past the end come back empty; the offset saturates instead of wrapping.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		Categoria: strings.TrimSpace(query.Categoria),
		Query:     query.Search,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to list posts", "error", err)
		return nil, err
	}

	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}

	return &PostPage{
		TotalPosts:  total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		Posts:       posts,
	}, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*models.Post, error) {
	if cached, err := s.cache.GetPost(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPost(ctx, post); err != nil {
		s.logger.Warn("⚠️ [PostService] Failed to cache post", "post_id", id, "error", err)
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, input PostInput) (*models.Post, error) {
	if err := validatePost(input); err != nil {
		return nil, err
	}

	post := &models.Post{
		Titulo:    input.Titulo,
		Conteudo:  input.Conteudo,
		Categoria: input.Categoria,
		Resumo:    input.Resumo,
		Imagem:    input.Imagem,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		applied, err := s.tags.SetTagsTx(ctx, tx, post.ID, input.Tags)
		if err != nil {
			return err
		}
		post.Tags = applied
		return nil
	})
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to create post", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [PostService] Post created", "post_id", post.ID, "tags", len(post.Tags))
	return s.load(ctx, post.ID)
}

// Update overwrites the post and replaces its tag set. A nil tag list clears the tags.
func (s *postService) Update(ctx context.Context, id uint, input PostInput) (*models.Post, error) {
	if err := validatePost(input); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        id,
		Titulo:    input.Titulo,
		Conteudo:  input.Conteudo,
		Categoria: input.Categoria,
		Resumo:    input.Resumo,
		Imagem:    input.Imagem,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Update(ctx, post); err != nil {
			return err
		}
		_, err := s.tags.SetTagsTx(ctx, tx, id, input.Tags)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) || errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("❌ [PostService] Failed to update post", "post_id", id, "error", err)
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("✅ [PostService] Post updated", "post_id", id)
	return s.load(ctx, id)
}

func (s *postService) Delete(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("❌ [PostService] Failed to delete post", "post_id", id, "error", err)
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("🗑️ [PostService] Post deleted", "post_id", id)
	return nil
}

func (s *postService) Categories(ctx context.Context) ([]string, error) {
	return s.postRepo.Categories(ctx)
}

func (s *postService) load(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	posts := []models.Post{*post}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *postService) attachTags(ctx context.Context, posts []models.Post) error {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	names, err := s.tagRepo.NamesByPosts(ctx, ids)
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to load tags", "error", err)
		return err
	}

	for i := range posts {
		posts[i].Tags = names[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return nil
}

func (s *postService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.InvalidatePost(ctx, id); err != nil {
		s.logger.Warn("⚠️ [PostService] Failed to invalidate cached post", "post_id", id, "error", err)
	}
}

func validatePost(input PostInput) error {
	if strings.TrimSpace(input.Titulo) == "" ||
		strings.TrimSpace(input.Conteudo) == "" ||
		strings.TrimSpace(input.Categoria) == "" ||
		strings.TrimSpace(input.Resumo) == "" ||
		strings.TrimSpace(input.Imagem) == "" {
		return validationError("Título, conteúdo, categoria, resumo e imagem são obrigatórios")
	}
	return nil
}

// Service errors
var (
	ErrPostNotFound = errors.New("post not found")
)
