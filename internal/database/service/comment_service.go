package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
)

// AnonymousAuthor is stored when a comment arrives without a name.
const AnonymousAuthor = "Anônimo"

// CommentService defines the interface for comment business logic
type CommentService interface {
	Create(ctx context.Context, postID uint, text, authorName string) (*models.Comment, error)
	List(ctx context.Context, postID uint) ([]models.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	now         func() time.Time
	logger      *slog.Logger
}

// NewCommentService creates a new comment service instance
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *commentService) Create(ctx context.Context, postID uint, text, authorName string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError("Texto do comentário é obrigatório")
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	author := strings.TrimSpace(authorName)
	if author == "" {
		author = AnonymousAuthor
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorName: author,
		Text:       text,
		Date:       s.now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		// The post can disappear between the check and the insert.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("❌ [CommentService] Failed to create comment", "post_id", postID, "error", err)
		return nil, err
	}

	s.logger.Info("💬 [CommentService] Comment created", "post_id", postID, "comment_id", comment.ID)
	return comment, nil
}

func (s *commentService) List(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
