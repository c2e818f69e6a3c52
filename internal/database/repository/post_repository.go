package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Categoria string
	Query     string
	Offset    int
	Limit     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(titulo) LIKE ? OR LOWER(resumo) LIKE ? OR LOWER(categoria) LIKE ?", like, like, like)
	}

	return q
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	posts := []models.Post{}
	q := r.filtered(ctx, filter).Order("data DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	return posts, total, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storageErr(err)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, storageErr(err)
	}
	return count > 0, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return storageErr(r.db.WithContext(ctx).Create(post).Error)
}

// Update overwrites the editable columns. Data keeps its original value.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"titulo":    post.Titulo,
			"conteudo":  post.Conteudo,
			"categoria": post.Categoria,
			"resumo":    post.Resumo,
			"imagem":    post.Imagem,
		})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes the post. Associations and comments cascade.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Distinct("categoria").
		Where("categoria IS NOT NULL AND categoria <> ''").
		Order("categoria").
		Pluck("categoria", &categories).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return categories, nil
}

// Repository errors
var (
	ErrPostNotFound = errors.New("post not found")
)
