package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// TagRepository defines the interface for tags and the posts_tags link table
type TagRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	// CreateIfAbsent inserts the tag unless a row with the same name or slug exists.
	// It reports false when another writer got there first.
	CreateIfAbsent(ctx context.Context, tag *models.Tag) (bool, error)
	ClearPost(ctx context.Context, postID uint) error
	Associate(ctx context.Context, postID, tagID uint) error
	NamesByPosts(ctx context.Context, postIDs []uint) (map[uint][]string, error)
	WithTx(tx *gorm.DB) TagRepository
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository instance
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, storageErr(err)
	}
	return &tag, nil
}

func (r *tagRepository) CreateIfAbsent(ctx context.Context, tag *models.Tag) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tag)
	if result.Error != nil {
		return false, storageErr(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *tagRepository) ClearPost(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.PostTag{}).Error
	return storageErr(err)
}

func (r *tagRepository) Associate(ctx context.Context, postID, tagID uint) error {
	link := models.PostTag{PostID: postID, TagID: tagID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&link).Error
	return storageErr(err)
}

type postTagName struct {
	PostID uint
	Nome   string
}

// NamesByPosts returns tag names per post, alphabetically. Posts without tags get no entry.
func (r *tagRepository) NamesByPosts(ctx context.Context, postIDs []uint) (map[uint][]string, error) {
	names := make(map[uint][]string, len(postIDs))
	if len(postIDs) == 0 {
		return names, nil
	}

	var rows []postTagName
	err := r.db.WithContext(ctx).
		Table("posts_tags").
		Select("posts_tags.post_id AS post_id, tags.nome AS nome").
		Joins("JOIN tags ON tags.id = posts_tags.tag_id").
		Where("posts_tags.post_id IN ?", postIDs).
		Order("tags.nome").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr(err)
	}

	for _, row := range rows {
		names[row.PostID] = append(names[row.PostID], row.Nome)
	}
	return names, nil
}

// Repository errors
var (
	ErrTagNotFound = errors.New("tag not found")
)
