package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// NewsletterRepository defines the interface for newsletter subscriptions
type NewsletterRepository interface {
	Create(ctx context.Context, sub *models.NewsletterSubscription) error
	List(ctx context.Context) ([]models.NewsletterSubscription, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates a new newsletter repository instance
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscription) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return storageErr(err)
}

func (r *newsletterRepository) List(ctx context.Context) ([]models.NewsletterSubscription, error) {
	subs := []models.NewsletterSubscription{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&subs).Error; err != nil {
		return nil, storageErr(err)
	}
	return subs, nil
}
