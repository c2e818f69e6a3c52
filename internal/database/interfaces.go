package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PostCache keeps serialized posts close to the handlers. A miss is (nil, nil).
type PostCache interface {
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	SetPost(ctx context.Context, post *models.Post) error
	InvalidatePost(ctx context.Context, id uint) error
}
