package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// RefreshTokenRepository defines the interface for refresh token operations.
// Callers pass "now" so the service clock decides what counts as expired.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository instance
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return storageErr(err)
}

func (r *refreshTokenRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now.UTC()).
		First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, storageErr(err)
	}
	return &refreshToken, nil
}

// Delete removes the row. Expired rows count as present so logout still succeeds on them.
func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}

// Repository errors
var (
	ErrTokenNotFound = errors.New("token not found")
)
