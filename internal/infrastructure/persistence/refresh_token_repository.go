package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/identity"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// GormRefreshTokenRepository implements RefreshTokenRepository using GORM
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewGormRefreshTokenRepository creates a new GormRefreshTokenRepository
func NewGormRefreshTokenRepository(db *gorm.DB) *GormRefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create persists a new refresh token
func (r *GormRefreshTokenRepository) Create(ctx context.Context, token *identity.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindByToken finds a refresh token by its value
func (r *GormRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*identity.RefreshToken, error) {
	var stored identity.RefreshToken
	if err := r.db.WithContext(ctx).First(&stored, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stored, nil
}

// Update persists token changes
func (r *GormRefreshTokenRepository) Update(ctx context.Context, token *identity.RefreshToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

// RevokeAllForUser revokes every token of a user
func (r *GormRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&identity.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"revoked":    true,
			"updated_at": time.Now(),
		}).Error
}

// DeleteExpired removes tokens that expired before the cutoff
func (r *GormRefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).
		Delete(&identity.RefreshToken{}, "expires_at < ?", cutoff).Error
}

// Ensure GormRefreshTokenRepository implements RefreshTokenRepository
var _ identity.RefreshTokenRepository = (*GormRefreshTokenRepository)(nil)
