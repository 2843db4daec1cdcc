package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenRepository defines the interface for refresh token persistence
type RefreshTokenRepository interface {
	// Create persists a new refresh token
	Create(ctx context.Context, token *RefreshToken) error

	// FindByToken finds a refresh token by its value
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Update persists token changes
	Update(ctx context.Context, token *RefreshToken) error

	// RevokeAllForUser revokes every token of a user
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes tokens that expired before the cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}
