package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
)

// RefreshToken is a persisted, revocable refresh credential. Tokens rotate
// on every refresh: the presented token is revoked and a new one issued.
type RefreshToken struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Revoked   bool
}

// NewRefreshToken creates a refresh token record for a user
func NewRefreshToken(userID uuid.UUID, token string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      token,
		ExpiresAt:  expiresAt,
	}
}

// IsValid reports whether the token can still be exchanged
func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// Revoke invalidates the token
func (t *RefreshToken) Revoke() {
	t.Revoked = true
	t.Touch()
}
