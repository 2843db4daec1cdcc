package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// FindByID finds an account by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListByUser lists all accounts of a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// Update persists account changes
	Update(ctx context.Context, account *Account) error

	// Delete removes an account
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToBalance applies a signed delta to the account balance with a
	// single additive UPDATE. A zero delta is a no-op.
	AddToBalance(ctx context.Context, accountID uuid.UUID, delta valueobject.Money) error
}
