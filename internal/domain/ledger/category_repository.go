package ledger

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// FindByID finds a category by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// ListByUser lists categories of a user, optionally filtered by type
	ListByUser(ctx context.Context, userID uuid.UUID, categoryType *TransactionType) ([]*Category, error)

	// Update persists category changes
	Update(ctx context.Context, category *Category) error

	// Delete removes a category
	Delete(ctx context.Context, id uuid.UUID) error
}
