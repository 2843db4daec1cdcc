package ledger

import (
	"context"

	"github.com/google/uuid"
)

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	// Create creates a new payment method
	Create(ctx context.Context, method *PaymentMethod) error

	// FindByID finds a payment method by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)

	// ListByAccount lists the payment methods of an account
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*PaymentMethod, error)

	// CountByAccount counts the payment methods of an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// ExistsByName reports whether the account already has a method with
	// the given name, excluding excludeID when non-nil
	ExistsByName(ctx context.Context, accountID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// UnsetDefaults clears the default flag on every method of an account
	UnsetDefaults(ctx context.Context, accountID uuid.UUID) error

	// FindOldestByAccount returns the earliest created method of an
	// account, excluding excludeID when non-nil
	FindOldestByAccount(ctx context.Context, accountID uuid.UUID, excludeID *uuid.UUID) (*PaymentMethod, error)

	// Update persists payment method changes
	Update(ctx context.Context, method *PaymentMethod) error

	// Delete removes a payment method
	Delete(ctx context.Context, id uuid.UUID) error
}
