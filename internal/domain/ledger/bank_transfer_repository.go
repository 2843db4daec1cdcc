package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BankTransferFilter contains filter options for listing bank transfers
type BankTransferFilter struct {
	AccountID *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// BankTransferRepository defines the interface for bank transfer persistence
type BankTransferRepository interface {
	// Create creates a new transfer record
	Create(ctx context.Context, transfer *BankTransfer) error

	// FindByID finds a transfer by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*BankTransfer, error)

	// List lists transfers with filtering and pagination
	List(ctx context.Context, userID uuid.UUID, filter BankTransferFilter) ([]*BankTransfer, int64, error)
}
