package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// TransactionFilter contains filter options for listing transactions
type TransactionFilter struct {
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	PaymentMethodID *uuid.UUID
	CardInvoiceID   *uuid.UUID
	Type            *TransactionType
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	PageSize        int
}

// AmountByAccount is an aggregation row of totals grouped by account
type AmountByAccount struct {
	AccountID   uuid.UUID
	AccountName string
	Total       valueobject.Money
}

// AmountByCategory is an aggregation row of totals grouped by category
type AmountByCategory struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        valueobject.Money
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, transaction *Transaction) error

	// FindByID finds a transaction by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// List lists transactions with filtering and pagination
	List(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*Transaction, int64, error)

	// ListByGroup lists all installments of a group ordered by
	// installment number
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Transaction, error)

	// Update persists transaction changes
	Update(ctx context.Context, transaction *Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByAccount counts transactions referencing an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// CountByCategory counts transactions referencing a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountByPaymentMethod counts transactions referencing a payment method
	CountByPaymentMethod(ctx context.Context, paymentMethodID uuid.UUID) (int64, error)

	// SumByType returns the total amount of transactions of a type within
	// a date range
	SumByType(ctx context.Context, userID uuid.UUID, txType TransactionType, from, to time.Time) (valueobject.Money, error)

	// SumExpensesByAccount groups expense totals by account within a date range
	SumExpensesByAccount(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]AmountByAccount, error)

	// SumExpensesByCategory groups expense totals by category within a date range
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]AmountByCategory, error)
}
