package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// CardInvoiceFilter contains filter options for listing card invoices
type CardInvoiceFilter struct {
	PaymentMethodID *uuid.UUID
	AccountID       *uuid.UUID
	Status          *CardInvoiceStatus
	Year            *int
	Month           *time.Month
	Page            int
	PageSize        int
}

// CardInvoiceRepository defines the interface for card invoice persistence
type CardInvoiceRepository interface {
	// Create creates a new invoice. The (payment_method_id, period_year,
	// period_month) unique index makes concurrent creation safe; callers
	// receive shared.ErrAlreadyExists on conflict and re-fetch.
	Create(ctx context.Context, invoice *CardInvoice) error

	// FindByID finds an invoice by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*CardInvoice, error)

	// FindByMethodAndPeriod finds the invoice of a payment method for a
	// billing period
	FindByMethodAndPeriod(ctx context.Context, paymentMethodID uuid.UUID, period Period) (*CardInvoice, error)

	// List lists invoices with filtering and pagination
	List(ctx context.Context, userID uuid.UUID, filter CardInvoiceFilter) ([]*CardInvoice, int64, error)

	// Update persists invoice changes
	Update(ctx context.Context, invoice *CardInvoice) error

	// Delete removes an invoice
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToTotal applies a signed delta to the invoice total with a
	// single additive UPDATE. A zero delta is a no-op.
	AddToTotal(ctx context.Context, invoiceID uuid.UUID, delta valueobject.Money) error
}
