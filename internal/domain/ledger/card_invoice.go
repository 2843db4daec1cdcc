package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// CardInvoiceStatus represents the lifecycle state of a card invoice
type CardInvoiceStatus string

const (
	CardInvoiceStatusOpen CardInvoiceStatus = "OPEN"
	CardInvoiceStatusPaid CardInvoiceStatus = "PAID"
)

// String returns the string representation of CardInvoiceStatus
func (s CardInvoiceStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CardInvoiceStatus) IsValid() bool {
	return s == CardInvoiceStatusOpen || s == CardInvoiceStatusPaid
}

// CardInvoice accumulates the card charges of one billing period for one
// payment method. There is at most one invoice per (method, period); the
// total is only ever mutated through additive deltas.
type CardInvoice struct {
	shared.OwnedAggregateRoot
	PaymentMethodID   uuid.UUID
	PeriodYear        int
	PeriodMonth       time.Month
	ClosingDate       time.Time
	DueDate           time.Time
	TotalAmount       valueobject.Money
	Status            CardInvoiceStatus
	PaidFromAccountID *uuid.UUID
	PaidAt            *time.Time
}

// NewCardInvoice creates an open, zero-total invoice for a billing period
func NewCardInvoice(userID, paymentMethodID uuid.UUID, period Period, closingDay, dueDay int) *CardInvoice {
	return &CardInvoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		PaymentMethodID:    paymentMethodID,
		PeriodYear:         period.Year,
		PeriodMonth:        period.Month,
		ClosingDate:        ClosingDate(period, closingDay),
		DueDate:            DueDate(period, closingDay, dueDay),
		TotalAmount:        valueobject.ZeroBRL(),
		Status:             CardInvoiceStatusOpen,
	}
}

// Period returns the billing period the invoice is labelled with
func (i *CardInvoice) Period() Period {
	return Period{Year: i.PeriodYear, Month: i.PeriodMonth}
}

// IsPaid returns true when the invoice has been settled
func (i *CardInvoice) IsPaid() bool {
	return i.Status == CardInvoiceStatusPaid
}

// MarkPaid settles the invoice from the given account. Only open invoices
// with a positive total can be paid.
func (i *CardInvoice) MarkPaid(fromAccountID uuid.UUID, paidAt time.Time) error {
	if i.Status != CardInvoiceStatusOpen {
		return shared.NewDomainError("CONFLICT", "Only open invoices can be paid")
	}
	if !i.TotalAmount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Invoice total must be positive to be paid")
	}
	paid := DateOnly(paidAt)
	i.Status = CardInvoiceStatusPaid
	i.PaidFromAccountID = &fromAccountID
	i.PaidAt = &paid
	i.Touch()
	return nil
}

// CancelPayment reverts a settled invoice back to open
func (i *CardInvoice) CancelPayment() error {
	if i.Status != CardInvoiceStatusPaid {
		return shared.NewDomainError("CONFLICT", "Only paid invoices can have their payment cancelled")
	}
	i.Status = CardInvoiceStatusOpen
	i.PaidFromAccountID = nil
	i.PaidAt = nil
	i.Touch()
	return nil
}
