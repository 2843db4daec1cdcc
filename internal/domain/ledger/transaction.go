package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// TransactionType represents the flow direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single ledger entry. Card purchases split into
// installments produce one Transaction per installment, linked by
// InstallmentGroupID and numbered 1..InstallmentTotal.
type Transaction struct {
	shared.OwnedAggregateRoot
	AccountID          uuid.UUID
	CategoryID         uuid.UUID
	PaymentMethodID    uuid.UUID
	CardInvoiceID      *uuid.UUID
	Description        string
	Amount             valueobject.Money
	Date               time.Time
	Type               TransactionType
	InstallmentGroupID *uuid.UUID
	InstallmentNumber  int
	InstallmentTotal   int
}

// NewTransaction creates a single (non-installment) transaction
func NewTransaction(
	userID uuid.UUID,
	accountID, categoryID, paymentMethodID uuid.UUID,
	description string,
	amount valueobject.Money,
	date time.Time,
	txType TransactionType,
) (*Transaction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid transaction type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
	}
	return &Transaction{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		AccountID:          accountID,
		CategoryID:         categoryID,
		PaymentMethodID:    paymentMethodID,
		Description:        description,
		Amount:             amount,
		Date:               DateOnly(date),
		Type:               txType,
		InstallmentNumber:  1,
		InstallmentTotal:   1,
	}, nil
}

// UpdateDetails replaces the mutable fields of the transaction after
// validating them. The invoice link is cleared; callers re-resolve it.
func (t *Transaction) UpdateDetails(
	accountID, categoryID, paymentMethodID uuid.UUID,
	description string,
	amount valueobject.Money,
	date time.Time,
	txType TransactionType,
) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_INPUT", "Description cannot be empty")
	}
	if !txType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid transaction type")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
	}
	t.AccountID = accountID
	t.CategoryID = categoryID
	t.PaymentMethodID = paymentMethodID
	t.Description = description
	t.Amount = amount
	t.Date = DateOnly(date)
	t.Type = txType
	t.CardInvoiceID = nil
	t.Touch()
	return nil
}

// AsInstallment marks the transaction as part of an installment group
func (t *Transaction) AsInstallment(groupID uuid.UUID, number, total int) {
	t.InstallmentGroupID = &groupID
	t.InstallmentNumber = number
	t.InstallmentTotal = total
}

// IsInstallmentGroup returns true when the transaction belongs to a group
// of more than one installment
func (t *Transaction) IsInstallmentGroup() bool {
	return t.InstallmentTotal > 1
}

// AttachToInvoice links the transaction to a card invoice
func (t *Transaction) AttachToInvoice(invoiceID uuid.UUID) {
	t.CardInvoiceID = &invoiceID
}

// AccountImpact returns the signed delta a transaction applies to its
// account balance. Card transactions never touch the account; they settle
// through the invoice instead.
func AccountImpact(methodType PaymentMethodType, txType TransactionType, amount valueobject.Money) valueobject.Money {
	if methodType.IsCard() {
		return valueobject.Zero(amount.Currency())
	}
	if txType == TransactionTypeIncome {
		return amount
	}
	return amount.Negate()
}

// InvoiceDelta returns the signed delta a card transaction applies to its
// invoice total. Expenses raise the invoice, incomes (refunds) lower it.
func InvoiceDelta(txType TransactionType, amount valueobject.Money) valueobject.Money {
	if txType == TransactionTypeExpense {
		return amount
	}
	return amount.Negate()
}

// DateOnly strips the time-of-day portion, keeping year, month and day in UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
