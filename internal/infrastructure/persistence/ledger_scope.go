package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/domain/ledger"
)

// GormLedgerScope implements LedgerScope using GORM transactions.
// Every posting operation runs inside exactly one scope, so balance and
// invoice updates commit or roll back together.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appledger.LedgerRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

// gormLedgerRepositories provides access to all ledger repositories within
// a transaction.
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// Accounts returns the account repository scoped to the current transaction
func (r *gormLedgerRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// Categories returns the category repository scoped to the current transaction
func (r *gormLedgerRepositories) Categories() ledger.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// PaymentMethods returns the payment method repository scoped to the current transaction
func (r *gormLedgerRepositories) PaymentMethods() ledger.PaymentMethodRepository {
	return NewGormPaymentMethodRepository(r.tx)
}

// Transactions returns the transaction repository scoped to the current transaction
func (r *gormLedgerRepositories) Transactions() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// CardInvoices returns the card invoice repository scoped to the current transaction
func (r *gormLedgerRepositories) CardInvoices() ledger.CardInvoiceRepository {
	return NewGormCardInvoiceRepository(r.tx)
}

// BankTransfers returns the bank transfer repository scoped to the current transaction
func (r *gormLedgerRepositories) BankTransfers() ledger.BankTransferRepository {
	return NewGormBankTransferRepository(r.tx)
}

// Attachments returns the attachment repository scoped to the current transaction
func (r *gormLedgerRepositories) Attachments() ledger.AttachmentRepository {
	return NewGormAttachmentRepository(r.tx)
}

// Ensure GormLedgerScope implements LedgerScope
var _ appledger.LedgerScope = (*GormLedgerScope)(nil)

// Ensure gormLedgerRepositories implements LedgerRepositories
var _ appledger.LedgerRepositories = (*gormLedgerRepositories)(nil)
