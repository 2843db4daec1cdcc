package ledger

import (
	"context"

	"github.com/pocketledger/backend/internal/domain/ledger"
)

// LedgerScope provides transactional access to the ledger repositories.
// When a function is executed within a scope, all repository operations
// are part of the same database transaction and commit or roll back
// atomically. Every posting operation runs inside exactly one scope.
type LedgerScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// LedgerRepositories provides access to all ledger repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type LedgerRepositories interface {
	// Accounts returns the account repository scoped to the current transaction
	Accounts() ledger.AccountRepository
	// Categories returns the category repository scoped to the current transaction
	Categories() ledger.CategoryRepository
	// PaymentMethods returns the payment method repository scoped to the current transaction
	PaymentMethods() ledger.PaymentMethodRepository
	// Transactions returns the transaction repository scoped to the current transaction
	Transactions() ledger.TransactionRepository
	// CardInvoices returns the card invoice repository scoped to the current transaction
	CardInvoices() ledger.CardInvoiceRepository
	// BankTransfers returns the bank transfer repository scoped to the current transaction
	BankTransfers() ledger.BankTransferRepository
	// Attachments returns the attachment repository scoped to the current transaction
	Attachments() ledger.AttachmentRepository
}

// NoOpLedgerScope is a scope that doesn't actually use transactions.
// Useful for testing.
type NoOpLedgerScope struct {
	accountRepo    ledger.AccountRepository
	categoryRepo   ledger.CategoryRepository
	methodRepo     ledger.PaymentMethodRepository
	txRepo         ledger.TransactionRepository
	invoiceRepo    ledger.CardInvoiceRepository
	transferRepo   ledger.BankTransferRepository
	attachmentRepo ledger.AttachmentRepository
}

// NewNoOpLedgerScope creates a NoOpLedgerScope with the given repositories
func NewNoOpLedgerScope(
	accountRepo ledger.AccountRepository,
	categoryRepo ledger.CategoryRepository,
	methodRepo ledger.PaymentMethodRepository,
	txRepo ledger.TransactionRepository,
	invoiceRepo ledger.CardInvoiceRepository,
	transferRepo ledger.BankTransferRepository,
	attachmentRepo ledger.AttachmentRepository,
) *NoOpLedgerScope {
	return &NoOpLedgerScope{
		accountRepo:    accountRepo,
		categoryRepo:   categoryRepo,
		methodRepo:     methodRepo,
		txRepo:         txRepo,
		invoiceRepo:    invoiceRepo,
		transferRepo:   transferRepo,
		attachmentRepo: attachmentRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpLedgerScope) Execute(_ context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}

// Accounts returns the account repository
func (s *NoOpLedgerScope) Accounts() ledger.AccountRepository { return s.accountRepo }

// Categories returns the category repository
func (s *NoOpLedgerScope) Categories() ledger.CategoryRepository { return s.categoryRepo }

// PaymentMethods returns the payment method repository
func (s *NoOpLedgerScope) PaymentMethods() ledger.PaymentMethodRepository { return s.methodRepo }

// Transactions returns the transaction repository
func (s *NoOpLedgerScope) Transactions() ledger.TransactionRepository { return s.txRepo }

// CardInvoices returns the card invoice repository
func (s *NoOpLedgerScope) CardInvoices() ledger.CardInvoiceRepository { return s.invoiceRepo }

// BankTransfers returns the bank transfer repository
func (s *NoOpLedgerScope) BankTransfers() ledger.BankTransferRepository { return s.transferRepo }

// Attachments returns the attachment repository
func (s *NoOpLedgerScope) Attachments() ledger.AttachmentRepository { return s.attachmentRepo }

// Ensure NoOpLedgerScope implements both interfaces
var _ LedgerScope = (*NoOpLedgerScope)(nil)
var _ LedgerRepositories = (*NoOpLedgerScope)(nil)
