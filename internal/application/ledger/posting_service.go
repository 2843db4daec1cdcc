package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
	"github.com/pocketledger/backend/internal/infrastructure/telemetry"
)

// PostingService is the ledger posting engine. It creates, updates and
// deletes transactions while keeping account balances and card invoice
// totals consistent. Every operation runs in a single transaction scope
// and only ever mutates balances and totals through additive deltas.
type PostingService struct {
	scope   LedgerScope
	storage ObjectStorage
}

// NewPostingService creates a new PostingService
func NewPostingService(scope LedgerScope, storage ObjectStorage) *PostingService {
	return &PostingService{
		scope:   scope,
		storage: storage,
	}
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	AccountID          uuid.UUID       `json:"account_id"`
	CategoryID         uuid.UUID       `json:"category_id"`
	PaymentMethodID    uuid.UUID       `json:"payment_method_id"`
	CardInvoiceID      *uuid.UUID      `json:"card_invoice_id,omitempty"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Date               time.Time       `json:"date"`
	Type               string          `json:"type"`
	InstallmentGroupID *uuid.UUID      `json:"installment_group_id,omitempty"`
	InstallmentNumber  int             `json:"installment_number"`
	InstallmentTotal   int             `json:"installment_total"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CreateTransactionRequest represents a request to create a transaction
type CreateTransactionRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	CategoryID      uuid.UUID       `json:"category_id" binding:"required"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Installments    int             `json:"installments"`
}

// UpdateTransactionRequest represents a request to update a transaction
type UpdateTransactionRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	CategoryID      uuid.UUID       `json:"category_id" binding:"required"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Installments    int             `json:"installments"`
}

// Create posts a new transaction. Card purchases may be split into up to
// 120 installments, one transaction per month, each attached to the card
// invoice of its own billing period. Returns the first installment.
func (s *PostingService) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrAccountID, req.AccountID.String(),
		telemetry.SpanAttrMethodID, req.PaymentMethodID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrInstallments, req.Installments,
	)

	var first *ledger.Transaction

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		txType := ledger.TransactionType(req.Type)
		amount := valueobject.NewMoneyBRL(req.Amount)

		account, category, method, err := s.loadPostingRefs(ctx, repos, userID, req.AccountID, req.CategoryID, req.PaymentMethodID, txType)
		if err != nil {
			return err
		}

		installments := req.Installments
		if installments == 0 {
			installments = 1
		}
		if installments > 1 && !method.Type.IsCard() {
			return shared.NewDomainError("INVALID_INPUT", "Installments require a card payment method")
		}

		amounts, err := ledger.SplitInstallments(amount, installments)
		if err != nil {
			return err
		}

		var groupID uuid.UUID
		if installments > 1 {
			groupID = uuid.New()
		}

		for i, part := range amounts {
			date := ledger.AddMonthsClamped(req.Date, i)
			tx, err := ledger.NewTransaction(userID, account.ID, category.ID, method.ID, req.Description, part, date, txType)
			if err != nil {
				return err
			}
			if installments > 1 {
				tx.AsInstallment(groupID, i+1, installments)
			}

			if method.Type.IsCard() {
				invoice, err := resolveInvoice(ctx, repos, userID, method, date)
				if err != nil {
					return err
				}
				tx.AttachToInvoice(invoice.ID)
			}

			if err := repos.Transactions().Create(ctx, tx); err != nil {
				return err
			}
			if err := repos.Accounts().AddToBalance(ctx, account.ID, ledger.AccountImpact(method.Type, txType, part)); err != nil {
				return err
			}
			if err := applyInvoiceDelta(ctx, repos, tx.CardInvoiceID, invoiceDeltaFor(method.Type, txType, part)); err != nil {
				return err
			}

			if first == nil {
				first = tx
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrTransactionID, first.ID.String())
	return toTransactionResponse(first), nil
}

// Update rewrites a transaction. The old account and invoice impact is
// reversed and the new impact applied with the same primitives Create
// uses. Transactions belonging to an installment group cannot be updated.
func (s *PostingService) Update(ctx context.Context, userID, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "update")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrTransactionID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	var updated *ledger.Transaction

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !tx.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		if tx.IsInstallmentGroup() {
			return shared.NewDomainError("CONFLICT", "Installment transactions cannot be updated")
		}
		if req.Installments > 1 {
			return shared.NewDomainError("INVALID_INPUT", "Updating a transaction cannot introduce installments")
		}

		oldMethod, err := repos.PaymentMethods().FindByID(ctx, tx.PaymentMethodID)
		if err != nil {
			return err
		}

		txType := ledger.TransactionType(req.Type)
		amount := valueobject.NewMoneyBRL(req.Amount)

		account, category, method, err := s.loadPostingRefs(ctx, repos, userID, req.AccountID, req.CategoryID, req.PaymentMethodID, txType)
		if err != nil {
			return err
		}

		// Undo the old impact before the row changes.
		if err := repos.Accounts().AddToBalance(ctx, tx.AccountID, ledger.AccountImpact(oldMethod.Type, tx.Type, tx.Amount).Negate()); err != nil {
			return err
		}
		if err := applyInvoiceDelta(ctx, repos, tx.CardInvoiceID, invoiceDeltaFor(oldMethod.Type, tx.Type, tx.Amount).Negate()); err != nil {
			return err
		}

		if err := tx.UpdateDetails(account.ID, category.ID, method.ID, req.Description, amount, req.Date, txType); err != nil {
			return err
		}

		if method.Type.IsCard() {
			invoice, err := resolveInvoice(ctx, repos, userID, method, tx.Date)
			if err != nil {
				return err
			}
			tx.AttachToInvoice(invoice.ID)
		}

		if err := repos.Accounts().AddToBalance(ctx, account.ID, ledger.AccountImpact(method.Type, txType, amount)); err != nil {
			return err
		}
		if err := applyInvoiceDelta(ctx, repos, tx.CardInvoiceID, invoiceDeltaFor(method.Type, txType, amount)); err != nil {
			return err
		}

		if err := repos.Transactions().Update(ctx, tx); err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toTransactionResponse(updated), nil
}

// Delete removes a transaction, reversing its account and invoice impact
// and deleting its attachments. Deleting any installment of a group
// deletes the whole group.
func (s *PostingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "delete")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrTransactionID, id.String(),
	)

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !tx.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		targets := []*ledger.Transaction{tx}
		if tx.InstallmentGroupID != nil {
			targets, err = repos.Transactions().ListByGroup(ctx, *tx.InstallmentGroupID)
			if err != nil {
				return err
			}
		}

		for _, t := range targets {
			method, err := repos.PaymentMethods().FindByID(ctx, t.PaymentMethodID)
			if err != nil {
				return err
			}

			attachments, err := repos.Attachments().ListByTransaction(ctx, t.ID)
			if err != nil {
				return err
			}
			for _, a := range attachments {
				if err := s.storage.Delete(ctx, a.StorageKey); err != nil {
					return err
				}
			}
			if len(attachments) > 0 {
				if err := repos.Attachments().DeleteByTransaction(ctx, t.ID); err != nil {
					return err
				}
			}

			if err := repos.Accounts().AddToBalance(ctx, t.AccountID, ledger.AccountImpact(method.Type, t.Type, t.Amount).Negate()); err != nil {
				return err
			}
			if err := applyInvoiceDelta(ctx, repos, t.CardInvoiceID, invoiceDeltaFor(method.Type, t.Type, t.Amount).Negate()); err != nil {
				return err
			}
			if err := repos.Transactions().Delete(ctx, t.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return err
}

// Get returns a transaction by ID
func (s *PostingService) Get(ctx context.Context, userID, id uuid.UUID) (*TransactionResponse, error) {
	var tx *ledger.Transaction
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		tx = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// List lists transactions with filtering and pagination
func (s *PostingService) List(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) ([]TransactionResponse, int64, error) {
	var (
		txs   []*ledger.Transaction
		total int64
	)
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		var err error
		txs, total, err = repos.Transactions().List(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = *toTransactionResponse(tx)
	}
	return responses, total, nil
}

// loadPostingRefs loads and validates the account, category and payment
// method a posting references.
func (s *PostingService) loadPostingRefs(
	ctx context.Context,
	repos LedgerRepositories,
	userID uuid.UUID,
	accountID, categoryID, methodID uuid.UUID,
	txType ledger.TransactionType,
) (*ledger.Account, *ledger.Category, *ledger.PaymentMethod, error) {
	account, err := repos.Accounts().FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !account.IsOwnedBy(userID) {
		return nil, nil, nil, shared.ErrForbidden
	}

	category, err := repos.Categories().FindByID(ctx, categoryID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !category.IsOwnedBy(userID) {
		return nil, nil, nil, shared.ErrForbidden
	}
	if category.Type != txType {
		return nil, nil, nil, shared.NewDomainError("INVALID_INPUT", "Category type does not match transaction type")
	}

	method, err := repos.PaymentMethods().FindByID(ctx, methodID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !method.IsOwnedBy(userID) {
		return nil, nil, nil, shared.ErrForbidden
	}
	if method.AccountID != account.ID {
		return nil, nil, nil, shared.NewDomainError("INVALID_INPUT", "Payment method does not belong to the account")
	}

	return account, category, method, nil
}

// invoiceDeltaFor returns the invoice delta a transaction carries, zero
// for non-card methods.
func invoiceDeltaFor(methodType ledger.PaymentMethodType, txType ledger.TransactionType, amount valueobject.Money) valueobject.Money {
	if !methodType.IsCard() {
		return valueobject.Zero(amount.Currency())
	}
	return ledger.InvoiceDelta(txType, amount)
}

// resolveInvoice finds or lazily creates the invoice of the billing
// period the date falls into. The unique (method, period) index makes the
// create race-free: a conflict means another request created it first, so
// the invoice is fetched again.
func resolveInvoice(ctx context.Context, repos LedgerRepositories, userID uuid.UUID, method *ledger.PaymentMethod, date time.Time) (*ledger.CardInvoice, error) {
	if !method.HasBillingCycle() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Card method is missing its billing configuration")
	}

	period := ledger.ResolvePeriod(date, *method.ClosingDay)
	invoice, err := repos.CardInvoices().FindByMethodAndPeriod(ctx, method.ID, period)
	if err == nil {
		return invoice, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	invoice = ledger.NewCardInvoice(userID, method.ID, period, *method.ClosingDay, *method.DueDay)
	if err := repos.CardInvoices().Create(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return repos.CardInvoices().FindByMethodAndPeriod(ctx, method.ID, period)
		}
		return nil, err
	}
	return invoice, nil
}

// applyInvoiceDelta adds a signed delta to an invoice total. When the
// invoice was already paid the paying account absorbs the mirrored delta,
// keeping "account paid exactly the invoice total" true after late
// changes. Nil invoice or zero delta is a no-op.
func applyInvoiceDelta(ctx context.Context, repos LedgerRepositories, invoiceID *uuid.UUID, delta valueobject.Money) error {
	if invoiceID == nil || delta.IsZero() {
		return nil
	}

	invoice, err := repos.CardInvoices().FindByID(ctx, *invoiceID)
	if err != nil {
		return err
	}
	if invoice.IsPaid() && invoice.PaidFromAccountID != nil {
		if err := repos.Accounts().AddToBalance(ctx, *invoice.PaidFromAccountID, delta.Negate()); err != nil {
			return err
		}
	}
	return repos.CardInvoices().AddToTotal(ctx, *invoiceID, delta)
}

func toTransactionResponse(tx *ledger.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                 tx.ID,
		AccountID:          tx.AccountID,
		CategoryID:         tx.CategoryID,
		PaymentMethodID:    tx.PaymentMethodID,
		CardInvoiceID:      tx.CardInvoiceID,
		Description:        tx.Description,
		Amount:             tx.Amount.Amount(),
		Date:               tx.Date,
		Type:               tx.Type.String(),
		InstallmentGroupID: tx.InstallmentGroupID,
		InstallmentNumber:  tx.InstallmentNumber,
		InstallmentTotal:   tx.InstallmentTotal,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
}
