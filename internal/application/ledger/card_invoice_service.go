package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
	"github.com/pocketledger/backend/internal/infrastructure/telemetry"
)

// CardInvoiceService provides application-level card invoice operations
type CardInvoiceService struct {
	scope LedgerScope
}

// NewCardInvoiceService creates a new CardInvoiceService
func NewCardInvoiceService(scope LedgerScope) *CardInvoiceService {
	return &CardInvoiceService{scope: scope}
}

// CardInvoiceResponse represents a card invoice in API responses
type CardInvoiceResponse struct {
	ID                uuid.UUID       `json:"id"`
	PaymentMethodID   uuid.UUID       `json:"payment_method_id"`
	PeriodYear        int             `json:"period_year"`
	PeriodMonth       int             `json:"period_month"`
	ClosingDate       time.Time       `json:"closing_date"`
	DueDate           time.Time       `json:"due_date"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            string          `json:"status"`
	PaidFromAccountID *uuid.UUID      `json:"paid_from_account_id,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PayInvoiceRequest represents a request to pay an invoice
type PayInvoiceRequest struct {
	AccountID   uuid.UUID  `json:"account_id" binding:"required"`
	PaymentDate *time.Time `json:"payment_date"`
}

// UpdateInvoiceTotalRequest represents a manual invoice total correction
type UpdateInvoiceTotalRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
}

// Get returns an invoice by ID
func (s *CardInvoiceService) Get(ctx context.Context, userID, id uuid.UUID) (*CardInvoiceResponse, error) {
	var invoice *ledger.CardInvoice
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.CardInvoices().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		invoice = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCardInvoiceResponse(invoice), nil
}

// List lists invoices with filtering and pagination
func (s *CardInvoiceService) List(ctx context.Context, userID uuid.UUID, filter ledger.CardInvoiceFilter) ([]CardInvoiceResponse, int64, error) {
	var (
		invoices []*ledger.CardInvoice
		total    int64
	)
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		var err error
		invoices, total, err = repos.CardInvoices().List(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CardInvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = *toCardInvoiceResponse(inv)
	}
	return responses, total, nil
}

// Pay settles an open invoice from an account: the account is debited by
// the invoice total and the invoice remembers who paid it and when.
func (s *CardInvoiceService) Pay(ctx context.Context, userID, invoiceID uuid.UUID, req PayInvoiceRequest) (*CardInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "card_invoice", "pay")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrAccountID, req.AccountID.String(),
	)

	var invoice *ledger.CardInvoice

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.CardInvoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		account, err := repos.Accounts().FindByID(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		paidAt := time.Now()
		if req.PaymentDate != nil {
			paidAt = *req.PaymentDate
		}

		if err := found.MarkPaid(account.ID, paidAt); err != nil {
			return err
		}
		if err := repos.Accounts().AddToBalance(ctx, account.ID, found.TotalAmount.Negate()); err != nil {
			return err
		}
		if err := repos.CardInvoices().Update(ctx, found); err != nil {
			return err
		}
		invoice = found
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, invoice.TotalAmount.String())
	return toCardInvoiceResponse(invoice), nil
}

// CancelPayment reverts a paid invoice: the paying account is credited
// back the total and the invoice reopens.
func (s *CardInvoiceService) CancelPayment(ctx context.Context, userID, invoiceID uuid.UUID) (*CardInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "card_invoice", "cancel_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	var invoice *ledger.CardInvoice

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.CardInvoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		payerID := found.PaidFromAccountID
		if err := found.CancelPayment(); err != nil {
			return err
		}
		if payerID != nil {
			if err := repos.Accounts().AddToBalance(ctx, *payerID, found.TotalAmount); err != nil {
				return err
			}
		}
		if err := repos.CardInvoices().Update(ctx, found); err != nil {
			return err
		}
		invoice = found
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toCardInvoiceResponse(invoice), nil
}

// UpdateTotal manually corrects an invoice total. The correction is
// applied as a delta so a paid invoice reconciles against its payer.
func (s *CardInvoiceService) UpdateTotal(ctx context.Context, userID, invoiceID uuid.UUID, req UpdateInvoiceTotalRequest) (*CardInvoiceResponse, error) {
	var invoice *ledger.CardInvoice

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.CardInvoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		newTotal := valueobject.NewMoneyBRL(req.TotalAmount)
		delta := newTotal.MustSubtract(found.TotalAmount)
		if err := applyInvoiceDelta(ctx, repos, &invoiceID, delta); err != nil {
			return err
		}

		invoice, err = repos.CardInvoices().FindByID(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCardInvoiceResponse(invoice), nil
}

// Delete removes an invoice. A paid invoice refunds its payer first;
// transactions that pointed at it are detached by the schema.
func (s *CardInvoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.CardInvoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		if found.IsPaid() && found.PaidFromAccountID != nil {
			if err := repos.Accounts().AddToBalance(ctx, *found.PaidFromAccountID, found.TotalAmount); err != nil {
				return err
			}
		}
		return repos.CardInvoices().Delete(ctx, invoiceID)
	})
}

func toCardInvoiceResponse(inv *ledger.CardInvoice) *CardInvoiceResponse {
	return &CardInvoiceResponse{
		ID:                inv.ID,
		PaymentMethodID:   inv.PaymentMethodID,
		PeriodYear:        inv.PeriodYear,
		PeriodMonth:       int(inv.PeriodMonth),
		ClosingDate:       inv.ClosingDate,
		DueDate:           inv.DueDate,
		TotalAmount:       inv.TotalAmount.Amount(),
		Status:            inv.Status.String(),
		PaidFromAccountID: inv.PaidFromAccountID,
		PaidAt:            inv.PaidAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}
