package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// PaymentMethodService provides application-level payment method operations
type PaymentMethodService struct {
	scope LedgerScope
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(scope LedgerScope) *PaymentMethodService {
	return &PaymentMethodService{scope: scope}
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID          uuid.UUID        `json:"id"`
	AccountID   uuid.UUID        `json:"account_id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	IsDefault   bool             `json:"is_default"`
	ClosingDay  *int             `json:"closing_day,omitempty"`
	DueDay      *int             `json:"due_day,omitempty"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreatePaymentMethodRequest represents a request to create a payment method
type CreatePaymentMethodRequest struct {
	Name        string           `json:"name" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=PIX CASH DEBIT CARD BOLETO"`
	IsDefault   bool             `json:"is_default"`
	ClosingDay  *int             `json:"closing_day"`
	DueDay      *int             `json:"due_day"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// UpdatePaymentMethodRequest represents a request to update a payment method
type UpdatePaymentMethodRequest struct {
	Name        string           `json:"name" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=PIX CASH DEBIT CARD BOLETO"`
	IsDefault   bool             `json:"is_default"`
	ClosingDay  *int             `json:"closing_day"`
	DueDay      *int             `json:"due_day"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// Create adds a payment method to an account. The first method of an
// account always becomes the default.
func (s *PaymentMethodService) Create(ctx context.Context, userID, accountID uuid.UUID, req CreatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	var method *ledger.PaymentMethod

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		taken, err := repos.PaymentMethods().ExistsByName(ctx, accountID, req.Name, nil)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("CONFLICT", "Account already has a payment method with this name")
		}

		created, err := ledger.NewPaymentMethod(userID, accountID, req.Name, ledger.PaymentMethodType(req.Type),
			req.ClosingDay, req.DueDay, toMoneyPtr(req.CreditLimit))
		if err != nil {
			return err
		}

		count, err := repos.PaymentMethods().CountByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if count == 0 {
			created.MarkDefault()
		} else if req.IsDefault {
			if err := repos.PaymentMethods().UnsetDefaults(ctx, accountID); err != nil {
				return err
			}
			created.MarkDefault()
		}

		if err := repos.PaymentMethods().Create(ctx, created); err != nil {
			return err
		}
		method = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// Get returns a payment method by ID
func (s *PaymentMethodService) Get(ctx context.Context, userID, id uuid.UUID) (*PaymentMethodResponse, error) {
	var method *ledger.PaymentMethod
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.PaymentMethods().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		method = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// List lists the payment methods of an account
func (s *PaymentMethodService) List(ctx context.Context, userID, accountID uuid.UUID) ([]PaymentMethodResponse, error) {
	var methods []*ledger.PaymentMethod
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		methods, err = repos.PaymentMethods().ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		responses[i] = *toPaymentMethodResponse(m)
	}
	return responses, nil
}

// Update changes a payment method's settings. The default flag can only
// be granted here, never removed; demote by promoting another method.
func (s *PaymentMethodService) Update(ctx context.Context, userID, id uuid.UUID, req UpdatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	var method *ledger.PaymentMethod

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.PaymentMethods().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		taken, err := repos.PaymentMethods().ExistsByName(ctx, found.AccountID, req.Name, &id)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("CONFLICT", "Account already has a payment method with this name")
		}

		if err := found.Update(req.Name, ledger.PaymentMethodType(req.Type), req.ClosingDay, req.DueDay, toMoneyPtr(req.CreditLimit)); err != nil {
			return err
		}

		if req.IsDefault && !found.IsDefault {
			if err := repos.PaymentMethods().UnsetDefaults(ctx, found.AccountID); err != nil {
				return err
			}
			found.MarkDefault()
		}

		if err := repos.PaymentMethods().Update(ctx, found); err != nil {
			return err
		}
		method = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// Delete removes a payment method. Methods with transactions and the last
// method of an account cannot be deleted. Deleting the default promotes
// the oldest remaining method.
func (s *PaymentMethodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.PaymentMethods().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		count, err := repos.Transactions().CountByPaymentMethod(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("CONFLICT", "Payment method has transactions and cannot be deleted")
		}

		methodCount, err := repos.PaymentMethods().CountByAccount(ctx, found.AccountID)
		if err != nil {
			return err
		}
		if methodCount <= 1 {
			return shared.NewDomainError("CONFLICT", "An account must keep at least one payment method")
		}

		if err := repos.PaymentMethods().Delete(ctx, id); err != nil {
			return err
		}

		if found.IsDefault {
			next, err := repos.PaymentMethods().FindOldestByAccount(ctx, found.AccountID, &id)
			if err != nil {
				return err
			}
			next.MarkDefault()
			return repos.PaymentMethods().Update(ctx, next)
		}
		return nil
	})
}

func toMoneyPtr(d *decimal.Decimal) *valueobject.Money {
	if d == nil {
		return nil
	}
	m := valueobject.NewMoneyBRL(*d)
	return &m
}

func toPaymentMethodResponse(m *ledger.PaymentMethod) *PaymentMethodResponse {
	resp := &PaymentMethodResponse{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Name:       m.Name,
		Type:       m.Type.String(),
		IsDefault:  m.IsDefault,
		ClosingDay: m.ClosingDay,
		DueDay:     m.DueDay,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.CreditLimit != nil {
		limit := m.CreditLimit.Amount()
		resp.CreditLimit = &limit
	}
	return resp
}
