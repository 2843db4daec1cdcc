package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// AccountService provides application-level account operations
type AccountService struct {
	scope LedgerScope
}

// NewAccountService creates a new AccountService
func NewAccountService(scope LedgerScope) *AccountService {
	return &AccountService{scope: scope}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=CHECKING SAVINGS CASH INVESTMENT"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=CHECKING SAVINGS CASH INVESTMENT"`
}

// Create creates an account and seeds it with a default Pix payment
// method so it is immediately usable for postings.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	var account *ledger.Account

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		created, err := ledger.NewAccount(userID, req.Name, ledger.AccountType(req.Type))
		if err != nil {
			return err
		}
		if err := repos.Accounts().Create(ctx, created); err != nil {
			return err
		}

		method, err := ledger.NewPaymentMethod(userID, created.ID, "Pix", ledger.PaymentMethodTypePix, nil, nil, nil)
		if err != nil {
			return err
		}
		method.MarkDefault()
		if err := repos.PaymentMethods().Create(ctx, method); err != nil {
			return err
		}

		account = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Get returns an account by ID
func (s *AccountService) Get(ctx context.Context, userID, id uuid.UUID) (*AccountResponse, error) {
	var account *ledger.Account
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// List lists the accounts of a user
func (s *AccountService) List(ctx context.Context, userID uuid.UUID) ([]AccountResponse, error) {
	var accounts []*ledger.Account
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		var err error
		accounts, err = repos.Accounts().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = *toAccountResponse(a)
	}
	return responses, nil
}

// Update renames or retypes an account
func (s *AccountService) Update(ctx context.Context, userID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	var account *ledger.Account
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		if err := found.Rename(req.Name); err != nil {
			return err
		}
		if err := found.ChangeType(ledger.AccountType(req.Type)); err != nil {
			return err
		}
		if err := repos.Accounts().Update(ctx, found); err != nil {
			return err
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Delete removes an account. Accounts with posted transactions cannot be
// deleted; reverse or move the transactions first.
func (s *AccountService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		count, err := repos.Transactions().CountByAccount(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("CONFLICT", "Account has transactions and cannot be deleted")
		}
		return repos.Accounts().Delete(ctx, id)
	})
}

func toAccountResponse(a *ledger.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type.String(),
		Balance:   a.Balance.Amount(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
