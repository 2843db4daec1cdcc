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

// BankTransferService provides application-level transfer operations
type BankTransferService struct {
	scope LedgerScope
}

// NewBankTransferService creates a new BankTransferService
func NewBankTransferService(scope LedgerScope) *BankTransferService {
	return &BankTransferService{scope: scope}
}

// BankTransferResponse represents a transfer in API responses
type BankTransferResponse struct {
	ID            uuid.UUID       `json:"id"`
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateBankTransferRequest represents a request to move money between accounts
type CreateBankTransferRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id" binding:"required"`
	ToAccountID   uuid.UUID       `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
	Description   string          `json:"description"`
}

// Create moves money between two accounts of the same user: the source is
// debited, the target credited and the transfer recorded, atomically.
func (s *BankTransferService) Create(ctx context.Context, userID uuid.UUID, req CreateBankTransferRequest) (*BankTransferResponse, error) {
	var transfer *ledger.BankTransfer

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		from, err := repos.Accounts().FindByID(ctx, req.FromAccountID)
		if err != nil {
			return err
		}
		if !from.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		to, err := repos.Accounts().FindByID(ctx, req.ToAccountID)
		if err != nil {
			return err
		}
		if !to.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		amount := valueobject.NewMoneyBRL(req.Amount)
		created, err := ledger.NewBankTransfer(userID, from.ID, to.ID, amount, req.Date, req.Description)
		if err != nil {
			return err
		}

		if err := repos.Accounts().AddToBalance(ctx, from.ID, amount.Negate()); err != nil {
			return err
		}
		if err := repos.Accounts().AddToBalance(ctx, to.ID, amount); err != nil {
			return err
		}
		if err := repos.BankTransfers().Create(ctx, created); err != nil {
			return err
		}
		transfer = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBankTransferResponse(transfer), nil
}

// List lists transfers with filtering and pagination
func (s *BankTransferService) List(ctx context.Context, userID uuid.UUID, filter ledger.BankTransferFilter) ([]BankTransferResponse, int64, error) {
	var (
		transfers []*ledger.BankTransfer
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		var err error
		transfers, total, err = repos.BankTransfers().List(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BankTransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = *toBankTransferResponse(t)
	}
	return responses, total, nil
}

func toBankTransferResponse(t *ledger.BankTransfer) *BankTransferResponse {
	return &BankTransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount.Amount(),
		Date:          t.Date,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}
