package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// BankTransfer is an immutable record of money moved between two accounts
// of the same user.
type BankTransfer struct {
	shared.OwnedAggregateRoot
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        valueobject.Money
	Date          time.Time
	Description   string
}

// NewBankTransfer creates a transfer record between two distinct accounts
func NewBankTransfer(
	userID uuid.UUID,
	fromAccountID, toAccountID uuid.UUID,
	amount valueobject.Money,
	date time.Time,
	description string,
) (*BankTransfer, error) {
	if fromAccountID == toAccountID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Source and target accounts must be different")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer amount must be positive")
	}
	return &BankTransfer{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		FromAccountID:      fromAccountID,
		ToAccountID:        toAccountID,
		Amount:             amount,
		Date:               DateOnly(date),
		Description:        strings.TrimSpace(description),
	}, nil
}
