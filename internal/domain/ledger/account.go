package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeInvestment AccountType = "INVESTMENT"
)

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsValid returns true if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCash, AccountTypeInvestment:
		return true
	}
	return false
}

// Account represents a money holding owned by a user. Its balance is only
// ever mutated through additive deltas so concurrent postings never lose
// updates.
type Account struct {
	shared.OwnedAggregateRoot
	Name    string
	Type    AccountType
	Balance valueobject.Money
}

// NewAccount creates a new account with a zero balance
func NewAccount(userID uuid.UUID, name string, accountType AccountType) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid account type")
	}
	return &Account{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               name,
		Type:               accountType,
		Balance:            valueobject.ZeroBRL(),
	}, nil
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Account name cannot be empty")
	}
	a.Name = name
	a.Touch()
	return nil
}

// ChangeType changes the account type
func (a *Account) ChangeType(accountType AccountType) error {
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid account type")
	}
	a.Type = accountType
	a.Touch()
	return nil
}
