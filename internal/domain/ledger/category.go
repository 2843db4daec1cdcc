package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
)

// Category classifies transactions of a single flow direction
type Category struct {
	shared.OwnedAggregateRoot
	Name string
	Type TransactionType
}

// NewCategory creates a new category
func NewCategory(userID uuid.UUID, name string, categoryType TransactionType) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	if !categoryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid category type")
	}
	return &Category{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               name,
		Type:               categoryType,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}
