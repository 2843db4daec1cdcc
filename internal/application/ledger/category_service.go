package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// CategoryService provides application-level category operations
type CategoryService struct {
	scope LedgerScope
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(scope LedgerScope) *CategoryService {
	return &CategoryService{scope: scope}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	var category *ledger.Category
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		created, err := ledger.NewCategory(userID, req.Name, ledger.TransactionType(req.Type))
		if err != nil {
			return err
		}
		if err := repos.Categories().Create(ctx, created); err != nil {
			return err
		}
		category = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (*CategoryResponse, error) {
	var category *ledger.Category
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		category = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lists categories of a user, optionally filtered by type
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, categoryType *string) ([]CategoryResponse, error) {
	var categories []*ledger.Category
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		var filter *ledger.TransactionType
		if categoryType != nil {
			t := ledger.TransactionType(*categoryType)
			if !t.IsValid() {
				return shared.NewDomainError("INVALID_INPUT", "Invalid category type")
			}
			filter = &t
		}
		var err error
		categories, err = repos.Categories().ListByUser(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = *toCategoryResponse(c)
	}
	return responses, nil
}

// Update renames a category. The type is fixed at creation; posted
// transactions rely on it.
func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	var category *ledger.Category
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		if err := found.Rename(req.Name); err != nil {
			return err
		}
		if err := repos.Categories().Update(ctx, found); err != nil {
			return err
		}
		category = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete removes a category without linked transactions
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		count, err := repos.Transactions().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("CONFLICT", "Category has transactions and cannot be deleted")
		}
		return repos.Categories().Delete(ctx, id)
	})
}

func toCategoryResponse(c *ledger.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
