package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// Create creates a new payment method
func (r *GormPaymentMethodRepository) Create(ctx context.Context, method *ledger.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

// FindByID finds a payment method by its ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentMethod, error) {
	var method ledger.PaymentMethod
	if err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// ListByAccount lists the payment methods of an account
func (r *GormPaymentMethodRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.PaymentMethod, error) {
	var methods []*ledger.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// CountByAccount counts the payment methods of an account
func (r *GormPaymentMethodRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.PaymentMethod{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName reports whether the account already has a method with the
// given name, excluding excludeID when non-nil
func (r *GormPaymentMethodRepository) ExistsByName(ctx context.Context, accountID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.PaymentMethod{}).
		Where("account_id = ? AND name = ?", accountID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnsetDefaults clears the default flag on every method of an account
func (r *GormPaymentMethodRepository) UnsetDefaults(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&ledger.PaymentMethod{}).
		Where("account_id = ? AND is_default = ?", accountID, true).
		Update("is_default", false).Error
}

// FindOldestByAccount returns the earliest created method of an account,
// excluding excludeID when non-nil
func (r *GormPaymentMethodRepository) FindOldestByAccount(ctx context.Context, accountID uuid.UUID, excludeID *uuid.UUID) (*ledger.PaymentMethod, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var method ledger.PaymentMethod
	if err := query.Order("created_at ASC").First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// Update persists payment method changes
func (r *GormPaymentMethodRepository) Update(ctx context.Context, method *ledger.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(method).Error
}

// Delete removes a payment method
func (r *GormPaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.PaymentMethod{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPaymentMethodRepository implements PaymentMethodRepository
var _ ledger.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
