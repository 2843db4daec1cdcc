package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// GormCardInvoiceRepository implements CardInvoiceRepository using GORM
type GormCardInvoiceRepository struct {
	db *gorm.DB
}

// NewGormCardInvoiceRepository creates a new GormCardInvoiceRepository
func NewGormCardInvoiceRepository(db *gorm.DB) *GormCardInvoiceRepository {
	return &GormCardInvoiceRepository{db: db}
}

// Create creates a new invoice. The unique index on (payment_method_id,
// period_year, period_month) turns concurrent creation into
// shared.ErrAlreadyExists; callers re-fetch the winning row.
func (r *GormCardInvoiceRepository) Create(ctx context.Context, invoice *ledger.CardInvoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds an invoice by its ID
func (r *GormCardInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CardInvoice, error) {
	var invoice ledger.CardInvoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByMethodAndPeriod finds the invoice of a payment method for a billing period
func (r *GormCardInvoiceRepository) FindByMethodAndPeriod(ctx context.Context, paymentMethodID uuid.UUID, period ledger.Period) (*ledger.CardInvoice, error) {
	var invoice ledger.CardInvoice
	if err := r.db.WithContext(ctx).
		Where("payment_method_id = ? AND period_year = ? AND period_month = ?",
			paymentMethodID, period.Year, period.Month).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// List lists invoices with filtering and pagination
func (r *GormCardInvoiceRepository) List(ctx context.Context, userID uuid.UUID, filter ledger.CardInvoiceFilter) ([]*ledger.CardInvoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.CardInvoice{}).
		Where("card_invoices.user_id = ?", userID)

	if filter.PaymentMethodID != nil {
		query = query.Where("card_invoices.payment_method_id = ?", *filter.PaymentMethodID)
	}
	if filter.AccountID != nil {
		query = query.
			Joins("JOIN payment_methods ON payment_methods.id = card_invoices.payment_method_id").
			Where("payment_methods.account_id = ?", *filter.AccountID)
	}
	if filter.Status != nil {
		query = query.Where("card_invoices.status = ?", *filter.Status)
	}
	if filter.Year != nil {
		query = query.Where("card_invoices.period_year = ?", *filter.Year)
	}
	if filter.Month != nil {
		query = query.Where("card_invoices.period_month = ?", *filter.Month)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var invoices []*ledger.CardInvoice
	if err := query.
		Order("card_invoices.period_year DESC, card_invoices.period_month DESC").
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Update persists invoice changes
func (r *GormCardInvoiceRepository) Update(ctx context.Context, invoice *ledger.CardInvoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// Delete removes an invoice
func (r *GormCardInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.CardInvoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddToTotal applies a signed delta to the invoice total with a single
// additive UPDATE, so concurrent postings never lose each other's writes.
func (r *GormCardInvoiceRepository) AddToTotal(ctx context.Context, invoiceID uuid.UUID, delta valueobject.Money) error {
	if delta.IsZero() {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&ledger.CardInvoice{}).
		Where("id = ?", invoiceID).
		Update("total_amount", gorm.Expr("total_amount + ?", delta.Amount()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCardInvoiceRepository implements CardInvoiceRepository
var _ ledger.CardInvoiceRepository = (*GormCardInvoiceRepository)(nil)
