package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// GormBankTransferRepository implements BankTransferRepository using GORM
type GormBankTransferRepository struct {
	db *gorm.DB
}

// NewGormBankTransferRepository creates a new GormBankTransferRepository
func NewGormBankTransferRepository(db *gorm.DB) *GormBankTransferRepository {
	return &GormBankTransferRepository{db: db}
}

// Create creates a new transfer record
func (r *GormBankTransferRepository) Create(ctx context.Context, transfer *ledger.BankTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// FindByID finds a transfer by its ID
func (r *GormBankTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.BankTransfer, error) {
	var transfer ledger.BankTransfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// List lists transfers with filtering and pagination
func (r *GormBankTransferRepository) List(ctx context.Context, userID uuid.UUID, filter ledger.BankTransferFilter) ([]*ledger.BankTransfer, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.BankTransfer{}).
		Where("user_id = ?", userID)

	if filter.AccountID != nil {
		query = query.Where("from_account_id = ? OR to_account_id = ?", *filter.AccountID, *filter.AccountID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
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

	var transfers []*ledger.BankTransfer
	if err := query.Order("date ASC, created_at ASC").Find(&transfers).Error; err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}

// Ensure GormBankTransferRepository implements BankTransferRepository
var _ ledger.BankTransferRepository = (*GormBankTransferRepository)(nil)
