package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create creates a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var transaction ledger.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// List lists transactions with filtering and pagination
func (r *GormTransactionRepository) List(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.Transaction, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Where("user_id = ?", userID), filter)

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

	var transactions []*ledger.Transaction
	if err := query.Order("date ASC, created_at ASC").Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// ListByGroup lists all installments of a group ordered by installment number
func (r *GormTransactionRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*ledger.Transaction, error) {
	var transactions []*ledger.Transaction
	if err := r.db.WithContext(ctx).
		Where("installment_group_id = ?", groupID).
		Order("installment_number ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Update persists transaction changes
func (r *GormTransactionRepository) Update(ctx context.Context, transaction *ledger.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByAccount counts transactions referencing an account
func (r *GormTransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return r.countWhere(ctx, "account_id = ?", accountID)
}

// CountByCategory counts transactions referencing a category
func (r *GormTransactionRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return r.countWhere(ctx, "category_id = ?", categoryID)
}

// CountByPaymentMethod counts transactions referencing a payment method
func (r *GormTransactionRepository) CountByPaymentMethod(ctx context.Context, paymentMethodID uuid.UUID) (int64, error) {
	return r.countWhere(ctx, "payment_method_id = ?", paymentMethodID)
}

func (r *GormTransactionRepository) countWhere(ctx context.Context, condition string, value interface{}) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Where(condition, value).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByType returns the total amount of transactions of a type within a
// date range (inclusive on both ends)
func (r *GormTransactionRepository) SumByType(ctx context.Context, userID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (valueobject.Money, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?", userID, txType, from, to).
		Scan(&sum).Error; err != nil {
		return valueobject.ZeroBRL(), err
	}
	return valueobject.NewMoneyBRL(sum), nil
}

type accountSumRow struct {
	AccountID   uuid.UUID
	AccountName string
	Total       decimal.Decimal
}

// SumExpensesByAccount groups expense totals by account within a date range
func (r *GormTransactionRepository) SumExpensesByAccount(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ledger.AmountByAccount, error) {
	var rows []accountSumRow
	if err := r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Select("transactions.account_id, accounts.name AS account_name, SUM(transactions.amount) AS total").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date BETWEEN ? AND ?",
			userID, ledger.TransactionTypeExpense, from, to).
		Group("transactions.account_id, accounts.name").
		Order("account_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ledger.AmountByAccount, 0, len(rows))
	for _, row := range rows {
		result = append(result, ledger.AmountByAccount{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			Total:       valueobject.NewMoneyBRL(row.Total),
		})
	}
	return result, nil
}

type categorySumRow struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// SumExpensesByCategory groups expense totals by category within a date range
func (r *GormTransactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ledger.AmountByCategory, error) {
	var rows []categorySumRow
	if err := r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Select("transactions.category_id, categories.name AS category_name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date BETWEEN ? AND ?",
			userID, ledger.TransactionTypeExpense, from, to).
		Group("transactions.category_id, categories.name").
		Order("category_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ledger.AmountByCategory, 0, len(rows))
	for _, row := range rows {
		result = append(result, ledger.AmountByCategory{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Total:        valueobject.NewMoneyBRL(row.Total),
		})
	}
	return result, nil
}

// applyFilter applies filter options to the query, pagination excluded
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.PaymentMethodID != nil {
		query = query.Where("payment_method_id = ?", *filter.PaymentMethodID)
	}
	if filter.CardInvoiceID != nil {
		query = query.Where("card_invoice_id = ?", *filter.CardInvoiceID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
