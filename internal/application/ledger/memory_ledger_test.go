package ledger

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// memoryLedger is an in-memory implementation of the ledger repositories
// for testing. It acts as its own scope: Execute runs the function against
// the shared maps directly.
type memoryLedger struct {
	mu          sync.Mutex
	accounts    map[uuid.UUID]*ledger.Account
	categories  map[uuid.UUID]*ledger.Category
	methods     map[uuid.UUID]*ledger.PaymentMethod
	methodOrder []uuid.UUID
	txs         map[uuid.UUID]*ledger.Transaction
	txOrder     []uuid.UUID
	invoices    map[uuid.UUID]*ledger.CardInvoice
	transfers   map[uuid.UUID]*ledger.BankTransfer
	attachments map[uuid.UUID]*ledger.Attachment
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		accounts:    make(map[uuid.UUID]*ledger.Account),
		categories:  make(map[uuid.UUID]*ledger.Category),
		methods:     make(map[uuid.UUID]*ledger.PaymentMethod),
		txs:         make(map[uuid.UUID]*ledger.Transaction),
		invoices:    make(map[uuid.UUID]*ledger.CardInvoice),
		transfers:   make(map[uuid.UUID]*ledger.BankTransfer),
		attachments: make(map[uuid.UUID]*ledger.Attachment),
	}
}

func (m *memoryLedger) Execute(_ context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(m)
}

func (m *memoryLedger) Accounts() ledger.AccountRepository           { return (*memoryAccountRepo)(m) }
func (m *memoryLedger) Categories() ledger.CategoryRepository        { return (*memoryCategoryRepo)(m) }
func (m *memoryLedger) PaymentMethods() ledger.PaymentMethodRepository {
	return (*memoryMethodRepo)(m)
}
func (m *memoryLedger) Transactions() ledger.TransactionRepository   { return (*memoryTxRepo)(m) }
func (m *memoryLedger) CardInvoices() ledger.CardInvoiceRepository   { return (*memoryInvoiceRepo)(m) }
func (m *memoryLedger) BankTransfers() ledger.BankTransferRepository { return (*memoryTransferRepo)(m) }
func (m *memoryLedger) Attachments() ledger.AttachmentRepository     { return (*memoryAttachmentRepo)(m) }

var _ LedgerScope = (*memoryLedger)(nil)
var _ LedgerRepositories = (*memoryLedger)(nil)

type memoryAccountRepo memoryLedger

func (r *memoryAccountRepo) Create(_ context.Context, account *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
	return nil
}

func (r *memoryAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (r *memoryAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memoryAccountRepo) Update(_ context.Context, account *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return shared.ErrNotFound
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memoryAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memoryAccountRepo) AddToBalance(_ context.Context, accountID uuid.UUID, delta valueobject.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[accountID]
	if !ok {
		return shared.ErrNotFound
	}
	account.Balance = account.Balance.MustAdd(delta)
	return nil
}

type memoryCategoryRepo memoryLedger

func (r *memoryCategoryRepo) Create(_ context.Context, category *ledger.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *memoryCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

func (r *memoryCategoryRepo) ListByUser(_ context.Context, userID uuid.UUID, categoryType *ledger.TransactionType) ([]*ledger.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.Category
	for _, c := range r.categories {
		if c.UserID != userID {
			continue
		}
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memoryCategoryRepo) Update(_ context.Context, category *ledger.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return shared.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *memoryCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

type memoryMethodRepo memoryLedger

func (r *memoryMethodRepo) Create(_ context.Context, method *ledger.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[method.ID] = method
	r.methodOrder = append(r.methodOrder, method.ID)
	return nil
}

func (r *memoryMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	method, ok := r.methods[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return method, nil
}

func (r *memoryMethodRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*ledger.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.PaymentMethod
	for _, id := range r.methodOrder {
		if m, ok := r.methods[id]; ok && m.AccountID == accountID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memoryMethodRepo) CountByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.methods {
		if m.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (r *memoryMethodRepo) ExistsByName(_ context.Context, accountID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.methods {
		if m.AccountID != accountID || m.Name != name {
			continue
		}
		if excludeID != nil && m.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *memoryMethodRepo) UnsetDefaults(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.methods {
		if m.AccountID == accountID {
			m.UnmarkDefault()
		}
	}
	return nil
}

func (r *memoryMethodRepo) FindOldestByAccount(_ context.Context, accountID uuid.UUID, excludeID *uuid.UUID) (*ledger.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.methodOrder {
		m, ok := r.methods[id]
		if !ok || m.AccountID != accountID {
			continue
		}
		if excludeID != nil && m.ID == *excludeID {
			continue
		}
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryMethodRepo) Update(_ context.Context, method *ledger.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[method.ID]; !ok {
		return shared.ErrNotFound
	}
	r.methods[method.ID] = method
	return nil
}

func (r *memoryMethodRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.methods, id)
	return nil
}

type memoryTxRepo memoryLedger

func (r *memoryTxRepo) Create(_ context.Context, transaction *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[transaction.ID] = transaction
	r.txOrder = append(r.txOrder, transaction.ID)
	return nil
}

func (r *memoryTxRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return tx, nil
}

func (r *memoryTxRepo) List(_ context.Context, userID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*ledger.Transaction
	for _, id := range r.txOrder {
		tx, ok := r.txs[id]
		if !ok || tx.UserID != userID {
			continue
		}
		if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && tx.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.PaymentMethodID != nil && tx.PaymentMethodID != *filter.PaymentMethodID {
			continue
		}
		if filter.CardInvoiceID != nil && (tx.CardInvoiceID == nil || *tx.CardInvoiceID != *filter.CardInvoiceID) {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.DateFrom != nil && tx.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && tx.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, tx)
	}

	total := int64(len(matched))
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(matched) {
			return nil, total, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *memoryTxRepo) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.Transaction
	for _, tx := range r.txs {
		if tx.InstallmentGroupID != nil && *tx.InstallmentGroupID == groupID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].InstallmentNumber < result[j].InstallmentNumber
	})
	return result, nil
}

func (r *memoryTxRepo) Update(_ context.Context, transaction *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[transaction.ID]; !ok {
		return shared.ErrNotFound
	}
	r.txs[transaction.ID] = transaction
	return nil
}

func (r *memoryTxRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *memoryTxRepo) CountByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.txs {
		if tx.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (r *memoryTxRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.txs {
		if tx.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *memoryTxRepo) CountByPaymentMethod(_ context.Context, paymentMethodID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.txs {
		if tx.PaymentMethodID == paymentMethodID {
			count++
		}
	}
	return count, nil
}

func (r *memoryTxRepo) SumByType(_ context.Context, userID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (valueobject.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := valueobject.ZeroBRL()
	for _, tx := range r.txs {
		if tx.UserID != userID || tx.Type != txType {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		sum = sum.MustAdd(tx.Amount)
	}
	return sum, nil
}

func (r *memoryTxRepo) SumExpensesByAccount(_ context.Context, userID uuid.UUID, from, to time.Time) ([]ledger.AmountByAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[uuid.UUID]valueobject.Money)
	for _, tx := range r.txs {
		if tx.UserID != userID || tx.Type != ledger.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		current, ok := totals[tx.AccountID]
		if !ok {
			current = valueobject.ZeroBRL()
		}
		totals[tx.AccountID] = current.MustAdd(tx.Amount)
	}

	var result []ledger.AmountByAccount
	for accountID, total := range totals {
		row := ledger.AmountByAccount{AccountID: accountID, Total: total}
		if a, ok := r.accounts[accountID]; ok {
			row.AccountName = a.Name
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountName < result[j].AccountName })
	return result, nil
}

func (r *memoryTxRepo) SumExpensesByCategory(_ context.Context, userID uuid.UUID, from, to time.Time) ([]ledger.AmountByCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[uuid.UUID]valueobject.Money)
	for _, tx := range r.txs {
		if tx.UserID != userID || tx.Type != ledger.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		current, ok := totals[tx.CategoryID]
		if !ok {
			current = valueobject.ZeroBRL()
		}
		totals[tx.CategoryID] = current.MustAdd(tx.Amount)
	}

	var result []ledger.AmountByCategory
	for categoryID, total := range totals {
		row := ledger.AmountByCategory{CategoryID: categoryID, Total: total}
		if c, ok := r.categories[categoryID]; ok {
			row.CategoryName = c.Name
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CategoryName < result[j].CategoryName })
	return result, nil
}

type memoryInvoiceRepo memoryLedger

func (r *memoryInvoiceRepo) Create(_ context.Context, invoice *ledger.CardInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.PaymentMethodID == invoice.PaymentMethodID &&
			existing.PeriodYear == invoice.PeriodYear &&
			existing.PeriodMonth == invoice.PeriodMonth {
			return shared.ErrAlreadyExists
		}
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memoryInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.CardInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return invoice, nil
}

func (r *memoryInvoiceRepo) FindByMethodAndPeriod(_ context.Context, paymentMethodID uuid.UUID, period ledger.Period) (*ledger.CardInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.PaymentMethodID == paymentMethodID &&
			invoice.PeriodYear == period.Year &&
			invoice.PeriodMonth == period.Month {
			return invoice, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInvoiceRepo) List(_ context.Context, userID uuid.UUID, filter ledger.CardInvoiceFilter) ([]*ledger.CardInvoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.CardInvoice
	for _, invoice := range r.invoices {
		if invoice.UserID != userID {
			continue
		}
		if filter.PaymentMethodID != nil && invoice.PaymentMethodID != *filter.PaymentMethodID {
			continue
		}
		if filter.Status != nil && invoice.Status != *filter.Status {
			continue
		}
		if filter.Year != nil && invoice.PeriodYear != *filter.Year {
			continue
		}
		if filter.Month != nil && invoice.PeriodMonth != *filter.Month {
			continue
		}
		result = append(result, invoice)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PeriodYear != result[j].PeriodYear {
			return result[i].PeriodYear < result[j].PeriodYear
		}
		return result[i].PeriodMonth < result[j].PeriodMonth
	})
	return result, int64(len(result)), nil
}

func (r *memoryInvoiceRepo) Update(_ context.Context, invoice *ledger.CardInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoice.ID]; !ok {
		return shared.ErrNotFound
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memoryInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memoryInvoiceRepo) AddToTotal(_ context.Context, invoiceID uuid.UUID, delta valueobject.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[invoiceID]
	if !ok {
		return shared.ErrNotFound
	}
	invoice.TotalAmount = invoice.TotalAmount.MustAdd(delta)
	return nil
}

type memoryTransferRepo memoryLedger

func (r *memoryTransferRepo) Create(_ context.Context, transfer *ledger.BankTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers[transfer.ID] = transfer
	return nil
}

func (r *memoryTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.BankTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return transfer, nil
}

func (r *memoryTransferRepo) List(_ context.Context, userID uuid.UUID, filter ledger.BankTransferFilter) ([]*ledger.BankTransfer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.BankTransfer
	for _, t := range r.transfers {
		if t.UserID != userID {
			continue
		}
		if filter.AccountID != nil && t.FromAccountID != *filter.AccountID && t.ToAccountID != *filter.AccountID {
			continue
		}
		if filter.DateFrom != nil && t.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, int64(len(result)), nil
}

type memoryAttachmentRepo memoryLedger

func (r *memoryAttachmentRepo) Create(_ context.Context, attachment *ledger.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[attachment.ID] = attachment
	return nil
}

func (r *memoryAttachmentRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attachment, ok := r.attachments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return attachment, nil
}

func (r *memoryAttachmentRepo) ListByTransaction(_ context.Context, transactionID uuid.UUID) ([]*ledger.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*ledger.Attachment
	for _, a := range r.attachments {
		if a.TransactionID == transactionID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FileName < result[j].FileName })
	return result, nil
}

func (r *memoryAttachmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attachments[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.attachments, id)
	return nil
}

func (r *memoryAttachmentRepo) DeleteByTransaction(_ context.Context, transactionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.attachments {
		if a.TransactionID == transactionID {
			delete(r.attachments, id)
		}
	}
	return nil
}

// memoryStorage is an in-memory object store for testing
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", shared.ErrNotFound
	}
	return fmt.Sprintf("https://storage.test/%s", key), nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

var _ ObjectStorage = (*memoryStorage)(nil)
