package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// ledgerFixture wires the posting services against the in-memory store
// with one user, one account, a cash method and a card closing on day 10.
type ledgerFixture struct {
	store   *memoryLedger
	storage *memoryStorage
	posting *PostingService
	userID  uuid.UUID

	account    *ledger.Account
	expenseCat *ledger.Category
	incomeCat  *ledger.Category
	cashMethod *ledger.PaymentMethod
	cardMethod *ledger.PaymentMethod
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	f := &ledgerFixture{
		store:   newMemoryLedger(),
		storage: newMemoryStorage(),
		userID:  uuid.New(),
	}
	f.posting = NewPostingService(f.store, f.storage)

	var err error
	f.account, err = ledger.NewAccount(f.userID, "Conta Corrente", ledger.AccountTypeChecking)
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts().Create(ctx, f.account))

	f.expenseCat, err = ledger.NewCategory(f.userID, "Mercado", ledger.TransactionTypeExpense)
	require.NoError(t, err)
	require.NoError(t, f.store.Categories().Create(ctx, f.expenseCat))

	f.incomeCat, err = ledger.NewCategory(f.userID, "Salário", ledger.TransactionTypeIncome)
	require.NoError(t, err)
	require.NoError(t, f.store.Categories().Create(ctx, f.incomeCat))

	f.cashMethod, err = ledger.NewPaymentMethod(f.userID, f.account.ID, "Pix", ledger.PaymentMethodTypePix, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.PaymentMethods().Create(ctx, f.cashMethod))

	closingDay, dueDay := 10, 20
	f.cardMethod, err = ledger.NewPaymentMethod(f.userID, f.account.ID, "Cartão Nubank", ledger.PaymentMethodTypeCard, &closingDay, &dueDay, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.PaymentMethods().Create(ctx, f.cardMethod))

	return f
}

func (f *ledgerFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	account, err := f.store.Accounts().FindByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	return account.Balance.Amount()
}

func (f *ledgerFixture) expenseRequest(amount float64, methodID uuid.UUID) CreateTransactionRequest {
	return CreateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: methodID,
		Description:     "Compras do mês",
		Amount:          decimal.NewFromFloat(amount),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestPostingService_Create_CashExpense(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	resp, err := f.posting.Create(ctx, f.userID, f.expenseRequest(250.50, f.cashMethod.ID))
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(decimal.NewFromFloat(250.50)))
	assert.Nil(t, resp.CardInvoiceID)
	assert.Equal(t, 1, resp.InstallmentTotal)
	assert.True(t, f.balance(t).Equal(decimal.NewFromFloat(-250.50)))
}

func TestPostingService_Create_CashIncome(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	req := f.expenseRequest(3000, f.cashMethod.ID)
	req.CategoryID = f.incomeCat.ID
	req.Type = "INCOME"

	_, err := f.posting.Create(ctx, f.userID, req)
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(3000)))
}

func TestPostingService_Create_CardExpense(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	resp, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cardMethod.ID))
	require.NoError(t, err)

	// Card purchases never touch the account until the invoice is paid.
	assert.True(t, f.balance(t).IsZero())
	require.NotNil(t, resp.CardInvoiceID)

	invoice, err := f.store.CardInvoices().FindByID(ctx, *resp.CardInvoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(100)))
	// March 15 with closing day 10 falls into the 2024-03 period.
	assert.Equal(t, 2024, invoice.PeriodYear)
	assert.Equal(t, time.March, invoice.PeriodMonth)
	assert.Equal(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), invoice.ClosingDate)
	assert.Equal(t, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), invoice.DueDate)
}

func TestPostingService_Create_PeriodBoundary(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	onClosing := f.expenseRequest(10, f.cardMethod.ID)
	onClosing.Date = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	respOn, err := f.posting.Create(ctx, f.userID, onClosing)
	require.NoError(t, err)

	afterClosing := f.expenseRequest(10, f.cardMethod.ID)
	afterClosing.Date = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	respAfter, err := f.posting.Create(ctx, f.userID, afterClosing)
	require.NoError(t, err)

	// Day 10 still belongs to the February period, day 11 opens March.
	require.NotEqual(t, *respOn.CardInvoiceID, *respAfter.CardInvoiceID)

	feb, err := f.store.CardInvoices().FindByID(ctx, *respOn.CardInvoiceID)
	require.NoError(t, err)
	assert.Equal(t, time.February, feb.PeriodMonth)

	mar, err := f.store.CardInvoices().FindByID(ctx, *respAfter.CardInvoiceID)
	require.NoError(t, err)
	assert.Equal(t, time.March, mar.PeriodMonth)
}

func TestPostingService_Create_SamePeriodSharesInvoice(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	first, err := f.posting.Create(ctx, f.userID, f.expenseRequest(40, f.cardMethod.ID))
	require.NoError(t, err)
	second, err := f.posting.Create(ctx, f.userID, f.expenseRequest(60, f.cardMethod.ID))
	require.NoError(t, err)

	require.Equal(t, *first.CardInvoiceID, *second.CardInvoiceID)
	invoice, err := f.store.CardInvoices().FindByID(ctx, *first.CardInvoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(100)))
}

func TestPostingService_Create_CardRefundReducesInvoice(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	resp, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cardMethod.ID))
	require.NoError(t, err)

	refund := f.expenseRequest(30, f.cardMethod.ID)
	refund.CategoryID = f.incomeCat.ID
	refund.Type = "INCOME"
	refundResp, err := f.posting.Create(ctx, f.userID, refund)
	require.NoError(t, err)
	require.Equal(t, *resp.CardInvoiceID, *refundResp.CardInvoiceID)

	invoice, err := f.store.CardInvoices().FindByID(ctx, *resp.CardInvoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(70)))
	assert.True(t, f.balance(t).IsZero())
}

func TestPostingService_Create_Installments(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	req := f.expenseRequest(100, f.cardMethod.ID)
	req.Installments = 3

	resp, err := f.posting.Create(ctx, f.userID, req)
	require.NoError(t, err)
	require.NotNil(t, resp.InstallmentGroupID)
	assert.Equal(t, 1, resp.InstallmentNumber)
	assert.Equal(t, 3, resp.InstallmentTotal)
	assert.True(t, resp.Amount.Equal(decimal.NewFromFloat(33.33)))

	group, err := f.store.Transactions().ListByGroup(ctx, *resp.InstallmentGroupID)
	require.NoError(t, err)
	require.Len(t, group, 3)

	// Truncated parts with the remainder on the last one, summing exactly.
	sum := decimal.Zero
	for _, tx := range group {
		sum = sum.Add(tx.Amount.Amount())
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
	assert.True(t, group[2].Amount.Amount().Equal(decimal.NewFromFloat(33.34)))

	// One month apart, one invoice per billing period.
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), group[0].Date)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), group[1].Date)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), group[2].Date)

	seen := make(map[uuid.UUID]bool)
	for _, tx := range group {
		require.NotNil(t, tx.CardInvoiceID)
		seen[*tx.CardInvoiceID] = true
	}
	assert.Len(t, seen, 3)

	// Invoice totals conserve the purchase amount.
	invoiceSum := decimal.Zero
	for invoiceID := range seen {
		invoice, err := f.store.CardInvoices().FindByID(ctx, invoiceID)
		require.NoError(t, err)
		invoiceSum = invoiceSum.Add(invoice.TotalAmount.Amount())
	}
	assert.True(t, invoiceSum.Equal(decimal.NewFromInt(100)))
}

func TestPostingService_Create_InstallmentsRequireCard(t *testing.T) {
	f := newLedgerFixture(t)

	req := f.expenseRequest(100, f.cashMethod.ID)
	req.Installments = 3

	_, err := f.posting.Create(context.Background(), f.userID, req)
	assertCode(t, err, "INVALID_INPUT")
}

func TestPostingService_Create_TooManyInstallments(t *testing.T) {
	f := newLedgerFixture(t)

	req := f.expenseRequest(100, f.cardMethod.ID)
	req.Installments = 121

	_, err := f.posting.Create(context.Background(), f.userID, req)
	assertCode(t, err, "INVALID_INPUT")
}

func TestPostingService_Create_CategoryTypeMismatch(t *testing.T) {
	f := newLedgerFixture(t)

	req := f.expenseRequest(50, f.cashMethod.ID)
	req.CategoryID = f.incomeCat.ID

	_, err := f.posting.Create(context.Background(), f.userID, req)
	assertCode(t, err, "INVALID_INPUT")
}

func TestPostingService_Create_MethodFromOtherAccount(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	other, err := ledger.NewAccount(f.userID, "Poupança", ledger.AccountTypeSavings)
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts().Create(ctx, other))
	foreign, err := ledger.NewPaymentMethod(f.userID, other.ID, "Dinheiro", ledger.PaymentMethodTypeCash, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.PaymentMethods().Create(ctx, foreign))

	req := f.expenseRequest(50, foreign.ID)
	_, err = f.posting.Create(ctx, f.userID, req)
	assertCode(t, err, "INVALID_INPUT")
}

func TestPostingService_Create_ForeignAccountForbidden(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.Create(context.Background(), uuid.New(), f.expenseRequest(50, f.cashMethod.ID))
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPostingService_Update_RewritesImpact(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cashMethod.ID))
	require.NoError(t, err)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))

	updated, err := f.posting.Update(ctx, f.userID, created.ID, UpdateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: f.cashMethod.ID,
		Description:     "Compras revisadas",
		Amount:          decimal.NewFromInt(60),
		Date:            time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-60)))
}

func TestPostingService_Update_CashToCard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cashMethod.ID))
	require.NoError(t, err)

	updated, err := f.posting.Update(ctx, f.userID, created.ID, UpdateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: f.cardMethod.ID,
		Description:     "Compras no cartão",
		Amount:          decimal.NewFromInt(100),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
	})
	require.NoError(t, err)

	// Moving to a card refunds the account and opens an invoice.
	assert.True(t, f.balance(t).IsZero())
	require.NotNil(t, updated.CardInvoiceID)
	invoice, err := f.store.CardInvoices().FindByID(ctx, *updated.CardInvoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(100)))
}

func TestPostingService_Update_CardToCash(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cardMethod.ID))
	require.NoError(t, err)
	invoiceID := *created.CardInvoiceID

	updated, err := f.posting.Update(ctx, f.userID, created.ID, UpdateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: f.cashMethod.ID,
		Description:     "Pago no débito afinal",
		Amount:          decimal.NewFromInt(100),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
	})
	require.NoError(t, err)

	assert.Nil(t, updated.CardInvoiceID)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))

	invoice, err := f.store.CardInvoices().FindByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.IsZero())
}

func TestPostingService_Update_InstallmentGroupConflict(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	req := f.expenseRequest(100, f.cardMethod.ID)
	req.Installments = 2
	created, err := f.posting.Create(ctx, f.userID, req)
	require.NoError(t, err)

	_, err = f.posting.Update(ctx, f.userID, created.ID, UpdateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: f.cardMethod.ID,
		Description:     "Tentativa",
		Amount:          decimal.NewFromInt(50),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
	})
	assertCode(t, err, "CONFLICT")
}

func TestPostingService_Update_CannotIntroduceInstallments(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cardMethod.ID))
	require.NoError(t, err)

	req := UpdateTransactionRequest{
		AccountID:       f.account.ID,
		CategoryID:      f.expenseCat.ID,
		PaymentMethodID: f.cardMethod.ID,
		Description:     "Parcelado agora",
		Amount:          decimal.NewFromInt(100),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:            "EXPENSE",
		Installments:    3,
	}
	_, err = f.posting.Update(ctx, f.userID, created.ID, req)
	assertCode(t, err, "INVALID_INPUT")
}

func TestPostingService_Delete_RestoresBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cashMethod.ID))
	require.NoError(t, err)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))

	require.NoError(t, f.posting.Delete(ctx, f.userID, created.ID))
	assert.True(t, f.balance(t).IsZero())

	_, err = f.posting.Get(ctx, f.userID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostingService_Delete_InstallmentCascade(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	req := f.expenseRequest(100, f.cardMethod.ID)
	req.Installments = 3
	created, err := f.posting.Create(ctx, f.userID, req)
	require.NoError(t, err)

	group, err := f.store.Transactions().ListByGroup(ctx, *created.InstallmentGroupID)
	require.NoError(t, err)
	require.Len(t, group, 3)

	// Deleting the middle installment removes the whole group.
	require.NoError(t, f.posting.Delete(ctx, f.userID, group[1].ID))

	remaining, err := f.store.Transactions().ListByGroup(ctx, *created.InstallmentGroupID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	for _, tx := range group {
		invoice, err := f.store.CardInvoices().FindByID(ctx, *tx.CardInvoiceID)
		require.NoError(t, err)
		assert.True(t, invoice.TotalAmount.IsZero())
	}
	assert.True(t, f.balance(t).IsZero())
}

func TestPostingService_Delete_RemovesAttachments(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cashMethod.ID))
	require.NoError(t, err)

	attachments := NewAttachmentService(f.store, f.storage)
	_, err = attachments.Upload(ctx, f.userID, created.ID, UploadAttachmentRequest{
		FileName:    "nota-fiscal.pdf",
		ContentType: "application/pdf",
		SizeBytes:   4,
		Body:        strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.storage.count())

	require.NoError(t, f.posting.Delete(ctx, f.userID, created.ID))

	assert.Equal(t, 0, f.storage.count())
	list, err := f.store.Attachments().ListByTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostingService_PaidInvoiceReconciliation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.posting.Create(ctx, f.userID, f.expenseRequest(100, f.cardMethod.ID))
	require.NoError(t, err)
	invoiceID := *created.CardInvoiceID

	invoices := NewCardInvoiceService(f.store)
	_, err = invoices.Pay(ctx, f.userID, invoiceID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))

	// A late purchase in the already paid period debits the payer too.
	late := f.expenseRequest(50, f.cardMethod.ID)
	late.Date = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err = f.posting.Create(ctx, f.userID, late)
	require.NoError(t, err)

	invoice, err := f.store.CardInvoices().FindByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(150)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-150)))

	// Deleting the late purchase reverses both sides again.
	txs, _, err := f.store.Transactions().List(ctx, f.userID, ledger.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.NoError(t, f.posting.Delete(ctx, f.userID, txs[1].ID))

	invoice, err = f.store.CardInvoices().FindByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.Amount().Equal(decimal.NewFromInt(100)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))
}

func TestPostingService_List_Filters(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.posting.Create(ctx, f.userID, f.expenseRequest(10, f.cashMethod.ID))
	require.NoError(t, err)
	_, err = f.posting.Create(ctx, f.userID, f.expenseRequest(20, f.cardMethod.ID))
	require.NoError(t, err)

	income := f.expenseRequest(30, f.cashMethod.ID)
	income.CategoryID = f.incomeCat.ID
	income.Type = "INCOME"
	_, err = f.posting.Create(ctx, f.userID, income)
	require.NoError(t, err)

	all, total, err := f.posting.List(ctx, f.userID, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	expenseType := ledger.TransactionTypeExpense
	expenses, total, err := f.posting.List(ctx, f.userID, ledger.TransactionFilter{Type: &expenseType})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, expenses, 2)

	byMethod, _, err := f.posting.List(ctx, f.userID, ledger.TransactionFilter{PaymentMethodID: &f.cardMethod.ID})
	require.NoError(t, err)
	assert.Len(t, byMethod, 1)

	paged, total, err := f.posting.List(ctx, f.userID, ledger.TransactionFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 1)
}
