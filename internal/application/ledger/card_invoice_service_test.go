package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// openInvoice posts a card expense and returns the invoice it opened
func openInvoice(t *testing.T, f *ledgerFixture, amount float64) *ledger.CardInvoice {
	t.Helper()
	ctx := context.Background()
	resp, err := f.posting.Create(ctx, f.userID, f.expenseRequest(amount, f.cardMethod.ID))
	require.NoError(t, err)
	require.NotNil(t, resp.CardInvoiceID)
	invoice, err := f.store.CardInvoices().FindByID(ctx, *resp.CardInvoiceID)
	require.NoError(t, err)
	return invoice
}

func TestCardInvoiceService_Pay(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 350)

	paidAt := time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC)
	resp, err := service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{
		AccountID:   f.account.ID,
		PaymentDate: &paidAt,
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	require.NotNil(t, resp.PaidFromAccountID)
	assert.Equal(t, f.account.ID, *resp.PaidFromAccountID)
	require.NotNil(t, resp.PaidAt)
	assert.Equal(t, paidAt, *resp.PaidAt)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-350)))
}

func TestCardInvoiceService_Pay_AlreadyPaid(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 100)

	_, err := service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)

	_, err = service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	assertCode(t, err, "CONFLICT")
}

func TestCardInvoiceService_Pay_NonPositiveTotal(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 100)

	// Reverse the purchase, leaving the invoice at zero.
	txs, _, err := f.store.Transactions().List(ctx, f.userID, ledger.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.NoError(t, f.posting.Delete(ctx, f.userID, txs[0].ID))

	_, err = service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	assertCode(t, err, "INVALID_INPUT")
}

func TestCardInvoiceService_CancelPayment(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 200)

	_, err := service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(-200)))

	resp, err := service.CancelPayment(ctx, f.userID, invoice.ID)
	require.NoError(t, err)

	// Pay and cancel are exact inverses.
	assert.Equal(t, "OPEN", resp.Status)
	assert.Nil(t, resp.PaidFromAccountID)
	assert.Nil(t, resp.PaidAt)
	assert.True(t, f.balance(t).IsZero())

	// The reopened invoice can be paid again.
	_, err = service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-200)))
}

func TestCardInvoiceService_CancelPayment_NotPaid(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 100)

	_, err := service.CancelPayment(context.Background(), f.userID, invoice.ID)
	assertCode(t, err, "CONFLICT")
}

func TestCardInvoiceService_UpdateTotal(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 100)

	resp, err := service.UpdateTotal(ctx, f.userID, invoice.ID, UpdateInvoiceTotalRequest{
		TotalAmount: decimal.NewFromFloat(123.45),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(123.45)))
	// Open invoice corrections never touch any account.
	assert.True(t, f.balance(t).IsZero())
}

func TestCardInvoiceService_UpdateTotal_PaidInvoiceReconciles(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 100)

	_, err := service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(-100)))

	resp, err := service.UpdateTotal(ctx, f.userID, invoice.ID, UpdateInvoiceTotalRequest{
		TotalAmount: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(-150)))
}

func TestCardInvoiceService_Delete_RefundsPayer(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)
	invoice := openInvoice(t, f, 80)

	_, err := service.Pay(ctx, f.userID, invoice.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, f.userID, invoice.ID))
	assert.True(t, f.balance(t).IsZero())

	_, err = service.Get(ctx, f.userID, invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCardInvoiceService_List_ByStatus(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCardInvoiceService(f.store)

	first := openInvoice(t, f, 100)

	// A purchase one period later opens a second invoice.
	later := f.expenseRequest(50, f.cardMethod.ID)
	later.Date = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	_, err := f.posting.Create(ctx, f.userID, later)
	require.NoError(t, err)

	_, err = service.Pay(ctx, f.userID, first.ID, PayInvoiceRequest{AccountID: f.account.ID})
	require.NoError(t, err)

	open := ledger.CardInvoiceStatusOpen
	invoices, total, err := service.List(ctx, f.userID, ledger.CardInvoiceFilter{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)
	assert.Equal(t, 4, invoices[0].PeriodMonth)
}
