package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

func newTestInvoice() *CardInvoice {
	return NewCardInvoice(uuid.New(), uuid.New(), NewPeriod(2024, time.March), 10, 20)
}

func TestNewCardInvoice(t *testing.T) {
	inv := newTestInvoice()

	assert.Equal(t, CardInvoiceStatusOpen, inv.Status)
	assert.True(t, inv.TotalAmount.IsZero())
	assert.Nil(t, inv.PaidFromAccountID)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, NewPeriod(2024, time.March), inv.Period())
	assert.Equal(t, date(2024, time.April, 10), inv.ClosingDate)
	assert.Equal(t, date(2024, time.April, 20), inv.DueDate)
}

func TestCardInvoiceMarkPaid(t *testing.T) {
	t.Run("pays an open invoice with positive total", func(t *testing.T) {
		inv := newTestInvoice()
		inv.TotalAmount = valueobject.NewMoneyBRLFromFloat(250)
		accountID := uuid.New()
		paidAt := date(2024, time.April, 18)

		require.NoError(t, inv.MarkPaid(accountID, paidAt))
		assert.Equal(t, CardInvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidFromAccountID)
		assert.Equal(t, accountID, *inv.PaidFromAccountID)
		require.NotNil(t, inv.PaidAt)
		assert.Equal(t, paidAt, *inv.PaidAt)
	})

	t.Run("rejects paying an already paid invoice", func(t *testing.T) {
		inv := newTestInvoice()
		inv.TotalAmount = valueobject.NewMoneyBRLFromFloat(250)
		require.NoError(t, inv.MarkPaid(uuid.New(), time.Now()))

		err := inv.MarkPaid(uuid.New(), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects paying a zero total invoice", func(t *testing.T) {
		inv := newTestInvoice()
		err := inv.MarkPaid(uuid.New(), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects paying a negative total invoice", func(t *testing.T) {
		inv := newTestInvoice()
		inv.TotalAmount = valueobject.NewMoneyBRLFromFloat(-10)
		err := inv.MarkPaid(uuid.New(), time.Now())
		assert.Error(t, err)
	})
}

func TestCardInvoiceCancelPayment(t *testing.T) {
	t.Run("cancelling a paid invoice reopens it", func(t *testing.T) {
		inv := newTestInvoice()
		inv.TotalAmount = valueobject.NewMoneyBRLFromFloat(99.90)
		require.NoError(t, inv.MarkPaid(uuid.New(), time.Now()))

		require.NoError(t, inv.CancelPayment())
		assert.Equal(t, CardInvoiceStatusOpen, inv.Status)
		assert.Nil(t, inv.PaidFromAccountID)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("rejects cancelling an open invoice", func(t *testing.T) {
		inv := newTestInvoice()
		assert.Error(t, inv.CancelPayment())
	})

	t.Run("pay then cancel restores the open state", func(t *testing.T) {
		inv := newTestInvoice()
		inv.TotalAmount = valueobject.NewMoneyBRLFromFloat(42)
		require.NoError(t, inv.MarkPaid(uuid.New(), time.Now()))
		require.NoError(t, inv.CancelPayment())

		// Paying again must work after a cancel.
		require.NoError(t, inv.MarkPaid(uuid.New(), time.Now()))
		assert.True(t, inv.IsPaid())
	})
}
