package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()

	t.Run("creates a valid transaction", func(t *testing.T) {
		tx, err := NewTransaction(userID, uuid.New(), uuid.New(), uuid.New(),
			"Groceries", valueobject.NewMoneyBRLFromFloat(150.75),
			time.Date(2024, time.May, 3, 14, 30, 0, 0, time.Local), TransactionTypeExpense)
		require.NoError(t, err)
		assert.Equal(t, 1, tx.InstallmentNumber)
		assert.Equal(t, 1, tx.InstallmentTotal)
		assert.Nil(t, tx.InstallmentGroupID)
		assert.False(t, tx.IsInstallmentGroup())
		assert.Equal(t, date(2024, time.May, 3), tx.Date)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewTransaction(userID, uuid.New(), uuid.New(), uuid.New(),
			"  ", valueobject.NewMoneyBRLFromFloat(10), time.Now(), TransactionTypeExpense)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewTransaction(userID, uuid.New(), uuid.New(), uuid.New(),
			"Refund", valueobject.ZeroBRL(), time.Now(), TransactionTypeIncome)
		assert.Error(t, err)

		_, err = NewTransaction(userID, uuid.New(), uuid.New(), uuid.New(),
			"Refund", valueobject.NewMoneyBRLFromFloat(-5), time.Now(), TransactionTypeIncome)
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewTransaction(userID, uuid.New(), uuid.New(), uuid.New(),
			"Thing", valueobject.NewMoneyBRLFromFloat(10), time.Now(), TransactionType("TRANSFER"))
		assert.Error(t, err)
	})
}

func TestAsInstallment(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"TV", valueobject.NewMoneyBRLFromFloat(100), time.Now(), TransactionTypeExpense)
	require.NoError(t, err)

	groupID := uuid.New()
	tx.AsInstallment(groupID, 2, 10)
	require.NotNil(t, tx.InstallmentGroupID)
	assert.Equal(t, groupID, *tx.InstallmentGroupID)
	assert.Equal(t, 2, tx.InstallmentNumber)
	assert.Equal(t, 10, tx.InstallmentTotal)
	assert.True(t, tx.IsInstallmentGroup())
}

func TestAccountImpact(t *testing.T) {
	amount := valueobject.NewMoneyBRLFromFloat(80)

	t.Run("card transactions never touch the account", func(t *testing.T) {
		assert.True(t, AccountImpact(PaymentMethodTypeCard, TransactionTypeExpense, amount).IsZero())
		assert.True(t, AccountImpact(PaymentMethodTypeCard, TransactionTypeIncome, amount).IsZero())
	})

	t.Run("income credits the account", func(t *testing.T) {
		impact := AccountImpact(PaymentMethodTypePix, TransactionTypeIncome, amount)
		assert.True(t, impact.Equals(amount))
	})

	t.Run("expense debits the account", func(t *testing.T) {
		for _, mt := range []PaymentMethodType{PaymentMethodTypePix, PaymentMethodTypeCash, PaymentMethodTypeDebit, PaymentMethodTypeBoleto} {
			impact := AccountImpact(mt, TransactionTypeExpense, amount)
			assert.True(t, impact.Equals(amount.Negate()), "method=%s", mt)
		}
	})
}

func TestInvoiceDelta(t *testing.T) {
	amount := valueobject.NewMoneyBRLFromFloat(80)

	assert.True(t, InvoiceDelta(TransactionTypeExpense, amount).Equals(amount))
	assert.True(t, InvoiceDelta(TransactionTypeIncome, amount).Equals(amount.Negate()))
}
