package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_Monthly(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewReportService(f.store)

	salary := f.expenseRequest(5000, f.cashMethod.ID)
	salary.CategoryID = f.incomeCat.ID
	salary.Type = "INCOME"
	salary.Date = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := f.posting.Create(ctx, f.userID, salary)
	require.NoError(t, err)

	groceries := f.expenseRequest(800, f.cashMethod.ID)
	groceries.Date = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = f.posting.Create(ctx, f.userID, groceries)
	require.NoError(t, err)

	cardSpend := f.expenseRequest(200, f.cardMethod.ID)
	cardSpend.Date = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	_, err = f.posting.Create(ctx, f.userID, cardSpend)
	require.NoError(t, err)

	// April spending must not leak into the March report.
	offMonth := f.expenseRequest(999, f.cashMethod.ID)
	offMonth.Date = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.posting.Create(ctx, f.userID, offMonth)
	require.NoError(t, err)

	report, err := service.Monthly(ctx, f.userID, 2024, 3)
	require.NoError(t, err)

	assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(5000)))
	assert.True(t, report.TotalExpense.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Net.Equal(decimal.NewFromInt(4000)))

	require.Len(t, report.ExpensesByAccount, 1)
	assert.Equal(t, f.account.ID, report.ExpensesByAccount[0].AccountID)
	assert.True(t, report.ExpensesByAccount[0].Total.Equal(decimal.NewFromInt(1000)))

	require.Len(t, report.ExpensesByCategory, 1)
	assert.Equal(t, f.expenseCat.ID, report.ExpensesByCategory[0].CategoryID)
	assert.Equal(t, "Mercado", report.ExpensesByCategory[0].CategoryName)
}

func TestReportService_Monthly_EmptyMonth(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewReportService(f.store)

	report, err := service.Monthly(context.Background(), f.userID, 2024, 7)
	require.NoError(t, err)
	assert.True(t, report.TotalIncome.IsZero())
	assert.True(t, report.TotalExpense.IsZero())
	assert.True(t, report.Net.IsZero())
	assert.Empty(t, report.ExpensesByAccount)
}

func TestReportService_Monthly_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewReportService(f.store)

	_, err := service.Monthly(ctx, f.userID, 2024, 0)
	assertCode(t, err, "INVALID_INPUT")

	_, err = service.Monthly(ctx, f.userID, 2024, 13)
	assertCode(t, err, "INVALID_INPUT")

	_, err = service.Monthly(ctx, f.userID, 1999, 6)
	assertCode(t, err, "INVALID_INPUT")
}
