package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethodService_Create(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	closing, due := 5, 15
	limit := decimal.NewFromInt(5000)
	resp, err := service.Create(ctx, f.userID, f.account.ID, CreatePaymentMethodRequest{
		Name:        "Cartão Inter",
		Type:        "CARD",
		ClosingDay:  &closing,
		DueDay:      &due,
		CreditLimit: &limit,
	})
	require.NoError(t, err)

	assert.Equal(t, "CARD", resp.Type)
	require.NotNil(t, resp.ClosingDay)
	assert.Equal(t, 5, *resp.ClosingDay)
	require.NotNil(t, resp.CreditLimit)
	assert.True(t, resp.CreditLimit.Equal(limit))
	assert.False(t, resp.IsDefault)
}

func TestPaymentMethodService_Create_FirstMethodBecomesDefault(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)
	accounts := NewAccountService(f.store)

	// Bypass the account service seeding by creating the account directly.
	account, err := accounts.Create(ctx, f.userID, CreateAccountRequest{Name: "Conta Vazia", Type: "CHECKING"})
	require.NoError(t, err)
	methods, err := service.List(ctx, f.userID, account.ID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.True(t, methods[0].IsDefault)
}

func TestPaymentMethodService_Create_DuplicateName(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewPaymentMethodService(f.store)

	_, err := service.Create(context.Background(), f.userID, f.account.ID, CreatePaymentMethodRequest{
		Name: "Pix",
		Type: "PIX",
	})
	assertCode(t, err, "CONFLICT")
}

func TestPaymentMethodService_Create_CardWithoutBillingConfig(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewPaymentMethodService(f.store)

	_, err := service.Create(context.Background(), f.userID, f.account.ID, CreatePaymentMethodRequest{
		Name: "Cartão Incompleto",
		Type: "CARD",
	})
	assertCode(t, err, "INVALID_INPUT")
}

func TestPaymentMethodService_Create_PromoteToDefault(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	resp, err := service.Create(ctx, f.userID, f.account.ID, CreatePaymentMethodRequest{
		Name:      "Dinheiro",
		Type:      "CASH",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)

	// The previous default was demoted.
	old, err := service.Get(ctx, f.userID, f.cashMethod.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestPaymentMethodService_Update_DefaultIsGrantOnly(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	// The fixture's cash method is not the default. Promote it.
	closing, due := 10, 20
	resp, err := service.Update(ctx, f.userID, f.cashMethod.ID, UpdatePaymentMethodRequest{
		Name:      "Pix",
		Type:      "PIX",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)

	// Passing is_default=false on the current default does not demote it.
	resp, err = service.Update(ctx, f.userID, f.cashMethod.ID, UpdatePaymentMethodRequest{
		Name:      "Pix",
		Type:      "PIX",
		IsDefault: false,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)

	// Promoting the card demotes the pix method.
	_, err = service.Update(ctx, f.userID, f.cardMethod.ID, UpdatePaymentMethodRequest{
		Name:       "Cartão Nubank",
		Type:       "CARD",
		IsDefault:  true,
		ClosingDay: &closing,
		DueDay:     &due,
	})
	require.NoError(t, err)
	demoted, err := service.Get(ctx, f.userID, f.cashMethod.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)
}

func TestPaymentMethodService_Update_DuplicateName(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewPaymentMethodService(f.store)

	_, err := service.Update(context.Background(), f.userID, f.cashMethod.ID, UpdatePaymentMethodRequest{
		Name: "Cartão Nubank",
		Type: "PIX",
	})
	assertCode(t, err, "CONFLICT")
}

func TestPaymentMethodService_Delete_WithTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	_, err := f.posting.Create(ctx, f.userID, f.expenseRequest(10, f.cashMethod.ID))
	require.NoError(t, err)

	err = service.Delete(ctx, f.userID, f.cashMethod.ID)
	assertCode(t, err, "CONFLICT")
}

func TestPaymentMethodService_Delete_LastMethod(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	require.NoError(t, service.Delete(ctx, f.userID, f.cardMethod.ID))
	err := service.Delete(ctx, f.userID, f.cashMethod.ID)
	assertCode(t, err, "CONFLICT")
}

func TestPaymentMethodService_Delete_DefaultPromotesOldest(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewPaymentMethodService(f.store)

	promoted, err := service.Update(ctx, f.userID, f.cashMethod.ID, UpdatePaymentMethodRequest{
		Name:      "Pix",
		Type:      "PIX",
		IsDefault: true,
	})
	require.NoError(t, err)
	require.True(t, promoted.IsDefault)

	require.NoError(t, service.Delete(ctx, f.userID, f.cashMethod.ID))

	remaining, err := service.Get(ctx, f.userID, f.cardMethod.ID)
	require.NoError(t, err)
	assert.True(t, remaining.IsDefault)
}
