package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/backend/internal/domain/shared"
)

func TestCategoryService_CreateAndGet(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store)

	created, err := service.Create(ctx, f.userID, CreateCategoryRequest{Name: "Transporte", Type: "EXPENSE"})
	require.NoError(t, err)
	assert.Equal(t, "EXPENSE", created.Type)

	found, err := service.Get(ctx, f.userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transporte", found.Name)

	_, err = service.Get(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCategoryService_Create_InvalidType(t *testing.T) {
	f := newLedgerFixture(t)
	service := NewCategoryService(f.store)

	_, err := service.Create(context.Background(), f.userID, CreateCategoryRequest{Name: "Outros", Type: "TRANSFER"})
	assertCode(t, err, "INVALID_INPUT")
}

func TestCategoryService_List_FilterByType(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store)

	expense := "EXPENSE"
	expenses, err := service.List(ctx, f.userID, &expense)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Mercado", expenses[0].Name)

	all, err := service.List(ctx, f.userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bogus := "TRANSFER"
	_, err = service.List(ctx, f.userID, &bogus)
	assertCode(t, err, "INVALID_INPUT")
}

func TestCategoryService_Update_RenamesOnly(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store)

	resp, err := service.Update(ctx, f.userID, f.expenseCat.ID, UpdateCategoryRequest{Name: "Supermercado"})
	require.NoError(t, err)
	assert.Equal(t, "Supermercado", resp.Name)
	assert.Equal(t, "EXPENSE", resp.Type)
}

func TestCategoryService_Delete_WithTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store)

	_, err := f.posting.Create(ctx, f.userID, f.expenseRequest(10, f.cashMethod.ID))
	require.NoError(t, err)

	err = service.Delete(ctx, f.userID, f.expenseCat.ID)
	assertCode(t, err, "CONFLICT")
}

func TestCategoryService_Delete_Unused(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store)

	require.NoError(t, service.Delete(ctx, f.userID, f.incomeCat.ID))
	_, err := service.Get(ctx, f.userID, f.incomeCat.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
