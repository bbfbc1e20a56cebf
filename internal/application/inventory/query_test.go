package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-ledger/internal/application/inventory"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
)

func (f *fixture) queryUC() *inventory.QueryUseCase {
	return inventory.NewQueryUseCase(f.store.Records(), f.store.Movements(), f.store.Stores())
}

func TestQuery_GetRecord(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	ctx := context.Background()
	uc := f.queryUC()

	rec, err := uc.GetRecord(ctx, fxCompanyID, fxStoreA, fxItemFlour)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")))

	// Par sin registro → not found.
	_, err = uc.GetRecord(ctx, fxCompanyID, fxStoreA, fxItemBread)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Tienda inexistente → not found.
	_, err = uc.GetRecord(ctx, fxCompanyID, "store-zzz", fxItemFlour)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_ListStoreInventory(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	f.seedStock(t, fxStoreA, fxItemBread, "5")

	records, err := f.queryUC().ListStoreInventory(context.Background(), fxCompanyID, fxStoreA, 20, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestQuery_ListStoreMovements(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	_, err := f.applyUC().RecordSale(context.Background(), fxCompanyID, fxUserID,
		fxStoreA, fxItemFlour, decimal.RequireFromString("2"), "", nil)
	require.NoError(t, err)

	movements, err := f.queryUC().ListStoreMovements(context.Background(), fxCompanyID, fxStoreA, nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

// Una tienda de otra empresa no es consultable.
func TestQuery_TiendaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Stores().Create(&entity.Store{
		ID: "store-ajena", CompanyID: "co-2", Name: "Ajena", Type: entity.StoreTypeSub,
	}))

	_, err := f.queryUC().ListStoreInventory(context.Background(), fxCompanyID, "store-ajena", 20, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
