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

// Conteo por encima del sistema: ajuste positivo por la diferencia.
func TestRecount_ConteoMayor(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	result, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreA,
		ItemID:          fxItemFlour,
		CountedQuantity: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Adjustment)

	assert.Equal(t, entity.MovementAdjustmentIn, result.Adjustment.Type)
	assert.True(t, result.Adjustment.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "recount", result.Adjustment.ReferenceType)
	assert.True(t, result.Record.Quantity.Equal(decimal.RequireFromString("12.5")))
	assert.NotNil(t, result.Record.LastCountedAt)

	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("12.5")))
}

// Conteo por debajo del sistema: ajuste negativo por la diferencia.
func TestRecount_ConteoMenor(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	result, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreA,
		ItemID:          fxItemFlour,
		CountedQuantity: decimal.RequireFromString("7"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Adjustment)

	assert.Equal(t, entity.MovementAdjustmentOut, result.Adjustment.Type)
	assert.True(t, result.Adjustment.Quantity.Equal(decimal.RequireFromString("3")))
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("7")))
}

// Conteo igual al sistema: solo se sella last_counted_at, sin movimiento.
func TestRecount_ConteoIgual(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	result, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreA,
		ItemID:          fxItemFlour,
		CountedQuantity: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Adjustment, "sin diferencia no hay ajuste en el libro")
	assert.NotNil(t, result.Record.LastCountedAt)

	rec, err := f.store.Records().Get(fxStoreA, fxItemFlour)
	require.NoError(t, err)
	assert.NotNil(t, rec.LastCountedAt, "el sello se persiste")
	movs, err := f.store.Movements().ListByRecord(rec.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la compra inicial")
}

// Conteo sobre par sin registro: lo crea y ajusta desde cero.
func TestRecount_SinRegistroPrevio(t *testing.T) {
	f := newFixture(t)

	result, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreB,
		ItemID:          fxItemBread,
		CountedQuantity: decimal.RequireFromString("4"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Adjustment)
	assert.Equal(t, entity.MovementAdjustmentIn, result.Adjustment.Type)
	assert.True(t, f.quantityOf(t, fxStoreB, fxItemBread).Equal(decimal.RequireFromString("4")))
}

// Conteo negativo: inválido.
func TestRecount_ConteoNegativo(t *testing.T) {
	f := newFixture(t)

	_, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreA,
		ItemID:          fxItemFlour,
		CountedQuantity: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Unidad declarada distinta a la del registro: falla sin sellar ni ajustar.
func TestRecount_UnidadIncorrecta(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	_, err := f.recountUC().Recount(context.Background(), inventory.RecountInput{
		CompanyID:       fxCompanyID,
		UserID:          fxUserID,
		StoreID:         fxStoreA,
		ItemID:          fxItemFlour,
		CountedQuantity: decimal.RequireFromString("9"),
		Unit:            "lt",
	})
	require.Error(t, err)

	var mismatch *domain.UnitMismatchError
	require.ErrorAs(t, err, &mismatch)

	rec, err := f.store.Records().Get(fxStoreA, fxItemFlour)
	require.NoError(t, err)
	assert.Nil(t, rec.LastCountedAt, "la tx fallida no sella el conteo")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")))
}
