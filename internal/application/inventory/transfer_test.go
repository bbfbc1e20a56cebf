package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-ledger/internal/application/inventory"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// Traslado simple: origen 10, se trasladan 4 → origen 6, destino 4, con los
// dos movimientos (out, in) compartiendo referencia de traslado.
func TestTransferStock_TrasladoSimple(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	movements, err := f.transferUC().TransferStock(context.Background(), inventory.TransferInput{
		CompanyID:   fxCompanyID,
		UserID:      fxUserID,
		FromStoreID: fxStoreA,
		ToStoreID:   fxStoreB,
		Lines: []inventory.TransferLine{
			{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("4")},
		},
	})
	require.NoError(t, err)
	require.Len(t, movements, 2, "una línea produce un par out/in")

	out, in := movements[0], movements[1]
	assert.Equal(t, entity.MovementTransferOut, out.Type)
	assert.Equal(t, entity.MovementTransferIn, in.Type)
	assert.True(t, out.Quantity.Equal(in.Quantity))
	require.NotNil(t, out.ReferenceID)
	require.NotNil(t, in.ReferenceID)
	assert.Equal(t, *out.ReferenceID, *in.ReferenceID, "ambos lados referencian el mismo traslado")
	assert.Equal(t, "transfer", out.ReferenceType)
	assert.Less(t, out.Position, in.Position, "la salida precede a la entrada en el libro")

	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("6")))
	assert.True(t, f.quantityOf(t, fxStoreB, fxItemFlour).Equal(decimal.RequireFromString("4")))

	// El registro destino se creó con la unidad canónica del artículo origen.
	dest, err := f.store.Records().Get(fxStoreB, fxItemFlour)
	require.NoError(t, err)
	assert.Equal(t, "kg", dest.Unit)
}

// Traslado multilínea: 2N movimientos en el orden de las líneas.
func TestTransferStock_MultiLinea(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	f.seedStock(t, fxStoreA, fxItemBread, "8")

	movements, err := f.transferUC().TransferStock(context.Background(), inventory.TransferInput{
		CompanyID:   fxCompanyID,
		UserID:      fxUserID,
		FromStoreID: fxStoreA,
		ToStoreID:   fxStoreB,
		Lines: []inventory.TransferLine{
			{ItemID: fxItemBread, Quantity: decimal.RequireFromString("5")},
			{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, movements, 4)

	// Los movimientos salen en orden de línea aunque los bloqueos se tomen
	// en orden global ascendente.
	rec0, _ := f.store.Records().Get(fxStoreA, fxItemBread)
	rec2, _ := f.store.Records().Get(fxStoreA, fxItemFlour)
	assert.Equal(t, rec0.ID, movements[0].RecordID)
	assert.Equal(t, rec2.ID, movements[2].RecordID)

	assert.True(t, f.quantityOf(t, fxStoreA, fxItemBread).Equal(decimal.RequireFromString("3")))
	assert.True(t, f.quantityOf(t, fxStoreB, fxItemBread).Equal(decimal.RequireFromString("5")))
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("8")))
	assert.True(t, f.quantityOf(t, fxStoreB, fxItemFlour).Equal(decimal.RequireFromString("2")))
}

// Atomicidad: si una línea no tiene stock, no se mueve ninguna.
func TestTransferStock_FallaUnaLineaNoMueveNada(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	f.seedStock(t, fxStoreA, fxItemBread, "1")

	_, err := f.transferUC().TransferStock(context.Background(), inventory.TransferInput{
		CompanyID:   fxCompanyID,
		UserID:      fxUserID,
		FromStoreID: fxStoreA,
		ToStoreID:   fxStoreB,
		Lines: []inventory.TransferLine{
			{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("4")},
			{ItemID: fxItemBread, Quantity: decimal.RequireFromString("5")}, // no hay
		},
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, fxItemBread, insufficient.ItemID, "el error nombra la línea que falló")
	assert.True(t, insufficient.Available.Equal(decimal.RequireFromString("1")))

	// Rollback total: el origen conserva todo y el destino no tiene registros.
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("10")))
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemBread).Equal(decimal.RequireFromString("1")))
	destFlour, err := f.store.Records().Get(fxStoreB, fxItemFlour)
	require.NoError(t, err)
	assert.Nil(t, destFlour, "el registro destino creado en la tx fallida se descarta")
}

// Validaciones de entrada del traslado.
func TestTransferStock_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	ctx := context.Background()
	uc := f.transferUC()

	// Mismo origen y destino.
	_, err := uc.TransferStock(ctx, inventory.TransferInput{
		CompanyID: fxCompanyID, FromStoreID: fxStoreA, ToStoreID: fxStoreA,
		Lines: []inventory.TransferLine{{ItemID: fxItemFlour, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	_, err = uc.TransferStock(ctx, inventory.TransferInput{
		CompanyID: fxCompanyID, FromStoreID: fxStoreA, ToStoreID: fxStoreB,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = uc.TransferStock(ctx, inventory.TransferInput{
		CompanyID: fxCompanyID, FromStoreID: fxStoreA, ToStoreID: fxStoreB,
		Lines: []inventory.TransferLine{{ItemID: fxItemFlour, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Tienda inexistente.
	_, err = uc.TransferStock(ctx, inventory.TransferInput{
		CompanyID: fxCompanyID, FromStoreID: fxStoreA, ToStoreID: "store-zzz",
		Lines: []inventory.TransferLine{{ItemID: fxItemFlour, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Artículo inexistente.
	_, err = uc.TransferStock(ctx, inventory.TransferInput{
		CompanyID: fxCompanyID, FromStoreID: fxStoreA, ToStoreID: fxStoreB,
		Lines: []inventory.TransferLine{{ItemID: "item-zzz", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Nada se movió en ninguno de los intentos.
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("10")))
}

// Unidad declarada distinta a la del registro origen: falla sin efectos.
func TestTransferStock_UnidadIncorrecta(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")

	_, err := f.transferUC().TransferStock(context.Background(), inventory.TransferInput{
		CompanyID:   fxCompanyID,
		UserID:      fxUserID,
		FromStoreID: fxStoreA,
		ToStoreID:   fxStoreB,
		Lines: []inventory.TransferLine{
			{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("4"), Unit: "lt"},
		},
	})
	require.Error(t, err)

	var mismatch *domain.UnitMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("10")))
}

// Traslados cruzados concurrentes (A→B y B→A de los mismos artículos) no se
// bloquean entre sí: el orden global de bloqueo evita el deadlock y ambos
// terminan (uno puede fallar por stock, pero ninguno se cuelga).
func TestTransferStock_TrasladosCruzados(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxStoreA, fxItemFlour, "10")
	f.seedStock(t, fxStoreB, fxItemFlour, "10")
	uc := f.transferUC()

	done := make(chan error, 2)
	run := func(from, to string) {
		_, err := uc.TransferStock(context.Background(), inventory.TransferInput{
			CompanyID:   fxCompanyID,
			UserID:      fxUserID,
			FromStoreID: from,
			ToStoreID:   to,
			Lines: []inventory.TransferLine{
				{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("3")},
			},
		})
		done <- err
	}
	go run(fxStoreA, fxStoreB)
	go run(fxStoreB, fxStoreA)

	require.NoError(t, <-done)
	require.NoError(t, <-done)

	// Neto cero: cada tienda cedió y recibió 3.
	assert.True(t, f.quantityOf(t, fxStoreA, fxItemFlour).Equal(decimal.RequireFromString("10")))
	assert.True(t, f.quantityOf(t, fxStoreB, fxItemFlour).Equal(decimal.RequireFromString("10")))
}

// lockLogRecordRepo implementa el repositorio de registros anotando el orden
// en que se piden los bloqueos de fila. Cada GetForUpdate devuelve un registro
// con stock de sobra para que el traslado complete.
type lockLogRecordRepo struct {
	units map[string]string // unidad canónica por artículo
	locks [][2]string       // (store_id, item_id) en orden de bloqueo
}

func (r *lockLogRecordRepo) GetForUpdate(storeID, itemID string) (*entity.InventoryRecord, error) {
	r.locks = append(r.locks, [2]string{storeID, itemID})
	return &entity.InventoryRecord{
		ID:       storeID + "/" + itemID,
		StoreID:  storeID,
		ItemID:   itemID,
		Quantity: decimal.NewFromInt(100),
		Unit:     r.units[itemID],
	}, nil
}

func (r *lockLogRecordRepo) Get(string, string) (*entity.InventoryRecord, error) { return nil, nil }
func (r *lockLogRecordRepo) GetByID(string) (*entity.InventoryRecord, error)     { return nil, nil }
func (r *lockLogRecordRepo) Create(*entity.InventoryRecord) error                { return nil }
func (r *lockLogRecordRepo) Save(*entity.InventoryRecord) error                  { return nil }
func (r *lockLogRecordRepo) ListByStore(string, int, int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type countingMovementRepo struct {
	position int64
}

func (r *countingMovementRepo) Create(m *entity.Movement) error {
	r.position++
	m.Position = r.position
	return nil
}

func (r *countingMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }
func (r *countingMovementRepo) ListByRecord(string, int, int) ([]*entity.Movement, error) {
	return nil, nil
}
func (r *countingMovementRepo) ListByStore(string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return nil, nil
}

// passthroughRunner ejecuta el callback directamente con los repos dados,
// sin transacción ni reintentos.
type passthroughRunner struct {
	records repository.InventoryRecordRepository
	movs    repository.MovementRepository
}

func (r *passthroughRunner) Run(_ context.Context, fn func(
	repository.InventoryRecordRepository,
	repository.MovementRepository,
) error) error {
	return fn(r.records, r.movs)
}

// Los bloqueos de fila se piden en orden global ascendente (store_id, item_id)
// sin importar el orden de las líneas ni cuál tienda es origen. Con líneas en
// orden inverso y el origen "mayor" que el destino, el orden ingenuo sería
// (b,flour)(a,flour)(b,bread)(a,bread); el orden global exige lo contrario.
func TestTransferStock_BloqueaEnOrdenGlobal(t *testing.T) {
	f := newFixture(t)
	records := &lockLogRecordRepo{units: map[string]string{fxItemFlour: "kg", fxItemBread: "pcs"}}
	runner := &passthroughRunner{records: records, movs: &countingMovementRepo{}}
	uc := inventory.NewTransferStockUseCase(runner, f.store.Items(), f.store.Stores())

	_, err := uc.TransferStock(context.Background(), inventory.TransferInput{
		CompanyID:   fxCompanyID,
		UserID:      fxUserID,
		FromStoreID: fxStoreB,
		ToStoreID:   fxStoreA,
		Lines: []inventory.TransferLine{
			{ItemID: fxItemFlour, Quantity: decimal.RequireFromString("1")},
			{ItemID: fxItemBread, Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	want := [][2]string{
		{fxStoreA, fxItemBread},
		{fxStoreA, fxItemFlour},
		{fxStoreB, fxItemBread},
		{fxStoreB, fxItemFlour},
	}
	assert.Equal(t, want, records.locks,
		"los bloqueos deben pedirse en orden ascendente (store_id, item_id)")
}
