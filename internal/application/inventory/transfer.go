package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// TransferStockUseCase traslada stock entre dos tiendas en una sola
// transacción: por cada línea un transfer_out en origen y un transfer_in en
// destino, o ningún movimiento si cualquier línea falla.
type TransferStockUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

// NewTransferStockUseCase construye el caso de uso.
func NewTransferStockUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
) *TransferStockUseCase {
	return &TransferStockUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

// TransferLine una línea del traslado.
type TransferLine struct {
	ItemID   string
	Quantity decimal.Decimal
	Unit     string
}

// TransferInput entrada para un traslado entre tiendas.
type TransferInput struct {
	CompanyID   string
	UserID      string
	FromStoreID string
	ToStoreID   string
	Lines       []TransferLine
	Notes       string
}

// recordKey identifica un registro de inventario dentro del traslado.
type recordKey struct {
	StoreID string
	ItemID  string
}

// TransferStock ejecuta el traslado. Los bloqueos de fila se toman en orden
// global ascendente (store_id, item_id) para evitar deadlocks entre traslados
// cruzados; los movimientos se producen en el orden de las líneas de entrada.
// Devuelve los 2N movimientos creados (out, in por línea).
func (uc *TransferStockUseCase) TransferStock(ctx context.Context, input TransferInput) ([]*entity.Movement, error) {
	if input.FromStoreID == "" || input.ToStoreID == "" || input.FromStoreID == input.ToStoreID {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ItemID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
	}

	if err := uc.resolveStore(input.CompanyID, input.FromStoreID); err != nil {
		return nil, err
	}
	if err := uc.resolveStore(input.CompanyID, input.ToStoreID); err != nil {
		return nil, err
	}

	// Catálogo: existencia y unidad canónica de cada artículo trasladado.
	items := make(map[string]*entity.Item, len(input.Lines))
	for _, line := range input.Lines {
		if _, ok := items[line.ItemID]; ok {
			continue
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != input.CompanyID {
			return nil, domain.ErrForbidden
		}
		items[line.ItemID] = item
	}

	transferID := uuid.New().String()
	var movements []*entity.Movement

	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.MovementRepository,
	) error {
		records, err := uc.lockRecords(recordRepo, input, items)
		if err != nil {
			return err
		}

		movements = movements[:0] // el runner puede reintentar la tx completa
		for _, line := range input.Lines {
			source := records[recordKey{input.FromStoreID, line.ItemID}]
			if source.Quantity.LessThan(line.Quantity) {
				return &domain.InsufficientStockError{
					StoreID:   input.FromStoreID,
					ItemID:    line.ItemID,
					Available: source.Quantity,
					Requested: line.Quantity,
				}
			}

			outNotes := input.Notes
			if outNotes == "" {
				outNotes = fmt.Sprintf("traslado a tienda %s", input.ToStoreID)
			}
			out, err := applyToRecord(recordRepo, movRepo, source, appliedMovement{
				Type:          entity.MovementTransferOut,
				Quantity:      line.Quantity,
				Unit:          line.Unit,
				ReferenceID:   &transferID,
				ReferenceType: "transfer",
				Notes:         outNotes,
				CreatedBy:     input.UserID,
			})
			if err != nil {
				return err
			}

			dest := records[recordKey{input.ToStoreID, line.ItemID}]
			inNotes := input.Notes
			if inNotes == "" {
				inNotes = fmt.Sprintf("traslado desde tienda %s", input.FromStoreID)
			}
			in, err := applyToRecord(recordRepo, movRepo, dest, appliedMovement{
				Type:          entity.MovementTransferIn,
				Quantity:      line.Quantity,
				Unit:          source.Unit,
				ReferenceID:   &transferID,
				ReferenceType: "transfer",
				Notes:         inNotes,
				CreatedBy:     input.UserID,
			})
			if err != nil {
				return err
			}
			movements = append(movements, out, in)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// lockRecords toma los bloqueos de fila de todos los registros involucrados
// en orden ascendente (store_id, item_id), independiente del orden de las
// líneas. Los registros ausentes se crean con cantidad 0 y la unidad canónica
// del artículo; si el traslado luego falla, el rollback los descarta.
func (uc *TransferStockUseCase) lockRecords(
	recordRepo repository.InventoryRecordRepository,
	input TransferInput,
	items map[string]*entity.Item,
) (map[recordKey]*entity.InventoryRecord, error) {
	seen := make(map[recordKey]struct{}, len(input.Lines)*2)
	keys := make([]recordKey, 0, len(input.Lines)*2)
	for _, line := range input.Lines {
		for _, storeID := range []string{input.FromStoreID, input.ToStoreID} {
			k := recordKey{storeID, line.ItemID}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StoreID != keys[j].StoreID {
			return keys[i].StoreID < keys[j].StoreID
		}
		return keys[i].ItemID < keys[j].ItemID
	})

	records := make(map[recordKey]*entity.InventoryRecord, len(keys))
	for _, k := range keys {
		record, err := lockOrCreateRecord(recordRepo, k.StoreID, k.ItemID, items[k.ItemID].Unit)
		if err != nil {
			return nil, err
		}
		records[k] = record
	}
	return records, nil
}

func (uc *TransferStockUseCase) resolveStore(companyID, storeID string) error {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.ErrNotFound
	}
	if store.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
