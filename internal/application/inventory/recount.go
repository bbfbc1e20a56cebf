package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// RecountUseCase reconcilia un conteo físico contra el registro: la
// diferencia se aplica como ajuste (adjustment_in/adjustment_out) y se
// estampa last_counted_at. La historia del libro queda intacta.
type RecountUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

// NewRecountUseCase construye el caso de uso.
func NewRecountUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
) *RecountUseCase {
	return &RecountUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

// RecountInput entrada para un conteo físico.
type RecountInput struct {
	CompanyID       string
	UserID          string
	StoreID         string
	ItemID          string
	CountedQuantity decimal.Decimal
	Unit            string
	Notes           string
}

// RecountResult resultado del conteo: el registro actualizado y el ajuste
// aplicado (nil si el conteo coincidía con el sistema).
type RecountResult struct {
	Record     *entity.InventoryRecord
	Adjustment *entity.Movement
}

// Recount aplica el conteo físico dentro de una transacción.
func (uc *RecountUseCase) Recount(ctx context.Context, input RecountInput) (*RecountResult, error) {
	if input.CountedQuantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	store, err := uc.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if store.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	result := &RecountResult{}
	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.MovementRepository,
	) error {
		record, err := lockOrCreateRecord(recordRepo, input.StoreID, input.ItemID, item.Unit)
		if err != nil {
			return err
		}
		if input.Unit != "" && input.Unit != record.Unit {
			return &domain.UnitMismatchError{
				StoreID:  record.StoreID,
				ItemID:   record.ItemID,
				Expected: record.Unit,
				Got:      input.Unit,
			}
		}

		now := time.Now()
		counted := input.CountedQuantity
		diff := counted.Sub(record.Quantity)

		record.LastCountedAt = &now
		result.Record = record
		result.Adjustment = nil

		if diff.IsZero() {
			record.UpdatedAt = now
			return recordRepo.Save(record)
		}

		typ := entity.MovementAdjustmentIn
		if diff.IsNegative() {
			typ = entity.MovementAdjustmentOut
			diff = diff.Neg()
		}
		notes := input.Notes
		if notes == "" {
			notes = "ajuste por conteo físico"
		}
		mov, err := applyToRecord(recordRepo, movRepo, record, appliedMovement{
			Type:          typ,
			Quantity:      diff,
			Unit:          record.Unit,
			ReferenceType: "recount",
			Notes:         notes,
			CreatedBy:     input.UserID,
		})
		if err != nil {
			return err
		}
		result.Adjustment = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
