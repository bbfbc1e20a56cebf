package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// ApplyMovementUseCase aplica movimientos individuales al inventario de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Es el único camino por el que cambia la cantidad de un registro.
type ApplyMovementUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

// MovementInput entrada para aplicar un movimiento. Quantity es magnitud
// positiva; la dirección (entrada/salida) la da Type según la tabla de signos.
// Unit vacío usa la unidad canónica del artículo.
type MovementInput struct {
	CompanyID     string
	UserID        string
	StoreID       string
	ItemID        string
	Type          entity.MovementType
	Quantity      decimal.Decimal
	Unit          string
	BatchID       *string
	ReferenceID   *string
	ReferenceType string
	Notes         string
}

// ApplyMovement valida la entrada, resuelve (o crea con cantidad 0) el
// registro de inventario y aplica el movimiento dentro de una transacción.
// Si el movimiento dejaría la cantidad negativa, no se escribe nada.
func (uc *ApplyMovementUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := uc.resolveItem(input.CompanyID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveStore(input.CompanyID, input.StoreID); err != nil {
		return nil, err
	}
	if input.Unit == "" {
		input.Unit = item.Unit
	}

	var created *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.MovementRepository,
	) error {
		record, err := lockOrCreateRecord(recordRepo, input.StoreID, input.ItemID, item.Unit)
		if err != nil {
			return err
		}
		created, err = applyToRecord(recordRepo, movRepo, record, appliedMovement{
			Type:          input.Type,
			Quantity:      input.Quantity,
			Unit:          input.Unit,
			BatchID:       input.BatchID,
			ReferenceID:   input.ReferenceID,
			ReferenceType: input.ReferenceType,
			Notes:         input.Notes,
			CreatedBy:     input.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordSale registra una venta (salida) contra el inventario de una tienda.
// referenceID suele ser el ID de la orden que la originó.
func (uc *ApplyMovementUseCase) RecordSale(ctx context.Context, companyID, userID, storeID, itemID string, quantity decimal.Decimal, unit string, referenceID *string) (*entity.Movement, error) {
	return uc.ApplyMovement(ctx, MovementInput{
		CompanyID:     companyID,
		UserID:        userID,
		StoreID:       storeID,
		ItemID:        itemID,
		Type:          entity.MovementSale,
		Quantity:      quantity,
		Unit:          unit,
		ReferenceID:   referenceID,
		ReferenceType: "order",
	})
}

// RecordPurchase registra una compra (entrada) con lote opcional.
func (uc *ApplyMovementUseCase) RecordPurchase(ctx context.Context, companyID, userID, storeID, itemID string, quantity decimal.Decimal, unit string, batchID *string) (*entity.Movement, error) {
	return uc.ApplyMovement(ctx, MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		StoreID:   storeID,
		ItemID:    itemID,
		Type:      entity.MovementPurchase,
		Quantity:  quantity,
		Unit:      unit,
		BatchID:   batchID,
	})
}

// RecordAdjustment registra una corrección manual. quantity con signo:
// positivo aplica adjustment_in, negativo adjustment_out (con su magnitud).
func (uc *ApplyMovementUseCase) RecordAdjustment(ctx context.Context, companyID, userID, storeID, itemID string, quantity decimal.Decimal, unit, notes string) (*entity.Movement, error) {
	typ := entity.MovementAdjustmentIn
	if quantity.IsNegative() {
		typ = entity.MovementAdjustmentOut
		quantity = quantity.Neg()
	}
	return uc.ApplyMovement(ctx, MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		StoreID:   storeID,
		ItemID:    itemID,
		Type:      typ,
		Quantity:  quantity,
		Unit:      unit,
		Notes:     notes,
	})
}

// resolveItem valida existencia y tenencia del artículo.
func (uc *ApplyMovementUseCase) resolveItem(companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// resolveStore valida existencia y tenencia de la tienda.
func (uc *ApplyMovementUseCase) resolveStore(companyID, storeID string) error {
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

// appliedMovement describe el movimiento a aplicar sobre un registro ya bloqueado.
type appliedMovement struct {
	Type          entity.MovementType
	Quantity      decimal.Decimal
	Unit          string
	BatchID       *string
	ReferenceID   *string
	ReferenceType string
	Notes         string
	CreatedBy     string
}

// lockOrCreateRecord bloquea el registro (SELECT FOR UPDATE) o lo crea con
// cantidad 0 y la unidad canónica del artículo. La fila recién insertada
// queda bloqueada por la propia transacción.
func lockOrCreateRecord(recordRepo repository.InventoryRecordRepository, storeID, itemID, unit string) (*entity.InventoryRecord, error) {
	record, err := recordRepo.GetForUpdate(storeID, itemID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	now := time.Now()
	record = &entity.InventoryRecord{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		ItemID:    itemID,
		Quantity:  decimal.Zero,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := recordRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// applyToRecord verifica unidad y no-negatividad, actualiza la cantidad del
// registro y agrega la fila al libro, todo sobre la misma transacción del
// caller. Devuelve el movimiento creado.
func applyToRecord(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.MovementRepository,
	record *entity.InventoryRecord,
	m appliedMovement,
) (*entity.Movement, error) {
	if m.Unit != "" && m.Unit != record.Unit {
		return nil, &domain.UnitMismatchError{
			StoreID:  record.StoreID,
			ItemID:   record.ItemID,
			Expected: record.Unit,
			Got:      m.Unit,
		}
	}
	sign, ok := m.Type.Sign()
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	delta := m.Quantity
	if sign < 0 {
		delta = delta.Neg()
	}
	newQuantity := record.Quantity.Add(delta)
	if newQuantity.IsNegative() {
		return nil, &domain.InsufficientStockError{
			StoreID:   record.StoreID,
			ItemID:    record.ItemID,
			Available: record.Quantity,
			Requested: m.Quantity,
		}
	}

	now := time.Now()
	record.Quantity = newQuantity
	record.UpdatedAt = now
	if err := recordRepo.Save(record); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		RecordID:      record.ID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Unit:          record.Unit,
		BatchID:       m.BatchID,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedAt:     now,
		CreatedBy:     m.CreatedBy,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
