package inventory

import (
	"context"
	"time"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// QueryUseCase lecturas de inventario y del libro de movimientos. Sin efectos
// secundarios; usa repositorios atados al pool.
type QueryUseCase struct {
	recordRepo repository.InventoryRecordRepository
	movRepo    repository.MovementRepository
	storeRepo  repository.StoreRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.MovementRepository,
	storeRepo repository.StoreRepository,
) *QueryUseCase {
	return &QueryUseCase{
		recordRepo: recordRepo,
		movRepo:    movRepo,
		storeRepo:  storeRepo,
	}
}

// GetRecord devuelve la foto actual de stock de (tienda, artículo).
// ErrNotFound si el par no tiene registro.
func (uc *QueryUseCase) GetRecord(ctx context.Context, companyID, storeID, itemID string) (*entity.InventoryRecord, error) {
	if err := uc.checkStore(companyID, storeID); err != nil {
		return nil, err
	}
	record, err := uc.recordRepo.Get(storeID, itemID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// ListStoreInventory lista los registros de inventario de una tienda.
func (uc *QueryUseCase) ListStoreInventory(ctx context.Context, companyID, storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	if err := uc.checkStore(companyID, storeID); err != nil {
		return nil, err
	}
	return uc.recordRepo.ListByStore(storeID, limit, offset)
}

// ListStoreMovements lista los movimientos de una tienda en un rango de fechas.
func (uc *QueryUseCase) ListStoreMovements(ctx context.Context, companyID, storeID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if err := uc.checkStore(companyID, storeID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListByStore(storeID, from, to, limit, offset)
}

// ListRecordMovements lista la historia de un registro concreto.
func (uc *QueryUseCase) ListRecordMovements(ctx context.Context, companyID, recordID string, limit, offset int) ([]*entity.Movement, error) {
	record, err := uc.recordRepo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkStore(companyID, record.StoreID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListByRecord(recordID, limit, offset)
}

func (uc *QueryUseCase) checkStore(companyID, storeID string) error {
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
