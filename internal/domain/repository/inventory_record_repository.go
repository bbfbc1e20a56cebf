package repository

import "github.com/invorya/stock-ledger/internal/domain/entity"

// InventoryRecordRepository define el puerto de persistencia para los registros
// de inventario por (tienda, artículo). Usado dentro de transacciones para
// garantizar consistencia con el libro de movimientos.
type InventoryRecordRepository interface {
	// Get lectura pura; nil si el par (tienda, artículo) no tiene registro.
	Get(storeID, itemID string) (*entity.InventoryRecord, error)
	GetByID(id string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); nil si no existe.
	GetForUpdate(storeID, itemID string) (*entity.InventoryRecord, error)
	// Create inserta un registro nuevo (cantidad inicial 0 en el flujo normal).
	Create(record *entity.InventoryRecord) error
	// Save actualiza cantidad y last_counted_at de un registro existente.
	Save(record *entity.InventoryRecord) error
	ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error)
}
