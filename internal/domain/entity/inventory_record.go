package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es la foto actual de stock de un artículo en una tienda.
// Invariante: Quantity >= 0 y Quantity == suma de deltas de sus movimientos.
// Se crea implícitamente (cantidad 0) con el primer movimiento sobre el par
// (tienda, artículo) y solo se muta a través del aplicador de movimientos.
type InventoryRecord struct {
	ID            string
	StoreID       string
	ItemID        string
	Quantity      decimal.Decimal
	Unit          string // fija por registro; sin conversión automática
	LastCountedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
