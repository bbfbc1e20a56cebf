package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// Quantity es magnitud positiva; la dirección la da Type.
type ApplyMovementRequest struct {
	StoreID       string          `json:"store_id"`
	ItemID        string          `json:"item_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	BatchID       *string         `json:"batch_id,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// TransferLineRequest una línea de un traslado entre tiendas.
type TransferLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	FromStoreID string                `json:"from_store_id"`
	ToStoreID   string                `json:"to_store_id"`
	Lines       []TransferLineRequest `json:"lines"`
	Notes       string                `json:"notes,omitempty"`
}

// RecountRequest body para POST /api/inventory/recounts (conteo físico).
type RecountRequest struct {
	StoreID         string          `json:"store_id"`
	ItemID          string          `json:"item_id"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Unit            string          `json:"unit"`
	Notes           string          `json:"notes,omitempty"`
}

// MovementResponse representación de un movimiento creado o consultado.
type MovementResponse struct {
	ID            string          `json:"id"`
	Position      int64           `json:"position"`
	RecordID      string          `json:"record_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	BatchID       *string         `json:"batch_id,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// InventoryRecordResponse foto de stock de un artículo en una tienda.
type InventoryRecordResponse struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	LastCountedAt *time.Time      `json:"last_counted_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
