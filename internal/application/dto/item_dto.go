package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Barcode      string          `json:"barcode,omitempty"`
	Type         string          `json:"type"` // raw_material, finished_good, tool
	Unit         string          `json:"unit"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. La unidad no se cambia por
// esta vía: los registros de inventario existentes la tienen fijada.
type UpdateItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point,omitempty"`
}

// ItemResponse representación de un artículo del catálogo.
type ItemResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	CategoryID   *string         `json:"category_id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Barcode      string          `json:"barcode,omitempty"`
	Type         string          `json:"type"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
}
