package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de artículo.
const (
	ItemTypeRawMaterial  = "raw_material"
	ItemTypeFinishedGood = "finished_good"
	ItemTypeTool         = "tool"
)

// Item representa un artículo del catálogo de una empresa. Unit es la unidad
// canónica (kg, pcs, lt); los registros de inventario nuevos se crean con ella.
type Item struct {
	ID           string
	CompanyID    string
	CategoryID   *string
	Name         string
	Description  string
	Barcode      string
	Type         string // raw_material, finished_good, tool
	Unit         string
	CostPrice    decimal.Decimal
	SellPrice    decimal.Decimal
	ReorderPoint decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category agrupa artículos del catálogo; admite subcategorías vía ParentID.
type Category struct {
	ID          string
	CompanyID   string
	ParentID    *string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
