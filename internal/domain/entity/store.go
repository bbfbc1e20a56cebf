package entity

import "time"

// Tipos de tienda.
const (
	StoreTypeMain = "main" // tienda principal
	StoreTypeSub  = "sub"  // sucursal
)

// Store representa una tienda o punto de venta donde se guarda inventario.
// Las sucursales pueden colgar de una tienda principal (ParentStoreID).
type Store struct {
	ID            string
	CompanyID     string
	ParentStoreID *string
	Name          string
	Type          string // main, sub
	Address       string
	Phone         string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
