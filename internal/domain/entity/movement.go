package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario. Enum cerrado: la dirección
// (entrada/salida) se define en la tabla de signos, nunca por el nombre.
type MovementType string

const (
	MovementPurchase      MovementType = "purchase"       // compra a proveedor
	MovementSale          MovementType = "sale"           // venta
	MovementTransferOut   MovementType = "transfer_out"   // salida por traslado entre tiendas
	MovementTransferIn    MovementType = "transfer_in"    // entrada por traslado entre tiendas
	MovementProduction    MovementType = "production"     // producción (recetas)
	MovementAdjustmentIn  MovementType = "adjustment_in"  // ajuste positivo
	MovementAdjustmentOut MovementType = "adjustment_out" // ajuste negativo
)

// movementSign tabla cerrada de signos por tipo. Un tipo nuevo debe agregarse
// aquí explícitamente; no se infiere del prefijo del nombre.
var movementSign = map[MovementType]int{
	MovementPurchase:      +1,
	MovementSale:          -1,
	MovementTransferOut:   -1,
	MovementTransferIn:    +1,
	MovementProduction:    +1,
	MovementAdjustmentIn:  +1,
	MovementAdjustmentOut: -1,
}

// Sign devuelve +1 (entrada) o -1 (salida) y si el tipo es válido.
func (t MovementType) Sign() (int, bool) {
	s, ok := movementSign[t]
	return s, ok
}

// Valid reporta si el tipo pertenece al enum cerrado.
func (t MovementType) Valid() bool {
	_, ok := movementSign[t]
	return ok
}

// MovementTypes devuelve todos los tipos válidos (orden no garantizado).
func MovementTypes() []MovementType {
	types := make([]MovementType, 0, len(movementSign))
	for t := range movementSign {
		types = append(types, t)
	}
	return types
}

// Movement es una entrada inmutable del libro de movimientos (append-only:
// sin updates ni deletes). Quantity es siempre magnitud positiva; el efecto
// sobre el registro lo da Sign(). Position es asignado por la BD (bigserial)
// y da el orden total del libro.
type Movement struct {
	ID            string
	Position      int64
	RecordID      string
	Type          MovementType
	Quantity      decimal.Decimal
	Unit          string
	BatchID       *string
	ReferenceID   *string
	ReferenceType string // ej. "order", "transfer"
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

// Delta devuelve la cantidad con signo según el tipo (cero si el tipo es inválido).
func (m *Movement) Delta() decimal.Decimal {
	sign, ok := m.Type.Sign()
	if !ok {
		return decimal.Zero
	}
	if sign < 0 {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
