package inventory

import (
	"context"

	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: o se aplica todo lo que hace fn, o nada.
//
// La implementación debe reintentar internamente fallos de serialización o
// lock timeout un número acotado de veces y, agotados los reintentos,
// devolver un error que envuelva domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.MovementRepository,
	) error) error
}
