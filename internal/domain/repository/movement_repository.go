package repository

import (
	"time"

	"github.com/invorya/stock-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: solo Create y lecturas; sin Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByRecord(recordID string, limit, offset int) ([]*entity.Movement, error)
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
