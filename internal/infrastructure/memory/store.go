// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y en modo demo sin PostgreSQL. Run serializa las
// transacciones con un mutex global y trabaja sobre una copia del estado:
// el commit reemplaza el estado y el error lo descarta, reproduciendo la
// semántica de FOR UPDATE + Commit/Rollback del adaptador de PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/invorya/stock-ledger/internal/application/inventory"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// Ensure Store implementa inventory.TxRunner.
var _ inventory.TxRunner = (*Store)(nil)

type recordKey struct {
	StoreID string
	ItemID  string
}

// state estado completo del almacén. Las entidades se guardan por valor;
// los repos devuelven copias para que nadie mute el estado por fuera.
type state struct {
	companies  map[string]entity.Company
	users      map[string]entity.User
	stores     map[string]entity.Store
	categories map[string]entity.Category
	items      map[string]entity.Item
	records    map[string]entity.InventoryRecord
	recordIDs  map[recordKey]string
	movements  []entity.Movement
	position   int64
}

func newState() *state {
	return &state{
		companies:  make(map[string]entity.Company),
		users:      make(map[string]entity.User),
		stores:     make(map[string]entity.Store),
		categories: make(map[string]entity.Category),
		items:      make(map[string]entity.Item),
		records:    make(map[string]entity.InventoryRecord),
		recordIDs:  make(map[recordKey]string),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stores {
		c.stores[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	for k, v := range s.recordIDs {
		c.recordIDs[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	c.position = s.position
	return c
}

// Store almacén en memoria; expone repositorios y el TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn como una transacción: estado clonado, commit al reemplazar.
// El mutex serializa transacciones concurrentes, de modo que dos débitos
// simultáneos sobre el mismo registro nunca leen la misma cantidad base.
func (s *Store) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(&recordRepo{baseRepo{st: work}}, &movementRepo{baseRepo{st: work}}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// withState ejecuta fn con el estado comprometido bajo el lock (autocommit).
func (s *Store) withState(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Companies repositorio autocommit de empresas.
func (s *Store) Companies() repository.CompanyRepository { return &companyRepo{baseRepo{store: s}} }

// Users repositorio autocommit de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{baseRepo{store: s}} }

// Stores repositorio autocommit de tiendas.
func (s *Store) Stores() repository.StoreRepository { return &storeRepo{baseRepo{store: s}} }

// Categories repositorio autocommit de categorías del catálogo.
func (s *Store) Categories() repository.CategoryRepository {
	return &categoryRepo{baseRepo{store: s}}
}

// Items repositorio autocommit de artículos.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{baseRepo{store: s}} }

// Records repositorio autocommit de registros de inventario (lecturas).
func (s *Store) Records() repository.InventoryRecordRepository {
	return &recordRepo{baseRepo{store: s}}
}

// Movements repositorio autocommit del libro (lecturas).
func (s *Store) Movements() repository.MovementRepository {
	return &movementRepo{baseRepo{store: s}}
}
