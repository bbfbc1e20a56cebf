package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

var (
	_ repository.CompanyRepository         = (*companyRepo)(nil)
	_ repository.UserRepository            = (*userRepo)(nil)
	_ repository.StoreRepository           = (*storeRepo)(nil)
	_ repository.CategoryRepository        = (*categoryRepo)(nil)
	_ repository.ItemRepository            = (*itemRepo)(nil)
	_ repository.InventoryRecordRepository = (*recordRepo)(nil)
	_ repository.MovementRepository        = (*movementRepo)(nil)
)

// baseRepo resuelve el estado según el modo: atado a una tx (st) o
// autocommit contra el Store (con lock por llamada).
type baseRepo struct {
	store *Store
	st    *state
}

func (b *baseRepo) run(fn func(st *state) error) error {
	if b.st != nil {
		return fn(b.st)
	}
	return b.store.withState(fn)
}

// ── Companies ────────────────────────────────────────────────────────────────

type companyRepo struct{ baseRepo }

func (r *companyRepo) Create(c *entity.Company) error {
	return r.run(func(st *state) error {
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.run(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *companyRepo) Update(c *entity.Company) error {
	return r.run(func(st *state) error {
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *companyRepo) List(limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.run(func(st *state) error {
		ids := sortedKeys(st.companies)
		for _, id := range paginate(ids, limit, offset) {
			c := st.companies[id]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *companyRepo) Delete(id string) error {
	return r.run(func(st *state) error {
		delete(st.companies, id)
		return nil
	})
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ baseRepo }

func (r *userRepo) Create(u *entity.User) error {
	return r.run(func(st *state) error {
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	var out *entity.User
	err := r.run(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	var out *entity.User
	err := r.run(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	var out *entity.User
	err := r.run(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email && u.CompanyID == companyID {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Update(u *entity.User) error {
	return r.run(func(st *state) error {
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.run(func(st *state) error {
		var ids []string
		for id, u := range st.users {
			if u.CompanyID == companyID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range paginate(ids, limit, offset) {
			u := st.users[id]
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Delete(id string) error {
	return r.run(func(st *state) error {
		delete(st.users, id)
		return nil
	})
}

// ── Stores ───────────────────────────────────────────────────────────────────

type storeRepo struct{ baseRepo }

func (r *storeRepo) Create(s *entity.Store) error {
	return r.run(func(st *state) error {
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *storeRepo) GetByID(id string) (*entity.Store, error) {
	var out *entity.Store
	err := r.run(func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *storeRepo) Update(s *entity.Store) error {
	return r.run(func(st *state) error {
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *storeRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	err := r.run(func(st *state) error {
		var ids []string
		for id, s := range st.stores {
			if s.CompanyID == companyID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range paginate(ids, limit, offset) {
			s := st.stores[id]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *storeRepo) Delete(id string) error {
	return r.run(func(st *state) error {
		delete(st.stores, id)
		return nil
	})
}

// ── Categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ baseRepo }

func (r *categoryRepo) Create(c *entity.Category) error {
	return r.run(func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.run(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.run(func(st *state) error {
		var ids []string
		for id, c := range st.categories {
			if c.CompanyID == companyID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range paginate(ids, limit, offset) {
			c := st.categories[id]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) Delete(id string) error {
	return r.run(func(st *state) error {
		delete(st.categories, id)
		return nil
	})
}

// ── Items ────────────────────────────────────────────────────────────────────

type itemRepo struct{ baseRepo }

func (r *itemRepo) Create(i *entity.Item) error {
	return r.run(func(st *state) error {
		st.items[i.ID] = *i
		return nil
	})
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.run(func(st *state) error {
		if i, ok := st.items[id]; ok {
			out = &i
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByCompanyAndBarcode(companyID, barcode string) (*entity.Item, error) {
	var out *entity.Item
	err := r.run(func(st *state) error {
		for _, i := range st.items {
			if i.CompanyID == companyID && i.Barcode == barcode {
				i := i
				out = &i
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) Update(i *entity.Item) error {
	return r.run(func(st *state) error {
		st.items[i.ID] = *i
		return nil
	})
}

func (r *itemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.run(func(st *state) error {
		var ids []string
		for id, i := range st.items {
			if i.CompanyID == companyID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range paginate(ids, limit, offset) {
			i := st.items[id]
			out = append(out, &i)
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) Delete(id string) error {
	return r.run(func(st *state) error {
		delete(st.items, id)
		return nil
	})
}

// ── Inventory records ────────────────────────────────────────────────────────

type recordRepo struct{ baseRepo }

func (r *recordRepo) Get(storeID, itemID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.run(func(st *state) error {
		if id, ok := st.recordIDs[recordKey{storeID, itemID}]; ok {
			rec := st.records[id]
			out = &rec
		}
		return nil
	})
	return out, err
}

func (r *recordRepo) GetByID(id string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.run(func(st *state) error {
		if rec, ok := st.records[id]; ok {
			out = &rec
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a Get: la transacción completa ya corre
// bajo el mutex del Store.
func (r *recordRepo) GetForUpdate(storeID, itemID string) (*entity.InventoryRecord, error) {
	return r.Get(storeID, itemID)
}

func (r *recordRepo) Create(rec *entity.InventoryRecord) error {
	return r.run(func(st *state) error {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		st.records[rec.ID] = *rec
		st.recordIDs[recordKey{rec.StoreID, rec.ItemID}] = rec.ID
		return nil
	})
}

func (r *recordRepo) Save(rec *entity.InventoryRecord) error {
	return r.run(func(st *state) error {
		st.records[rec.ID] = *rec
		return nil
	})
}

func (r *recordRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.run(func(st *state) error {
		var ids []string
		for id, rec := range st.records {
			if rec.StoreID == storeID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range paginate(ids, limit, offset) {
			rec := st.records[id]
			out = append(out, &rec)
		}
		return nil
	})
	return out, err
}

// ── Movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ baseRepo }

func (r *movementRepo) Create(m *entity.Movement) error {
	return r.run(func(st *state) error {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		st.position++
		m.Position = st.position
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.run(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.run(func(st *state) error {
		var all []entity.Movement
		for _, m := range st.movements {
			if m.RecordID == recordID {
				all = append(all, m)
			}
		}
		for _, m := range paginate(all, limit, offset) {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.run(func(st *state) error {
		var all []entity.Movement
		for _, m := range st.movements {
			rec, ok := st.records[m.RecordID]
			if !ok || rec.StoreID != storeID {
				continue
			}
			if from != nil && m.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && m.CreatedAt.After(*to) {
				continue
			}
			all = append(all, m)
		}
		for _, m := range paginate(all, limit, offset) {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
