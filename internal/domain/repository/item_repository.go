package repository

import "github.com/invorya/stock-ledger/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
// Es el colaborador de catálogo del motor de inventario: existencia del
// artículo y su unidad canónica.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCompanyAndBarcode(companyID, barcode string) (*entity.Item, error)
	Update(item *entity.Item) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
}
