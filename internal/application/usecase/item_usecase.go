package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-ledger/internal/application/dto"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para el catálogo de artículos.
type ItemUseCase struct {
	repo         repository.ItemRepository
	categoryRepo repository.CategoryRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, categoryRepo repository.CategoryRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, categoryRepo: categoryRepo}
}

var validItemTypes = map[string]bool{
	entity.ItemTypeRawMaterial:  true,
	entity.ItemTypeFinishedGood: true,
	entity.ItemTypeTool:         true,
}

// Create crea un artículo. Devuelve domain.ErrDuplicate si el código de
// barras ya existe en la empresa.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Unit == "" || !validItemTypes[in.Type] {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByCompanyAndBarcode(companyID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		if category.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  in.Description,
		Barcode:      in.Barcode,
		Type:         in.Type,
		Unit:         in.Unit,
		CostPrice:    in.CostPrice,
		SellPrice:    in.SellPrice,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo de la empresa del caller.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toItemResponse(item), nil
}

// Update actualiza nombre, descripción y precios. La unidad canónica no se
// toca: los registros de inventario existentes la tienen fijada.
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	item.Description = in.Description
	item.CostPrice = in.CostPrice
	item.SellPrice = in.SellPrice
	item.ReorderPoint = in.ReorderPoint
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos por empresa con paginación.
func (uc *ItemUseCase) List(companyID string, limit, offset int) ([]dto.ItemResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toItemResponse(i))
	}
	return items, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:           i.ID,
		CompanyID:    i.CompanyID,
		CategoryID:   i.CategoryID,
		Name:         i.Name,
		Description:  i.Description,
		Barcode:      i.Barcode,
		Type:         i.Type,
		Unit:         i.Unit,
		CostPrice:    i.CostPrice,
		SellPrice:    i.SellPrice,
		ReorderPoint: i.ReorderPoint,
		CreatedAt:    i.CreatedAt,
	}
}
