package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-ledger/internal/application/dto"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

// StoreUseCase casos de uso CRUD para tiendas.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una nueva tienda para la empresa del caller. Una sucursal (sub)
// debe colgar de una tienda de la misma empresa.
func (uc *StoreUseCase) Create(companyID string, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.StoreTypeMain && in.Type != entity.StoreTypeSub {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentStoreID != nil {
		parent, err := uc.repo.GetByID(*in.ParentStoreID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		if parent.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}
	now := time.Now()
	store := &entity.Store{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ParentStoreID: in.ParentStoreID,
		Name:          in.Name,
		Type:          in.Type,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda de la empresa del caller.
func (uc *StoreUseCase) GetByID(companyID, id string) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, nil
	}
	if store.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toStoreResponse(store), nil
}

// List lista tiendas por empresa con paginación.
func (uc *StoreUseCase) List(companyID string, limit, offset int) ([]dto.StoreResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return items, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	return &dto.StoreResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		ParentStoreID: s.ParentStoreID,
		Name:          s.Name,
		Type:          s.Type,
		Address:       s.Address,
		Phone:         s.Phone,
		Email:         s.Email,
		CreatedAt:     s.CreatedAt,
	}
}
