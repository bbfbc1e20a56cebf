package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-ledger/internal/application/dto"
	"github.com/invorya/stock-ledger/internal/application/usecase"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/infrastructure/memory"
)

const (
	catCompanyID   = "co-1"
	catOtraEmpresa = "co-2"
)

func newCatalogStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	now := time.Now()
	for _, id := range []string{catCompanyID, catOtraEmpresa} {
		require.NoError(t, store.Companies().Create(&entity.Company{
			ID: id, Name: "Empresa " + id, Status: "active", CreatedAt: now,
		}))
	}
	return store
}

func TestCategoryCreate_YSubcategoria(t *testing.T) {
	store := newCatalogStore(t)
	uc := usecase.NewCategoryUseCase(store.Categories())

	parent, err := uc.Create(catCompanyID, dto.CreateCategoryRequest{Name: "Insumos"})
	require.NoError(t, err)
	assert.Equal(t, catCompanyID, parent.CompanyID)

	child, err := uc.Create(catCompanyID, dto.CreateCategoryRequest{
		Name:     "Harinas",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	list, err := uc.List(catCompanyID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoryCreate_PadreInvalido(t *testing.T) {
	store := newCatalogStore(t)
	uc := usecase.NewCategoryUseCase(store.Categories())

	_, err := uc.Create(catCompanyID, dto.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "no-existe"
	_, err = uc.Create(catCompanyID, dto.CreateCategoryRequest{Name: "Harinas", ParentID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ajena, err := uc.Create(catOtraEmpresa, dto.CreateCategoryRequest{Name: "Insumos"})
	require.NoError(t, err)
	_, err = uc.Create(catCompanyID, dto.CreateCategoryRequest{Name: "Harinas", ParentID: &ajena.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"una subcategoría no puede colgar de una categoría de otra empresa")
}

func TestCategoryGetByID_AislamientoPorEmpresa(t *testing.T) {
	store := newCatalogStore(t)
	uc := usecase.NewCategoryUseCase(store.Categories())

	created, err := uc.Create(catCompanyID, dto.CreateCategoryRequest{Name: "Insumos"})
	require.NoError(t, err)

	got, err := uc.GetByID(catCompanyID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Insumos", got.Name)

	_, err = uc.GetByID(catOtraEmpresa, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err = uc.GetByID(catCompanyID, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Al crear un artículo, category_id debe referenciar una categoría existente
// de la misma empresa.
func TestItemCreate_ValidaCategoria(t *testing.T) {
	store := newCatalogStore(t)
	categoryUC := usecase.NewCategoryUseCase(store.Categories())
	itemUC := usecase.NewItemUseCase(store.Items(), store.Categories())

	category, err := categoryUC.Create(catCompanyID, dto.CreateCategoryRequest{Name: "Insumos"})
	require.NoError(t, err)

	item, err := itemUC.Create(catCompanyID, dto.CreateItemRequest{
		Name:       "Harina de trigo",
		Type:       entity.ItemTypeRawMaterial,
		Unit:       "kg",
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, item.CategoryID)
	assert.Equal(t, category.ID, *item.CategoryID)

	missing := "no-existe"
	_, err = itemUC.Create(catCompanyID, dto.CreateItemRequest{
		Name: "Levadura", Type: entity.ItemTypeRawMaterial, Unit: "kg", CategoryID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = itemUC.Create(catOtraEmpresa, dto.CreateItemRequest{
		Name: "Levadura", Type: entity.ItemTypeRawMaterial, Unit: "kg", CategoryID: &category.ID,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"un artículo no puede referenciar una categoría de otra empresa")
}
