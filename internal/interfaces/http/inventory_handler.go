package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-ledger/internal/application/dto"
	"github.com/invorya/stock-ledger/internal/application/inventory"
	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja movimientos, traslados, conteos y consultas de stock (protegido).
type InventoryHandler struct {
	applyUC    *inventory.ApplyMovementUseCase
	transferUC *inventory.TransferStockUseCase
	recountUC  *inventory.RecountUseCase
	queryUC    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	applyUC *inventory.ApplyMovementUseCase,
	transferUC *inventory.TransferStockUseCase,
	recountUC *inventory.RecountUseCase,
	queryUC *inventory.QueryUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		applyUC:    applyUC,
		transferUC: transferUC,
		recountUC:  recountUC,
		queryUC:    queryUC,
	}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Aplica un movimiento (compra, venta, producción, ajuste) sobre el
// @Description  registro (tienda, artículo). El rol staff solo puede registrar ventas.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" || in.ItemID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id, item_id y type son requeridos"})
	}
	movType := entity.MovementType(in.Type)
	if GetRole(c) == entity.RoleStaff && movType != entity.MovementSale {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol staff solo puede registrar ventas"})
	}
	mov, err := h.applyUC.ApplyMovement(c.Context(), inventory.MovementInput{
		CompanyID:     companyID,
		UserID:        GetUserID(c),
		StoreID:       in.StoreID,
		ItemID:        in.ItemID,
		Type:          movType,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		BatchID:       in.BatchID,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Transfer godoc
// @Summary      Trasladar stock entre tiendas
// @Description  Aplica todas las líneas del traslado en una sola transacción:
// @Description  o se mueven todas, o ninguna. Requiere rol admin o manager.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Traslado"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.FromStoreID == "" || in.ToStoreID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from_store_id y to_store_id son requeridos"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el traslado necesita al menos una línea"})
	}
	lines := make([]inventory.TransferLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.TransferLine{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Unit:     l.Unit,
		})
	}
	movements, err := h.transferUC.TransferStock(c.Context(), inventory.TransferInput{
		CompanyID:   companyID,
		UserID:      GetUserID(c),
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Lines:       lines,
		Notes:       in.Notes,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Recount godoc
// @Summary      Registrar conteo físico
// @Description  Ajusta el registro a la cantidad contada y sella last_counted_at.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecountRequest  true  "Conteo físico"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/recounts [post]
func (h *InventoryHandler) Recount(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.RecountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id y item_id son requeridos"})
	}
	result, err := h.recountUC.Recount(c.Context(), inventory.RecountInput{
		CompanyID:       companyID,
		UserID:          GetUserID(c),
		StoreID:         in.StoreID,
		ItemID:          in.ItemID,
		CountedQuantity: in.CountedQuantity,
		Unit:            in.Unit,
		Notes:           in.Notes,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(toRecordResponse(result.Record))
}

// GetRecord godoc
// @Summary      Consultar stock de un artículo en una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "ID de la tienda"
// @Param        itemId   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stores/{storeId}/items/{itemId} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	storeID := c.Params("storeId")
	itemID := c.Params("itemId")
	record, err := h.queryUC.GetRecord(c.Context(), companyID, storeID, itemID)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(toRecordResponse(record))
}

// ListStoreInventory godoc
// @Summary      Listar inventario de una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path   string  true   "ID de la tienda"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/stores/{storeId} [get]
func (h *InventoryHandler) ListStoreInventory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	storeID := c.Params("storeId")
	limit, offset := pageParams(c)
	records, err := h.queryUC.ListStoreInventory(c.Context(), companyID, storeID, limit, offset)
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return c.JSON(out)
}

// ListStoreMovements godoc
// @Summary      Listar movimientos de una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path   string  true   "ID de la tienda"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/stores/{storeId}/movements [get]
func (h *InventoryHandler) ListStoreMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	storeID := c.Params("storeId")
	limit, offset := pageParams(c)
	from, err := timeParam(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	movements, err := h.queryUC.ListStoreMovements(c.Context(), companyID, storeID, from, to, limit, offset)
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// ListRecordMovements godoc
// @Summary      Listar movimientos de un registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        recordId  path   string  true   "ID del registro"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/records/{recordId}/movements [get]
func (h *InventoryHandler) ListRecordMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	recordID := c.Params("recordId")
	limit, offset := pageParams(c)
	movements, err := h.queryUC.ListRecordMovements(c.Context(), companyID, recordID, limit, offset)
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// inventoryError mapea errores de dominio del motor de inventario a HTTP.
func inventoryError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	var mismatch *domain.UnitMismatchError
	if errors.As(err, &mismatch) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNIT_MISMATCH", Message: mismatch.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad debe ser positiva"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "demasiada contención, reintente la operación"})
	}
	return internalError(c, err)
}

func timeParam(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		Position:      m.Position,
		RecordID:      m.RecordID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Unit:          m.Unit,
		BatchID:       m.BatchID,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:            r.ID,
		StoreID:       r.StoreID,
		ItemID:        r.ItemID,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		LastCountedAt: r.LastCountedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
