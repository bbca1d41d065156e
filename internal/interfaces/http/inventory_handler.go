package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ensambles-api/internal/application/dto"
	"github.com/jhoicas/ensambles-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos de inventario, historial y lotes (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  receive/ship/adjust/count usan location_id; transfer usa from/to.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, type, quantity, location_id (o from/to para transfer)"
// @Success      201   {object}  dto.UpdatedQuantitiesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		CompanyID:      companyID,
		UserID:         userID,
		ItemID:         in.ItemID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		LocationID:     in.LocationID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		LotID:          in.LotID,
		Reference:      in.Reference,
		Notes:          in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UpdatedQuantitiesResponse{
		ItemID:        result.ItemID,
		TotalQuantity: result.TotalQuantity,
		Locations:     dto.ToLocationQuantityDTOs(result.Locations),
	})
}

// GetHistory godoc
// @Summary      Historial de movimientos de un ítem con saldo acumulado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [get]
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	itemID := c.Params("id")
	movements, err := h.uc.GetHistory(c.Context(), companyID, itemID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.HistoryResponse{
		ItemID:    itemID,
		Movements: dto.ToMovementDTOs(movements),
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// CreateLot godoc
// @Summary      Registrar lote con stock inicial
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del ítem (lot_tracked)"
// @Param        body  body  dto.CreateLotRequest  true  "lot_number, quantity, location_id, expiration_date"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/lots [post]
func (h *InventoryHandler) CreateLot(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.uc.CreateLot(c.Context(), inventory.CreateLotInput{
		CompanyID:       companyID,
		UserID:          userID,
		ItemID:          c.Params("id"),
		LotNumber:       in.LotNumber,
		SerialNumber:    in.SerialNumber,
		Quantity:        in.Quantity,
		LocationID:      in.LocationID,
		ExpirationDate:  in.ExpirationDate,
		ManufactureDate: in.ManufactureDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LotResponse{
		ID:              lot.ID,
		ItemID:          lot.ItemID,
		LotNumber:       lot.LotNumber,
		SerialNumber:    lot.SerialNumber,
		Quantity:        lot.Quantity,
		LocationID:      lot.LocationID,
		ExpirationDate:  lot.ExpirationDate,
		ManufactureDate: lot.ManufactureDate,
		State:           lot.State(time.Now()),
		CreatedAt:       lot.CreatedAt,
	})
}

// ListLots godoc
// @Summary      Listar lotes de un ítem
// @Description  Por defecto excluye lotes vencidos; include_expired=true los incluye.
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id               path   string  true   "ID del ítem"
// @Param        include_expired  query  bool    false  "Incluir lotes vencidos"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	includeExpired := c.QueryBool("include_expired")
	views, err := h.uc.ListLots(c.Context(), companyID, c.Params("id"), includeExpired)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToLotResponses(views))
}
