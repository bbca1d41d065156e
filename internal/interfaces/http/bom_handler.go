package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ensambles-api/internal/application/bom"
	"github.com/jhoicas/ensambles-api/internal/application/dto"
)

// BOMHandler maneja las listas de materiales y el índice dónde-se-usa (protegido).
type BOMHandler struct {
	uc *bom.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// AddComponent godoc
// @Summary      Agregar componente a la lista de materiales de un ensamble
// @Description  Rechaza autorreferencias y aristas que crearían un ciclo.
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ítem padre (ensamble)"
// @Param        body  body  dto.AddComponentRequest  true  "component_item_id, quantity_required"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/bom [post]
func (h *BOMHandler) AddComponent(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.AddComponent(c.Context(), bom.AddComponentInput{
		CompanyID:        companyID,
		ParentItemID:     c.Params("id"),
		ComponentItemID:  in.ComponentItemID,
		QuantityRequired: in.QuantityRequired,
		UnitMeasure:      in.UnitMeasure,
		DisplayOrder:     in.DisplayOrder,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"line_id": line.ID})
}

// GetComponents godoc
// @Summary      Lista de materiales de un ensamble
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem padre"
// @Success      200  {array}   dto.BOMComponentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/bom [get]
func (h *BOMHandler) GetComponents(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	components, err := h.uc.GetComponents(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBOMComponentDTOs(components))
}

// UpdateComponent godoc
// @Summary      Editar una línea de la lista de materiales
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lineId  path  string                      true  "ID de la línea"
// @Param        body    body  dto.UpdateComponentRequest  true  "quantity_required, unit_measure, display_order"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/lines/{lineId} [put]
func (h *BOMHandler) UpdateComponent(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.UpdateComponent(c.Context(), companyID, c.Params("lineId"), in.QuantityRequired, in.UnitMeasure, in.DisplayOrder)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"line_id": line.ID})
}

// RemoveComponent godoc
// @Summary      Eliminar una línea de la lista de materiales
// @Description  No mueve inventario; solo edita la receta.
// @Tags         bom
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/lines/{lineId} [delete]
func (h *BOMHandler) RemoveComponent(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.RemoveComponent(c.Context(), companyID, c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetWhereUsed godoc
// @Summary      Ensambles que usan el componente
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del componente"
// @Success      200  {array}   dto.WhereUsedDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/where-used [get]
func (h *BOMHandler) GetWhereUsed(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	entries, err := h.uc.GetWhereUsed(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWhereUsedDTOs(entries))
}
