package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	"github.com/jhoicas/ensambles-api/internal/application/dto"
)

// AssemblyHandler maneja disponibilidad, Build y Unbuild de ensambles (protegido).
type AssemblyHandler struct {
	uc *assembly.AssemblyUseCase
}

// NewAssemblyHandler construye el handler.
func NewAssemblyHandler(uc *assembly.AssemblyUseCase) *AssemblyHandler {
	return &AssemblyHandler{uc: uc}
}

// GetAvailability godoc
// @Summary      Disponibilidad de ensamble
// @Description  Cuántas unidades se pueden construir con el stock actual de
//               componentes. Lectura consultiva sin bloqueos; Build revalida.
// @Tags         assemblies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ensamble"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id}/availability [get]
func (h *AssemblyHandler) GetAvailability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	availability, err := h.uc.GetAvailability(c.Context(), companyID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAvailabilityResponse(itemID, availability))
}

// Build godoc
// @Summary      Construir unidades del ensamble
// @Description  Consume componentes y produce el ensamble en una transacción
//               todo-o-nada; si falta algún componente responde 409 con el detalle.
// @Tags         assemblies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del ensamble"
// @Param        body  body  dto.BuildRequest  true  "location_id, quantity"
// @Success      201   {object}  dto.BuildResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id}/build [post]
func (h *AssemblyHandler) Build(c *fiber.Ctx) error {
	return h.execute(c, h.uc.Build)
}

// Unbuild godoc
// @Summary      Desensamblar unidades del ensamble
// @Description  Inverso de Build: consume stock del ensamble y devuelve los
//               componentes según la receta actual.
// @Tags         assemblies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del ensamble"
// @Param        body  body  dto.BuildRequest  true  "location_id, quantity"
// @Success      201   {object}  dto.BuildResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id}/unbuild [post]
func (h *AssemblyHandler) Unbuild(c *fiber.Ctx) error {
	return h.execute(c, h.uc.Unbuild)
}

func (h *AssemblyHandler) execute(c *fiber.Ctx, op func(ctx context.Context, input assembly.BuildInput) (*assembly.BuildResult, error)) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BuildRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := op(c.Context(), assembly.BuildInput{
		CompanyID:  companyID,
		UserID:     userID,
		ItemID:     c.Params("id"),
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBuildResponse(result))
}
