package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ensambles-api/internal/application/dto"
	"github.com/jhoicas/ensambles-api/internal/application/workorder"
)

// WorkOrderHandler maneja órdenes de trabajo de ensamble (protegido).
type WorkOrderHandler struct {
	uc *workorder.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorder.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de trabajo (estado draft)
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "order_number, item_id, location_id, quantity_planned"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), workorder.CreateInput{
		CompanyID:       companyID,
		UserID:          userID,
		OrderNumber:     in.OrderNumber,
		ItemID:          in.ItemID,
		LocationID:      in.LocationID,
		QuantityPlanned: in.QuantityPlanned,
		Notes:           in.Notes,
		DueDate:         in.DueDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToWorkOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.WorkOrderResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), companyID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WorkOrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, dto.ToWorkOrderResponse(order))
	}
	return c.JSON(fiber.Map{"orders": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID godoc
// @Summary      Obtener orden de trabajo por ID
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := h.uc.GetByID(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWorkOrderResponse(order))
}

// Transition godoc
// @Summary      Cambiar el estado de la orden
// @Description  Solo transiciones válidas del ciclo de vida; 409 en caso contrario.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.TransitionWorkOrderRequest  true  "status destino"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/transition [post]
func (h *WorkOrderHandler) Transition(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransitionWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Transition(c.Context(), companyID, c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWorkOrderResponse(order))
}

// Complete godoc
// @Summary      Registrar cantidad completada (ejecuta Build)
// @Description  Construye las unidades y acumula lo completado en la misma
//               transacción; al alcanzar lo planeado la orden pasa a completed.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la orden"
// @Param        body  body  dto.CompleteWorkOrderRequest  true  "quantity"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CompleteWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, buildResult, err := h.uc.Complete(c.Context(), workorder.CompleteInput{
		CompanyID: companyID,
		UserID:    userID,
		OrderID:   c.Params("id"),
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order": dto.ToWorkOrderResponse(order),
		"build": dto.ToBuildResponse(buildResult),
	})
}
