package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	"github.com/jhoicas/ensambles-api/internal/application/bom"
	"github.com/jhoicas/ensambles-api/internal/application/catalog"
	"github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/application/workorder"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.CatalogUseCase
	LedgerUC    *inventory.LedgerUseCase
	BOMUC       *bom.BOMUseCase
	AssemblyUC  *assembly.AssemblyUseCase
	WorkOrderUC *workorder.WorkOrderUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; el
// CompanyID del token delimita cada operación a los datos de su empresa.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Items (catálogo + stock + historial + lotes + BOM por ítem)
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.CatalogUC)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	bomHandler := NewBOMHandler(deps.BOMUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.ListLowStock)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Get("/:id/stock", itemHandler.GetStock)
	items.Get("/:id/movements", inventoryHandler.GetHistory)
	items.Post("/:id/lots", inventoryHandler.CreateLot)
	items.Get("/:id/lots", inventoryHandler.ListLots)
	items.Post("/:id/bom", bomHandler.AddComponent)
	items.Get("/:id/bom", bomHandler.GetComponents)
	items.Get("/:id/where-used", bomHandler.GetWhereUsed)

	// Líneas BOM por ID (edición/eliminación)
	bomLines := api.Group("/bom/lines")
	bomLines.Put("/:lineId", bomHandler.UpdateComponent)
	bomLines.Delete("/:lineId", bomHandler.RemoveComponent)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.CatalogUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Inventory movements
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)

	// Assemblies (disponibilidad, build, unbuild)
	assemblies := api.Group("/assemblies")
	assemblyHandler := NewAssemblyHandler(deps.AssemblyUC)
	assemblies.Get("/:id/availability", assemblyHandler.GetAvailability)
	assemblies.Post("/:id/build", RequireRole("admin", "bodeguero"), assemblyHandler.Build)
	assemblies.Post("/:id/unbuild", RequireRole("admin", "bodeguero"), assemblyHandler.Unbuild)

	// Work orders
	workOrders := api.Group("/work-orders")
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	workOrders.Post("/", workOrderHandler.Create)
	workOrders.Get("/", workOrderHandler.List)
	workOrders.Get("/:id", workOrderHandler.GetByID)
	workOrders.Post("/:id/transition", RequireRole("admin", "bodeguero"), workOrderHandler.Transition)
	workOrders.Post("/:id/complete", RequireRole("admin", "bodeguero"), workOrderHandler.Complete)
}
