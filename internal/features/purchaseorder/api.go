package purchaseorder

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderApi struct {
	controller *PurchaseOrderController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewPurchaseOrderApi(controller *PurchaseOrderController, config *config.Config, eval *permissions.Evaluator) *PurchaseOrderApi {
	return &PurchaseOrderApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *PurchaseOrderApi) Setup(app *fiber.App) {
	group := app.Group("/api/purchase_orders", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Requester), h.controller.CreatePurchaseOrder)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Viewer), h.controller.ListPurchaseOrders)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Viewer), h.controller.SearchPurchaseOrders)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Viewer), h.controller.GetPurchaseOrder)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Requester), h.controller.UpdatePurchaseOrder)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModulePurchaseOrders, permissions.Requester), h.controller.TransitionPurchaseOrder)
}
