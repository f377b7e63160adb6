package invoice

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type InvoiceApi struct {
	controller *InvoiceController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewInvoiceApi(controller *InvoiceController, config *config.Config, eval *permissions.Evaluator) *InvoiceApi {
	return &InvoiceApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *InvoiceApi) Setup(app *fiber.App) {
	group := app.Group("/api/invoices", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Requester), h.controller.CreateInvoice)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Viewer), h.controller.ListInvoices)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Viewer), h.controller.SearchInvoices)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Viewer), h.controller.GetInvoice)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Requester), h.controller.UpdateInvoice)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleInvoices, permissions.Requester), h.controller.TransitionInvoice)
}
