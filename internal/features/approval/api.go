package approval

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller: controller,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	group := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	// Per-route permission checks live in the service, which must vet the
	// actor against the target entity's module.
	group.Get("/pending", h.controller.ListPending)
	group.Post("/:type/:id/assign", h.controller.Assign)
	group.Post("/:type/:id/decision", h.controller.Decide)
}
