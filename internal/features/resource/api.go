package resource

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type ResourceApi struct {
	controller *ResourceController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewResourceApi(controller *ResourceController, config *config.Config, eval *permissions.Evaluator) *ResourceApi {
	return &ResourceApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *ResourceApi) Setup(app *fiber.App) {
	group := app.Group("/api/resources", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Requester), h.controller.CreateResource)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Viewer), h.controller.ListResources)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Viewer), h.controller.SearchResources)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Viewer), h.controller.GetResource)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Requester), h.controller.UpdateResource)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleResources, permissions.Requester), h.controller.TransitionResource)
}
