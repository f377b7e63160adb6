package automation

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type HookApi struct {
	controller *HookController
	config     *config.Config
}

func NewHookApi(controller *HookController, config *config.Config) *HookApi {
	return &HookApi{
		controller: controller,
		config:     config,
	}
}

func (h *HookApi) Setup(app *fiber.App) {
	group := app.Group("/api/automation/hooks",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(permissions.RoleAdmin))

	group.Post("/", h.controller.CreateHook)
	group.Get("/", h.controller.ListHooks)
	group.Put("/:id", h.controller.UpdateHook)
	group.Delete("/:id", h.controller.DeleteHook)
}
