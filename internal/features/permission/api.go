package permission

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
	config     *config.Config
}

func NewPermissionApi(controller *PermissionController, config *config.Config) *PermissionApi {
	return &PermissionApi{
		controller: controller,
		config:     config,
	}
}

func (h *PermissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/permissions", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/matrix", h.controller.GetMatrix)
	group.Get("/me", h.controller.GetMine)
}
