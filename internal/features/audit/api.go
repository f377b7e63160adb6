package audit

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/audit", middleware.AuthMiddleware(h.config.SkipAuth))

	// The trail is admin-facing.
	group.Get("/", middleware.RequireRole(permissions.RoleAdmin), h.controller.ListLogs)
}
