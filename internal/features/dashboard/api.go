package dashboard

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	config     *config.Config
}

func NewDashboardApi(controller *DashboardController, config *config.Config) *DashboardApi {
	return &DashboardApi{
		controller: controller,
		config:     config,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/summary", h.controller.GetSummary)
}
