package export

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	controller *ExportController
	config     *config.Config
}

func NewExportApi(controller *ExportController, config *config.Config) *ExportApi {
	return &ExportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ExportApi) Setup(app *fiber.App) {
	group := app.Group("/api/export", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/:module", h.controller.DownloadRegister)
}
