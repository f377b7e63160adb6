package asset

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type AssetApi struct {
	controller *AssetController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewAssetApi(controller *AssetController, config *config.Config, eval *permissions.Evaluator) *AssetApi {
	return &AssetApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *AssetApi) Setup(app *fiber.App) {
	group := app.Group("/api/assets", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Requester), h.controller.CreateAsset)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Viewer), h.controller.ListAssets)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Viewer), h.controller.SearchAssets)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Viewer), h.controller.GetAsset)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Requester), h.controller.UpdateAsset)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleAssets, permissions.Requester), h.controller.TransitionAsset)
}
