package contract

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type ContractApi struct {
	controller *ContractController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewContractApi(controller *ContractController, config *config.Config, eval *permissions.Evaluator) *ContractApi {
	return &ContractApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *ContractApi) Setup(app *fiber.App) {
	group := app.Group("/api/contracts", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Requester), h.controller.CreateContract)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Viewer), h.controller.ListContracts)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Viewer), h.controller.SearchContracts)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Viewer), h.controller.GetContract)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Requester), h.controller.UpdateContract)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleContracts, permissions.Requester), h.controller.TransitionContract)
}
