package tender

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type TenderApi struct {
	controller *TenderController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewTenderApi(controller *TenderController, config *config.Config, eval *permissions.Evaluator) *TenderApi {
	return &TenderApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *TenderApi) Setup(app *fiber.App) {
	group := app.Group("/api/tenders", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Requester), h.controller.CreateTender)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Viewer), h.controller.ListTenders)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Viewer), h.controller.SearchTenders)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Viewer), h.controller.GetTender)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Requester), h.controller.UpdateTender)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleTenders, permissions.Requester), h.controller.TransitionTender)

	group.Post("/:id/proposals", middleware.RequirePermission(h.eval, permissions.ModuleTenderProposals, permissions.Verifier), h.controller.AddProposal)
	group.Get("/:id/proposals", middleware.RequirePermission(h.eval, permissions.ModuleTenderProposals, permissions.Viewer), h.controller.ListProposals)
	group.Put("/:id/proposals/:pid/evaluation", middleware.RequirePermission(h.eval, permissions.ModuleTenderEvaluation, permissions.Verifier), h.controller.EvaluateProposal)
}
