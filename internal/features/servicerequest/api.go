package servicerequest

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type ServiceRequestApi struct {
	controller *ServiceRequestController
	config     *config.Config
	eval       *permissions.Evaluator
}

func NewServiceRequestApi(controller *ServiceRequestController, config *config.Config, eval *permissions.Evaluator) *ServiceRequestApi {
	return &ServiceRequestApi{
		controller: controller,
		config:     config,
		eval:       eval,
	}
}

func (h *ServiceRequestApi) Setup(app *fiber.App) {
	group := app.Group("/api/service_requests", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Requester), h.controller.CreateServiceRequest)
	group.Get("/", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Viewer), h.controller.ListServiceRequests)
	group.Post("/search", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Viewer), h.controller.SearchServiceRequests)
	group.Get("/:id", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Viewer), h.controller.GetServiceRequest)
	group.Put("/:id", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Requester), h.controller.UpdateServiceRequest)
	group.Patch("/:id/status", middleware.RequirePermission(h.eval, permissions.ModuleServiceRequests, permissions.Requester), h.controller.TransitionServiceRequest)
}
