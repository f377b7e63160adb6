package servicerequest

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type ServiceRequestController struct {
	Service ServiceRequestService
}

func NewServiceRequestController(service ServiceRequestService) *ServiceRequestController {
	return &ServiceRequestController{Service: service}
}

// CreateServiceRequest godoc
// @Summary Open a service request
// @Tags service-requests
// @Accept json
// @Produce json
// @Param body body ServiceRequestInput true "Service request"
// @Success 201 {object} ServiceRequest
// @Router /api/service_requests [post]
func (c *ServiceRequestController) CreateServiceRequest(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ServiceRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	request, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(request)
}

// GetServiceRequest godoc
// @Summary Fetch a service request by id
// @Tags service-requests
// @Produce json
// @Param id path string true "Service request ID"
// @Success 200 {object} ServiceRequest
// @Router /api/service_requests/{id} [get]
func (c *ServiceRequestController) GetServiceRequest(ctx *fiber.Ctx) error {
	request, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(request)
}

// ListServiceRequests godoc
// @Summary List service requests
// @Tags service-requests
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/service_requests [get]
func (c *ServiceRequestController) ListServiceRequests(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	requests, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total})
}

// SearchServiceRequests godoc
// @Summary Search service requests with filters
// @Tags service-requests
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/service_requests/search [post]
func (c *ServiceRequestController) SearchServiceRequests(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	requests, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total})
}

// UpdateServiceRequest godoc
// @Summary Update service request attributes
// @Tags service-requests
// @Accept json
// @Produce json
// @Param id path string true "Service request ID"
// @Param body body ServiceRequestInput true "Service request"
// @Success 200 {object} ServiceRequest
// @Router /api/service_requests/{id} [put]
func (c *ServiceRequestController) UpdateServiceRequest(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ServiceRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	request, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(request)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionServiceRequest godoc
// @Summary Move a service request to a new status
// @Tags service-requests
// @Accept json
// @Produce json
// @Param id path string true "Service request ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} ServiceRequest
// @Router /api/service_requests/{id}/status [patch]
func (c *ServiceRequestController) TransitionServiceRequest(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	request, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(request)
}
