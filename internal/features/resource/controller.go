package resource

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type ResourceController struct {
	Service ResourceService
}

func NewResourceController(service ResourceService) *ResourceController {
	return &ResourceController{Service: service}
}

// CreateResource godoc
// @Summary Register a shared resource
// @Tags resources
// @Accept json
// @Produce json
// @Param body body ResourceInput true "Resource"
// @Success 201 {object} Resource
// @Router /api/resources [post]
func (c *ResourceController) CreateResource(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ResourceInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	resource, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(resource)
}

// GetResource godoc
// @Summary Fetch a resource by id
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} Resource
// @Router /api/resources/{id} [get]
func (c *ResourceController) GetResource(ctx *fiber.Ctx) error {
	resource, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(resource)
}

// ListResources godoc
// @Summary List resources
// @Tags resources
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/resources [get]
func (c *ResourceController) ListResources(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	resources, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": resources, "total": total})
}

// SearchResources godoc
// @Summary Search resources with filters
// @Tags resources
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/resources/search [post]
func (c *ResourceController) SearchResources(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	resources, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": resources, "total": total})
}

// UpdateResource godoc
// @Summary Update resource attributes
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param body body ResourceInput true "Resource"
// @Success 200 {object} Resource
// @Router /api/resources/{id} [put]
func (c *ResourceController) UpdateResource(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ResourceInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	resource, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(resource)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionResource godoc
// @Summary Move a resource to a new status
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} Resource
// @Router /api/resources/{id}/status [patch]
func (c *ResourceController) TransitionResource(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	resource, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(resource)
}
