package approval

import (
	"sourcevia/internal/common/errs"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

func entityTypeParam(ctx *fiber.Ctx) (lifecycle.EntityType, error) {
	t := lifecycle.EntityType(ctx.Params("type"))
	for _, known := range lifecycle.EntityTypes {
		if t == known {
			return t, nil
		}
	}
	return "", errs.Validation("unknown entity type %q", ctx.Params("type"))
}

type AssignRequest struct {
	ApproverIDs []string `json:"approver_ids"`
	Comment     string   `json:"comment"`
}

// Assign godoc
// @Summary Assign approvers to a pending entity
// @Tags approvals
// @Accept json
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID"
// @Param body body AssignRequest true "Approvers"
// @Success 201 {object} Assignment
// @Router /api/approvals/{type}/{id}/assign [post]
func (c *ApprovalController) Assign(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	entityType, err := entityTypeParam(ctx)
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignment, err := c.Service.AssignApprovers(ctx.UserContext(), actor, entityType, ctx.Params("id"), req.ApproverIDs, req.Comment)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(assignment)
}

type DecisionRequest struct {
	Decision Decision `json:"decision"`
	Comment  string   `json:"comment"`
}

// Decide godoc
// @Summary Record an approve/reject decision
// @Tags approvals
// @Accept json
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID"
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} Assignment
// @Router /api/approvals/{type}/{id}/decision [post]
func (c *ApprovalController) Decide(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	entityType, err := entityTypeParam(ctx)
	if err != nil {
		return err
	}

	var req DecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignment, err := c.Service.RecordDecision(ctx.UserContext(), actor, entityType, ctx.Params("id"), req.Decision, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(assignment)
}

// ListPending godoc
// @Summary List approval rounds awaiting the calling actor
// @Tags approvals
// @Produce json
// @Success 200 {array} Assignment
// @Router /api/approvals/pending [get]
func (c *ApprovalController) ListPending(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	assignments, err := c.Service.ListPending(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(assignments)
}
