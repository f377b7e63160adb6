package automation

import (
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type HookController struct {
	Service HookService
}

func NewHookController(service HookService) *HookController {
	return &HookController{Service: service}
}

// CreateHook godoc
// @Summary Register an automation hook
// @Tags automation
// @Accept json
// @Produce json
// @Param body body HookInput true "Hook"
// @Success 201 {object} Hook
// @Router /api/automation/hooks [post]
func (c *HookController) CreateHook(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input HookInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	hook, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(hook)
}

// ListHooks godoc
// @Summary List automation hooks
// @Tags automation
// @Produce json
// @Success 200 {array} Hook
// @Router /api/automation/hooks [get]
func (c *HookController) ListHooks(ctx *fiber.Ctx) error {
	hooks, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(hooks)
}

// UpdateHook godoc
// @Summary Update an automation hook
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Hook ID"
// @Param body body HookInput true "Hook"
// @Success 200 {object} Hook
// @Router /api/automation/hooks/{id} [put]
func (c *HookController) UpdateHook(ctx *fiber.Ctx) error {
	var input HookInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	hook, err := c.Service.Update(ctx.UserContext(), ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(hook)
}

// DeleteHook godoc
// @Summary Delete an automation hook
// @Tags automation
// @Param id path string true "Hook ID"
// @Success 204 "No Content"
// @Router /api/automation/hooks/{id} [delete]
func (c *HookController) DeleteHook(ctx *fiber.Ctx) error {
	if err := c.Service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
