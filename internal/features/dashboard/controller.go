package dashboard

import (
	"sourcevia/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

// GetSummary godoc
// @Summary Status breakdown across procurement modules
// @Tags dashboard
// @Produce json
// @Success 200 {object} Summary
// @Router /api/dashboard/summary [get]
func (c *DashboardController) GetSummary(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	summary, err := c.Service.Summary(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(summary)
}
