package permission

import (
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

// The UI renders its affordances from this API so there is exactly one copy
// of the matrix. The server remains the enforcement authority; what this
// endpoint serves is advisory.
type PermissionController struct {
	Eval *permissions.Evaluator
}

func NewPermissionController(eval *permissions.Evaluator) *PermissionController {
	return &PermissionController{Eval: eval}
}

// GetMatrix godoc
// @Summary Full role/module permission matrix
// @Tags permissions
// @Produce json
// @Success 200 {object} map[string]map[string][]string
// @Router /api/permissions/matrix [get]
func (c *PermissionController) GetMatrix(ctx *fiber.Ctx) error {
	out := map[permissions.Role]map[permissions.Module][]string{}
	for role, modules := range c.Eval.Matrix() {
		out[role] = map[permissions.Module][]string{}
		for module, set := range modules {
			levels := make([]string, 0, len(set))
			for _, l := range set {
				levels = append(levels, l.String())
			}
			out[role][module] = levels
		}
	}
	return ctx.JSON(out)
}

// GetMine godoc
// @Summary Permission sets for the calling actor's role
// @Tags permissions
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/permissions/me [get]
func (c *PermissionController) GetMine(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	out := map[permissions.Module][]string{}
	for module, set := range c.Eval.Matrix()[actor.Role] {
		levels := make([]string, 0, len(set))
		for _, l := range set {
			levels = append(levels, l.String())
		}
		out[module] = levels
	}
	return ctx.JSON(out)
}
