package auth

import (
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
	Eval    *permissions.Evaluator
}

func NewAuthController(service AuthService, eval *permissions.Evaluator) *AuthController {
	return &AuthController{Service: service, Eval: eval}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, usr, err := c.Service.Login(ctx.UserContext(), req.Username, req.Password)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"token": token,
		"user":  usr,
	})
}

// Me godoc
// @Summary Describe the calling actor and their module permissions
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	modules := map[permissions.Module][]string{}
	for _, m := range permissions.Modules {
		if !c.Eval.CanAccessModule(actor.Role, m) {
			continue
		}
		var levels []string
		for level := permissions.Viewer; level <= permissions.Controller; level++ {
			if c.Eval.HasPermission(actor.Role, m, level) {
				levels = append(levels, level.String())
			}
		}
		modules[m] = levels
	}

	return ctx.JSON(fiber.Map{
		"user_id": actor.ID,
		"role":    actor.Role,
		"modules": modules,
	})
}
