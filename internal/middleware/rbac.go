package middleware

import (
	"sourcevia/pkg/permissions"
	"sourcevia/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission gates a route on the static matrix: the actor's role
// must hold min or better on module. Anything the matrix does not grant is
// denied.
func RequirePermission(eval *permissions.Evaluator, module permissions.Module, min permissions.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !eval.HasAtLeast(claims.Role, module, min) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}

// RequireRole gates a route on an exact role, for administrative endpoints
// that are not module-scoped (e.g. role reassignment).
func RequireRole(role permissions.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}
