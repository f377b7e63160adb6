package user

import (
	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequireRole(permissions.RoleAdmin), h.controller.CreateUser)
	group.Get("/", h.controller.ListUsers)
	group.Get("/:id", h.controller.GetUser)
	group.Put("/:id/role", middleware.RequireRole(permissions.RoleAdmin), h.controller.ChangeRole)
}
