package user

import (
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} User
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	usr, err := c.Service.Create(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(usr)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} User
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *fiber.Ctx) error {
	users, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(users)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} User
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	usr, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(usr)
}

// ChangeRole godoc
// @Summary Reassign a user's role
// @Tags users
// @Accept json
// @Param id path string true "User ID"
// @Param body body object true "New role"
// @Success 200 {object} map[string]string
// @Router /api/users/{id}/role [put]
func (c *UserController) ChangeRole(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		Role permissions.Role `json:"role"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.ChangeRole(ctx.UserContext(), actor, ctx.Params("id"), body.Role); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Role updated"})
}
