package contract

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type ContractController struct {
	Service ContractService
}

func NewContractController(service ContractService) *ContractController {
	return &ContractController{Service: service}
}

// CreateContract godoc
// @Summary Draft a contract against a vendor
// @Tags contracts
// @Accept json
// @Produce json
// @Param body body ContractInput true "Contract"
// @Success 201 {object} Contract
// @Router /api/contracts [post]
func (c *ContractController) CreateContract(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ContractInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	contract, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(contract)
}

// GetContract godoc
// @Summary Fetch a contract by id
// @Tags contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} Contract
// @Router /api/contracts/{id} [get]
func (c *ContractController) GetContract(ctx *fiber.Ctx) error {
	contract, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(contract)
}

// ListContracts godoc
// @Summary List contracts
// @Tags contracts
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/contracts [get]
func (c *ContractController) ListContracts(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	contracts, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": contracts, "total": total})
}

// SearchContracts godoc
// @Summary Search contracts with filters
// @Tags contracts
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/contracts/search [post]
func (c *ContractController) SearchContracts(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	contracts, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": contracts, "total": total})
}

// UpdateContract godoc
// @Summary Update contract attributes
// @Tags contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param body body ContractInput true "Contract"
// @Success 200 {object} Contract
// @Router /api/contracts/{id} [put]
func (c *ContractController) UpdateContract(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ContractInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	contract, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(contract)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionContract godoc
// @Summary Move a contract to a new status
// @Tags contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} Contract
// @Router /api/contracts/{id}/status [patch]
func (c *ContractController) TransitionContract(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	contract, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(contract)
}
