package asset

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type AssetController struct {
	Service AssetService
}

func NewAssetController(service AssetService) *AssetController {
	return &AssetController{Service: service}
}

// CreateAsset godoc
// @Summary Register an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param body body AssetInput true "Asset"
// @Success 201 {object} Asset
// @Router /api/assets [post]
func (c *AssetController) CreateAsset(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input AssetInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	asset, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(asset)
}

// GetAsset godoc
// @Summary Fetch an asset by id
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} Asset
// @Router /api/assets/{id} [get]
func (c *AssetController) GetAsset(ctx *fiber.Ctx) error {
	asset, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(asset)
}

// ListAssets godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/assets [get]
func (c *AssetController) ListAssets(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	assets, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": assets, "total": total})
}

// SearchAssets godoc
// @Summary Search assets with filters
// @Tags assets
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/assets/search [post]
func (c *AssetController) SearchAssets(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	assets, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": assets, "total": total})
}

// UpdateAsset godoc
// @Summary Update asset attributes
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param body body AssetInput true "Asset"
// @Success 200 {object} Asset
// @Router /api/assets/{id} [put]
func (c *AssetController) UpdateAsset(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input AssetInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	asset, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(asset)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionAsset godoc
// @Summary Move an asset to a new status
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} Asset
// @Router /api/assets/{id}/status [patch]
func (c *AssetController) TransitionAsset(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	asset, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(asset)
}
