package purchaseorder

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderController struct {
	Service PurchaseOrderService
}

func NewPurchaseOrderController(service PurchaseOrderService) *PurchaseOrderController {
	return &PurchaseOrderController{Service: service}
}

// CreatePurchaseOrder godoc
// @Summary Draft a purchase order
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param body body PurchaseOrderInput true "Purchase order"
// @Success 201 {object} PurchaseOrder
// @Router /api/purchase_orders [post]
func (c *PurchaseOrderController) CreatePurchaseOrder(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input PurchaseOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	order, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// GetPurchaseOrder godoc
// @Summary Fetch a purchase order by id
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} PurchaseOrder
// @Router /api/purchase_orders/{id} [get]
func (c *PurchaseOrderController) GetPurchaseOrder(ctx *fiber.Ctx) error {
	order, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(order)
}

// ListPurchaseOrders godoc
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/purchase_orders [get]
func (c *PurchaseOrderController) ListPurchaseOrders(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	orders, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": orders, "total": total})
}

// SearchPurchaseOrders godoc
// @Summary Search purchase orders with filters
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/purchase_orders/search [post]
func (c *PurchaseOrderController) SearchPurchaseOrders(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	orders, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": orders, "total": total})
}

// UpdatePurchaseOrder godoc
// @Summary Update purchase order attributes
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param body body PurchaseOrderInput true "Purchase order"
// @Success 200 {object} PurchaseOrder
// @Router /api/purchase_orders/{id} [put]
func (c *PurchaseOrderController) UpdatePurchaseOrder(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input PurchaseOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	order, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(order)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionPurchaseOrder godoc
// @Summary Move a purchase order to a new status
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} PurchaseOrder
// @Router /api/purchase_orders/{id}/status [patch]
func (c *PurchaseOrderController) TransitionPurchaseOrder(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	order, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(order)
}
