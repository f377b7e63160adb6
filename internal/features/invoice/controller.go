package invoice

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type InvoiceController struct {
	Service InvoiceService
}

func NewInvoiceController(service InvoiceService) *InvoiceController {
	return &InvoiceController{Service: service}
}

// CreateInvoice godoc
// @Summary Register a vendor invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body InvoiceInput true "Invoice"
// @Success 201 {object} Invoice
// @Router /api/invoices [post]
func (c *InvoiceController) CreateInvoice(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input InvoiceInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	invoice, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(invoice)
}

// GetInvoice godoc
// @Summary Fetch an invoice by id
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Invoice
// @Router /api/invoices/{id} [get]
func (c *InvoiceController) GetInvoice(ctx *fiber.Ctx) error {
	invoice, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(invoice)
}

// ListInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/invoices [get]
func (c *InvoiceController) ListInvoices(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	invoices, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": invoices, "total": total})
}

// SearchInvoices godoc
// @Summary Search invoices with filters
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/invoices/search [post]
func (c *InvoiceController) SearchInvoices(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	invoices, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": invoices, "total": total})
}

// UpdateInvoice godoc
// @Summary Update invoice attributes
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param body body InvoiceInput true "Invoice"
// @Success 200 {object} Invoice
// @Router /api/invoices/{id} [put]
func (c *InvoiceController) UpdateInvoice(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input InvoiceInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	invoice, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(invoice)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionInvoice godoc
// @Summary Move an invoice to a new status
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} Invoice
// @Router /api/invoices/{id}/status [patch]
func (c *InvoiceController) TransitionInvoice(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	invoice, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(invoice)
}
