package tender

import (
	"sourcevia/internal/common/models"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

type TenderController struct {
	Service TenderService
}

func NewTenderController(service TenderService) *TenderController {
	return &TenderController{Service: service}
}

// CreateTender godoc
// @Summary Open a tender draft
// @Tags tenders
// @Accept json
// @Produce json
// @Param body body TenderInput true "Tender"
// @Success 201 {object} Tender
// @Router /api/tenders [post]
func (c *TenderController) CreateTender(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input TenderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	tender, err := c.Service.Create(ctx.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(tender)
}

// GetTender godoc
// @Summary Fetch a tender by id
// @Tags tenders
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {object} Tender
// @Router /api/tenders/{id} [get]
func (c *TenderController) GetTender(ctx *fiber.Ctx) error {
	tender, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(tender)
}

// ListTenders godoc
// @Summary List tenders
// @Tags tenders
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/tenders [get]
func (c *TenderController) ListTenders(ctx *fiber.Ctx) error {
	req := models.SearchRequest{
		Page:  int64(ctx.QueryInt("page", 1)),
		Limit: int64(ctx.QueryInt("limit", 50)),
	}
	tenders, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": tenders, "total": total})
}

// SearchTenders godoc
// @Summary Search tenders with filters
// @Tags tenders
// @Accept json
// @Produce json
// @Param body body models.SearchRequest true "Filters"
// @Success 200 {object} fiber.Map
// @Router /api/tenders/search [post]
func (c *TenderController) SearchTenders(ctx *fiber.Ctx) error {
	var req models.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	tenders, total, err := c.Service.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"data": tenders, "total": total})
}

// UpdateTender godoc
// @Summary Update tender attributes
// @Tags tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param body body TenderInput true "Tender"
// @Success 200 {object} Tender
// @Router /api/tenders/{id} [put]
func (c *TenderController) UpdateTender(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input TenderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	tender, err := c.Service.Update(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(tender)
}

type TransitionRequest struct {
	Status  lifecycle.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TransitionTender godoc
// @Summary Move a tender to a new status
// @Tags tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} Tender
// @Router /api/tenders/{id}/status [patch]
func (c *TenderController) TransitionTender(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	tender, err := c.Service.Transition(ctx.UserContext(), actor, ctx.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(tender)
}

// AddProposal godoc
// @Summary Record a vendor proposal on an active tender
// @Tags tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param body body ProposalInput true "Proposal"
// @Success 201 {object} Proposal
// @Router /api/tenders/{id}/proposals [post]
func (c *TenderController) AddProposal(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input ProposalInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	proposal, err := c.Service.AddProposal(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(proposal)
}

// ListProposals godoc
// @Summary List proposals on a tender
// @Tags tenders
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {array} Proposal
// @Router /api/tenders/{id}/proposals [get]
func (c *TenderController) ListProposals(ctx *fiber.Ctx) error {
	proposals, err := c.Service.ListProposals(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(proposals)
}

// EvaluateProposal godoc
// @Summary Score a proposal
// @Tags tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param pid path string true "Proposal ID"
// @Param body body EvaluationInput true "Evaluation"
// @Success 200 {object} Proposal
// @Router /api/tenders/{id}/proposals/{pid}/evaluation [put]
func (c *TenderController) EvaluateProposal(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var input EvaluationInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	proposal, err := c.Service.EvaluateProposal(ctx.UserContext(), actor, ctx.Params("id"), ctx.Params("pid"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(proposal)
}
