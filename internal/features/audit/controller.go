package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit log entries
// @Description Lists audit entries, newest first, optionally filtered by module, entity or actor
// @Tags audit
// @Produce json
// @Param module query string false "Module name"
// @Param entity_id query string false "Entity ID"
// @Param actor_id query string false "Actor ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {array} Log
// @Router /api/audit [get]
func (c *AuditController) ListLogs(ctx *fiber.Ctx) error {
	filter := map[string]interface{}{}
	if v := ctx.Query("module"); v != "" {
		filter["module"] = v
	}
	if v := ctx.Query("entity_id"); v != "" {
		filter["entity_id"] = v
	}
	if v := ctx.Query("actor_id"); v != "" {
		filter["actor_id"] = v
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)

	logs, err := c.Service.ListLogs(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(logs)
}
