package export

import (
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	Service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{Service: service}
}

// DownloadRegister godoc
// @Summary Download a module register as xlsx
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param module path string true "Module name"
// @Success 200 {file} binary
// @Router /api/export/{module} [get]
func (c *ExportController) DownloadRegister(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	payload, filename, err := c.Service.Register(ctx.UserContext(), actor, permissions.Module(ctx.Params("module")))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(payload)
}
