package attachment

import (
	"os"
	"path/filepath"

	"sourcevia/internal/config"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"

	"github.com/gofiber/fiber/v2"
)

type AttachmentController struct {
	Service   AttachmentService
	UploadDir string
}

func NewAttachmentController(service AttachmentService, cfg *config.Config) *AttachmentController {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &AttachmentController{
		Service:   service,
		UploadDir: cfg.FSPath,
	}
}

// Upload godoc
// @Summary Attach a file to an entity
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param module formData string true "Module name"
// @Param entity_id formData string true "Entity ID"
// @Success 201 {object} Attachment
// @Router /api/attachments [post]
func (c *AttachmentController) Upload(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Error retrieving file"})
	}

	a, err := c.Service.Register(ctx.UserContext(), actor, UploadInput{
		Filename: filepath.Base(file.Filename),
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
		Module:   permissions.Module(ctx.FormValue("module")),
		EntityID: ctx.FormValue("entity_id"),
	})
	if err != nil {
		return err
	}

	a.Path = filepath.Join(c.UploadDir, a.StoredName)
	if err := ctx.SaveFile(file, a.Path); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving file to disk"})
	}
	if err := c.Service.Commit(ctx.UserContext(), a); err != nil {
		os.Remove(a.Path)
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(a)
}

// ListForEntity godoc
// @Summary List attachments on an entity
// @Tags attachments
// @Produce json
// @Param module path string true "Module name"
// @Param entityId path string true "Entity ID"
// @Success 200 {array} Attachment
// @Router /api/attachments/{module}/{entityId} [get]
func (c *AttachmentController) ListForEntity(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	attachments, err := c.Service.ListForEntity(ctx.UserContext(), actor,
		permissions.Module(ctx.Params("module")), ctx.Params("entityId"))
	if err != nil {
		return err
	}
	return ctx.JSON(attachments)
}

// Download godoc
// @Summary Download an attachment
// @Tags attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID"
// @Success 200 {file} binary
// @Router /api/attachments/{id}/download [get]
func (c *AttachmentController) Download(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	a, err := c.Service.Get(ctx.UserContext(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.Download(a.Path, a.Filename)
}

// Delete godoc
// @Summary Delete an attachment
// @Tags attachments
// @Param id path string true "Attachment ID"
// @Success 204 "No Content"
// @Router /api/attachments/{id} [delete]
func (c *AttachmentController) Delete(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := c.Service.Delete(ctx.UserContext(), actor, ctx.Params("id")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
