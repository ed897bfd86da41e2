package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/application/license"
)

// AttachmentHandler adjuntos (resoluciones, actas, soportes) de una licencia.
type AttachmentHandler struct {
	uc *license.LicenseUseCase
}

// NewAttachmentHandler construye el handler.
func NewAttachmentHandler(uc *license.LicenseUseCase) *AttachmentHandler {
	return &AttachmentHandler{uc: uc}
}

// Upload godoc
// @Summary      Adjuntar archivo a la licencia
// @Tags         license-attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "ID de la licencia"
// @Param        file         formData  file    true   "Archivo"
// @Param        description  formData  string  false  "Descripción"
// @Success      201          {object}  dto.LicenseResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      409          {object}  dto.ErrorResponse
// @Failure      503          {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo 'file' es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	out, err := h.uc.AddAttachment(c.UserContext(), GetCompanyID(c), GetActor(c), id, dto.AttachmentUpload{
		FileName:    fh.Filename,
		ContentType: contentType,
		SizeBytes:   fh.Size,
		Description: c.FormValue("description"),
	}, f)
	if err != nil {
		return h.error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Download godoc
// @Summary      Descargar adjunto
// @Tags         license-attachments
// @Produce      octet-stream
// @Param        id   path  int  true  "ID de la licencia"
// @Param        aid  path  int  true  "ID del adjunto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/attachments/{aid} [get]
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	aid, ok := paramID(c, "aid")
	if !ok {
		return badParam(c, "aid")
	}
	a, rc, err := h.uc.OpenAttachment(c.UserContext(), GetCompanyID(c), id, aid)
	if err != nil {
		return h.error(c, err)
	}
	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.FileName))
	// fasthttp cierra el reader al terminar de enviar el cuerpo.
	return c.SendStream(rc, int(a.SizeBytes))
}

// Remove godoc
// @Summary      Quitar adjunto
// @Tags         license-attachments
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Param        aid  path  int  true  "ID del adjunto"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/attachments/{aid} [delete]
func (h *AttachmentHandler) Remove(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	aid, ok := paramID(c, "aid")
	if !ok {
		return badParam(c, "aid")
	}
	out, err := h.uc.RemoveAttachment(c.UserContext(), GetCompanyID(c), GetActor(c), id, aid)
	if err != nil {
		return h.error(c, err)
	}
	return c.JSON(out)
}

func (h *AttachmentHandler) error(c *fiber.Ctx, err error) error {
	if errors.Is(err, license.ErrStorageDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_DISABLED", Message: err.Error()})
	}
	return writeError(c, err)
}
