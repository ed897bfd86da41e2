package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/HSE-api/internal/application/report"
)

// ReportHandler documentos derivados: certificado PDF, expediente XML y registro XLSX.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Certificate godoc
// @Summary      Certificado PDF de la licencia (ACTIVE o PENDING_RENEWAL)
// @Tags         reports
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/certificate.pdf [get]
func (h *ReportHandler) Certificate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	doc, err := h.uc.Certificate(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc, "inline")
}

// Dossier godoc
// @Summary      Expediente regulatorio XML con digest de integridad
// @Tags         reports
// @Produce      application/xml
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/dossier.xml [get]
func (h *ReportHandler) Dossier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	doc, err := h.uc.Dossier(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc, "attachment")
}

// Register godoc
// @Summary      Registro de licencias en Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Estados separados por coma"
// @Param        type    query  string  false  "Tipo de licencia"
// @Param        q       query  string  false  "Texto en número o título"
// @Success      200     {file}    binary
// @Failure      400     {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/export.xlsx [get]
func (h *ReportHandler) Register(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	in, ok, err := parseListQuery(c)
	if !ok {
		return err
	}
	doc, err := h.uc.Register(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc, "attachment")
}

func sendDocument(c *fiber.Ctx, doc *report.Document, disposition string) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	return c.Send(doc.Body)
}
