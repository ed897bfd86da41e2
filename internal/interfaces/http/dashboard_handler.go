package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/HSE-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero de cumplimiento HSE.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetCompliance godoc
// @Summary      Tablero de cumplimiento de licencias
// @Description  Conteos por estado, licencias por vencer o vencidas sin barrer, condiciones
// @Description  obligatorias vencidas, advertencias y tasa de cumplimiento. Todo se calcula
// @Description  en el servidor con la hora actual; no requiere parámetros.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.ComplianceDashboardDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/dashboard/compliance [get]
func (h *DashboardHandler) GetCompliance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}

	summary, err := h.uc.GetCompliance(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(summary)
}
