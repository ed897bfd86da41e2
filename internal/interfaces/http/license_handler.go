package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/application/license"
)

// LicenseHandler maneja el recurso License: alta, consulta, edición, listado y bitácora.
type LicenseHandler struct {
	uc *license.LicenseUseCase
}

// NewLicenseHandler construye el handler inyectando el caso de uso.
func NewLicenseHandler(uc *license.LicenseUseCase) *LicenseHandler {
	return &LicenseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear licencia (nace en DRAFT)
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLicenseRequest  true  "Datos de la licencia"
// @Success      201   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses [post]
func (h *LicenseHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateLicenseRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener licencia con condiciones, adjuntos y renovaciones
// @Tags         licenses
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id} [get]
func (h *LicenseHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar licencias
// @Tags         licenses
// @Produce      json
// @Param        status  query  string  false  "Estados separados por coma (ACTIVE,SUSPENDED)"
// @Param        type    query  string  false  "Tipo de licencia"
// @Param        q       query  string  false  "Texto en número o título"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.LicenseListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses [get]
func (h *LicenseHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	in, ok, err := parseListQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseListQuery lee los filtros de listado; ok=false si ya se respondió 400.
func parseListQuery(c *fiber.Ctx) (dto.LicenseListRequest, bool, error) {
	var in dto.LicenseListRequest
	if err := c.QueryParser(&in); err != nil {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	in.Type = strings.ToUpper(in.Type)
	in.Normalize()
	ok, err := validateStruct(c, &in)
	return in, ok, err
}

// Update godoc
// @Summary      Editar datos descriptivos (solo DRAFT o REJECTED)
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID de la licencia"
// @Param        body  body  dto.UpdateLicenseRequest  true  "Datos descriptivos"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id} [put]
func (h *LicenseHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.UpdateLicenseRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRegulatory godoc
// @Summary      Marco regulatorio de la licencia
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la licencia"
// @Param        body  body  dto.RegulatoryInfoRequest  true  "Marco regulatorio"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/regulatory [put]
func (h *LicenseHandler) SetRegulatory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.RegulatoryInfoRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetRegulatoryInformation(c.UserContext(), GetCompanyID(c), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRisk godoc
// @Summary      Riesgo, criticidad y seguro requerido
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la licencia"
// @Param        body  body  dto.RiskComplianceRequest  true  "Riesgo y seguro"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/risk [put]
func (h *LicenseHandler) SetRisk(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.RiskComplianceRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetRiskAndCompliance(c.UserContext(), GetCompanyID(c), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRenewalInfo godoc
// @Summary      Política de renovación
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID de la licencia"
// @Param        body  body  dto.RenewalInfoRequest  true  "Política de renovación"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/renewal-info [put]
func (h *LicenseHandler) SetRenewalInfo(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.RenewalInfoRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetRenewalInformation(c.UserContext(), GetCompanyID(c), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar licencia (la bitácora se conserva)
// @Tags         licenses
// @Param        id   path  int  true  "ID de la licencia"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id} [delete]
func (h *LicenseHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), GetActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Bitácora de la licencia
// @Tags         licenses
// @Produce      json
// @Param        id    path   int     true   "ID de la licencia"
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Param        kind  query  string  false  "Acciones separadas por coma (CREATED,APPROVED)"
// @Success      200   {object}  dto.HistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/history [get]
func (h *LicenseHandler) History(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.HistoryRequest
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &in.From}, {"to", &in.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: p.name + " debe ser RFC3339"})
		}
		*p.dst = &t
	}
	if kind := c.Query("kind"); kind != "" {
		in.Kind = strings.Split(kind, ",")
	}
	out, err := h.uc.History(c.UserContext(), GetCompanyID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
