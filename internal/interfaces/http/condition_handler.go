package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/application/license"
)

// ConditionHandler condiciones impuestas por la autoridad a una licencia.
type ConditionHandler struct {
	uc *license.LicenseUseCase
}

// NewConditionHandler construye el handler.
func NewConditionHandler(uc *license.LicenseUseCase) *ConditionHandler {
	return &ConditionHandler{uc: uc}
}

// conditionIDs lee :id y :cid de la ruta; ok=false si ya se respondió 400.
func conditionIDs(c *fiber.Ctx) (id, conditionID int64, ok bool, err error) {
	if id, ok = paramID(c, "id"); !ok {
		return 0, 0, false, badParam(c, "id")
	}
	if conditionID, ok = paramID(c, "cid"); !ok {
		return 0, 0, false, badParam(c, "cid")
	}
	return id, conditionID, true, nil
}

// Add godoc
// @Summary      Agregar condición
// @Tags         license-conditions
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID de la licencia"
// @Param        body  body  dto.ConditionRequest  true  "Condición"
// @Success      201   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/conditions [post]
func (h *ConditionHandler) Add(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.ConditionRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddCondition(c.UserContext(), GetCompanyID(c), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar condición
// @Tags         license-conditions
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID de la licencia"
// @Param        cid   path  int                   true  "ID de la condición"
// @Param        body  body  dto.ConditionRequest  true  "Condición"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/conditions/{cid} [put]
func (h *ConditionHandler) Update(c *fiber.Ctx) error {
	id, cid, ok, err := conditionIDs(c)
	if !ok {
		return err
	}
	var in dto.ConditionRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateCondition(c.UserContext(), GetCompanyID(c), GetActor(c), id, cid, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar condición
// @Tags         license-conditions
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Param        cid  path  int  true  "ID de la condición"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/conditions/{cid} [delete]
func (h *ConditionHandler) Remove(c *fiber.Ctx) error {
	id, cid, ok, err := conditionIDs(c)
	if !ok {
		return err
	}
	out, err := h.uc.RemoveCondition(c.UserContext(), GetCompanyID(c), GetActor(c), id, cid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Cambiar el estado de una condición
// @Tags         license-conditions
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true  "ID de la licencia"
// @Param        cid   path  int                         true  "ID de la condición"
// @Param        body  body  dto.ConditionStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/conditions/{cid}/status [post]
func (h *ConditionHandler) SetStatus(c *fiber.Ctx) error {
	id, cid, ok, err := conditionIDs(c)
	if !ok {
		return err
	}
	var in dto.ConditionStatusRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateConditionStatus(c.UserContext(), GetCompanyID(c), GetActor(c), id, cid, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Cumplir una condición con evidencia
// @Tags         license-conditions
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID de la licencia"
// @Param        cid   path  int                           true  "ID de la condición"
// @Param        body  body  dto.CompleteConditionRequest  true  "Evidencia"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/conditions/{cid}/complete [post]
func (h *ConditionHandler) Complete(c *fiber.Ctx) error {
	id, cid, ok, err := conditionIDs(c)
	if !ok {
		return err
	}
	var in dto.CompleteConditionRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.CompleteCondition(c.UserContext(), GetCompanyID(c), GetActor(c), id, cid, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
