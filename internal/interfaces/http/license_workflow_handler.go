package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/HSE-api/internal/application/dto"
)

type transitionFunc func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error)

// transition ejecuta una operación del ciclo de vida sobre la licencia de la ruta.
func (h *LicenseHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := fn(c.UserContext(), GetCompanyID(c), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Radicar la licencia ante la autoridad (DRAFT → SUBMITTED)
// @Tags         license-workflow
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/submit [post]
func (h *LicenseHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Submit)
}

// BeginReview godoc
// @Summary      Iniciar revisión (SUBMITTED → UNDER_REVIEW)
// @Tags         license-workflow
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/review [post]
func (h *LicenseHandler) BeginReview(c *fiber.Ctx) error {
	return h.transition(c, h.uc.BeginReview)
}

// Approve godoc
// @Summary      Aprobar la licencia
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int               true   "ID de la licencia"
// @Param        body  body  dto.NotesRequest  false  "Notas de aprobación"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/approve [post]
func (h *LicenseHandler) Approve(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if ok, err := parseOptional(c, &in); !ok {
		return err
	}
	return h.transition(c, func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
		return h.uc.Approve(ctx, companyID, actor, id, in.Notes)
	})
}

// Reject godoc
// @Summary      Rechazar la licencia (motivo obligatorio)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la licencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/reject [post]
func (h *LicenseHandler) Reject(c *fiber.Ctx) error {
	return h.withReason(c, func(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
		return h.uc.Reject(ctx, companyID, actor, id, reason)
	})
}

// Activate godoc
// @Summary      Activar la licencia aprobada
// @Tags         license-workflow
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/activate [post]
func (h *LicenseHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Activate)
}

// Suspend godoc
// @Summary      Suspender la licencia (motivo obligatorio)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la licencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/suspend [post]
func (h *LicenseHandler) Suspend(c *fiber.Ctx) error {
	return h.withReason(c, func(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
		return h.uc.Suspend(ctx, companyID, actor, id, reason)
	})
}

// Reinstate godoc
// @Summary      Levantar la suspensión (SUSPENDED → ACTIVE)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int               true   "ID de la licencia"
// @Param        body  body  dto.NotesRequest  false  "Notas"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/reinstate [post]
func (h *LicenseHandler) Reinstate(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if ok, err := parseOptional(c, &in); !ok {
		return err
	}
	return h.transition(c, func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
		return h.uc.Reinstate(ctx, companyID, actor, id, in.Notes)
	})
}

// Revoke godoc
// @Summary      Revocar la licencia (motivo obligatorio, estado terminal)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la licencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/revoke [post]
func (h *LicenseHandler) Revoke(c *fiber.Ctx) error {
	return h.withReason(c, func(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
		return h.uc.Revoke(ctx, companyID, actor, id, reason)
	})
}

// InitiateRenewal godoc
// @Summary      Abrir un ciclo de renovación (→ PENDING_RENEWAL)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true   "ID de la licencia"
// @Param        body  body  dto.InitiateRenewalRequest  false  "Notas y vencimiento propuesto"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/renewals [post]
func (h *LicenseHandler) InitiateRenewal(c *fiber.Ctx) error {
	var in dto.InitiateRenewalRequest
	if ok, err := parseOptional(c, &in); !ok {
		return err
	}
	return h.transition(c, func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
		return h.uc.InitiateRenewal(ctx, companyID, actor, id, in)
	})
}

// ApproveRenewal godoc
// @Summary      Aprobar la renovación con la nueva fecha de vencimiento
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la licencia"
// @Param        body  body  dto.ApproveRenewalRequest  true  "Nuevo vencimiento"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/renewals/approve [post]
func (h *LicenseHandler) ApproveRenewal(c *fiber.Ctx) error {
	var in dto.ApproveRenewalRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	return h.transition(c, func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
		return h.uc.ApproveRenewal(ctx, companyID, actor, id, in)
	})
}

// RejectRenewal godoc
// @Summary      Rechazar la renovación (motivo obligatorio)
// @Tags         license-workflow
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la licencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/renewals/reject [post]
func (h *LicenseHandler) RejectRenewal(c *fiber.Ctx) error {
	return h.withReason(c, func(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
		return h.uc.RejectRenewal(ctx, companyID, actor, id, reason)
	})
}

// Expire godoc
// @Summary      Marcar como vencida una licencia cuya fecha ya pasó
// @Tags         license-workflow
// @Produce      json
// @Param        id   path  int  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/licenses/{id}/expire [post]
func (h *LicenseHandler) Expire(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Expire)
}

// withReason lee el motivo del cuerpo; su obligatoriedad la decide el dominio
// (el estado se valida antes que el motivo).
func (h *LicenseHandler) withReason(c *fiber.Ctx, fn func(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error)) error {
	var in dto.ReasonRequest
	if ok, err := parseOptional(c, &in); !ok {
		return err
	}
	return h.transition(c, func(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
		return fn(ctx, companyID, actor, id, in.Reason)
	})
}
