package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/HSE-api/internal/domain"
)

// ConditionStatus estado de una condición de cumplimiento.
// Overdue nunca se almacena: se deriva de DueDate (ver DisplayStatus).
type ConditionStatus string

const (
	ConditionPending    ConditionStatus = "PENDING"
	ConditionInProgress ConditionStatus = "IN_PROGRESS"
	ConditionCompleted  ConditionStatus = "COMPLETED"
	ConditionOverdue    ConditionStatus = "OVERDUE"
	ConditionWaived     ConditionStatus = "WAIVED"
)

// IsValid informa si el estado es conocido (incluye Overdue, que solo es de presentación).
func (s ConditionStatus) IsValid() bool {
	switch s {
	case ConditionPending, ConditionInProgress, ConditionCompleted, ConditionOverdue, ConditionWaived:
		return true
	}
	return false
}

// IsClosed Completed y Waived ya no pueden vencer.
func (s ConditionStatus) IsClosed() bool {
	return s == ConditionCompleted || s == ConditionWaived
}

// conditionMoves movimientos admitidos entre estados almacenados.
var conditionMoves = map[ConditionStatus][]ConditionStatus{
	ConditionPending:    {ConditionInProgress, ConditionCompleted, ConditionWaived},
	ConditionInProgress: {ConditionPending, ConditionCompleted, ConditionWaived},
	ConditionCompleted:  {ConditionInProgress},
	ConditionWaived:     {ConditionPending},
}

// CanMoveCondition informa si from → to es un movimiento permitido.
func CanMoveCondition(from, to ConditionStatus) bool {
	for _, s := range conditionMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

// LicenseCondition obligación de cumplimiento asociada a una licencia.
// Solo el agregado License la modifica. Mientras no se persiste lleva un ID provisional negativo.
type LicenseCondition struct {
	ID                 int64
	LicenseID          int64
	ConditionType      string
	Description        string
	IsMandatory        bool
	DueDate            *time.Time
	Status             ConditionStatus
	ComplianceEvidence string
	ComplianceDate     *time.Time
	VerifiedBy         string
	ResponsiblePerson  string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsNew informa si la condición aún no fue persistida.
func (c LicenseCondition) IsNew() bool { return c.ID <= 0 }

// ConditionParams datos de alta o edición de una condición.
type ConditionParams struct {
	ConditionType     string
	Description       string
	IsMandatory       bool
	DueDate           *time.Time
	ResponsiblePerson string
	Notes             string
}

func (p ConditionParams) validate() error {
	if strings.TrimSpace(p.ConditionType) == "" {
		return domain.NewValidationError("condition_type", "requerido")
	}
	if strings.TrimSpace(p.Description) == "" {
		return domain.NewValidationError("description", "requerido")
	}
	return nil
}

// IsOverdue condición vencida: tiene fecha límite pasada y no está cerrada.
func (c LicenseCondition) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && c.DueDate.Before(now) && !c.Status.IsClosed()
}

// DisplayStatus estado a mostrar: Overdue cuando vence, el almacenado en otro caso.
func (c LicenseCondition) DisplayStatus(now time.Time) ConditionStatus {
	if c.IsOverdue(now) {
		return ConditionOverdue
	}
	return c.Status
}

// moveTo valida y aplica un cambio de estado sin tocar la bitácora (lo hace el agregado).
func (c *LicenseCondition) moveTo(to ConditionStatus, now time.Time) error {
	if to == ConditionOverdue || !to.IsValid() {
		return domain.NewValidationError("status", "estado destino no admitido")
	}
	if !CanMoveCondition(c.Status, to) {
		return domain.NewStateTransitionError(string(c.Status), "move_to_"+strings.ToLower(string(to)))
	}
	if to == ConditionCompleted && strings.TrimSpace(c.ComplianceEvidence) == "" {
		return domain.NewValidationError("compliance_evidence", "requerida para completar")
	}
	c.Status = to
	c.UpdatedAt = now
	return nil
}
