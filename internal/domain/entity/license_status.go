package entity

import "github.com/jhoicas/HSE-api/internal/domain"

// LicenseStatus estado del ciclo de vida de una licencia (enumeración cerrada).
type LicenseStatus string

const (
	LicenseStatusDraft          LicenseStatus = "DRAFT"
	LicenseStatusSubmitted      LicenseStatus = "SUBMITTED"
	LicenseStatusUnderReview    LicenseStatus = "UNDER_REVIEW"
	LicenseStatusApproved       LicenseStatus = "APPROVED"
	LicenseStatusActive         LicenseStatus = "ACTIVE"
	LicenseStatusSuspended      LicenseStatus = "SUSPENDED"
	LicenseStatusPendingRenewal LicenseStatus = "PENDING_RENEWAL"
	LicenseStatusRejected       LicenseStatus = "REJECTED"
	LicenseStatusRevoked        LicenseStatus = "REVOKED"
	LicenseStatusExpired        LicenseStatus = "EXPIRED"
)

// AllLicenseStatuses devuelve la enumeración completa en orden de ciclo de vida.
func AllLicenseStatuses() []LicenseStatus {
	return []LicenseStatus{
		LicenseStatusDraft, LicenseStatusSubmitted, LicenseStatusUnderReview,
		LicenseStatusApproved, LicenseStatusActive, LicenseStatusSuspended,
		LicenseStatusPendingRenewal, LicenseStatusRejected, LicenseStatusRevoked,
		LicenseStatusExpired,
	}
}

// IsValid informa si el estado pertenece a la enumeración.
func (s LicenseStatus) IsValid() bool {
	for _, st := range AllLicenseStatuses() {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal Revoked y Expired no admiten más transiciones.
func (s LicenseStatus) IsTerminal() bool {
	return s == LicenseStatusRevoked || s == LicenseStatusExpired
}

// IsEditable solo Draft y Rejected admiten cambios de contenido.
func (s LicenseStatus) IsEditable() bool {
	return s == LicenseStatusDraft || s == LicenseStatusRejected
}

// LicenseOperation operación del agregado sujeta a la tabla de transiciones o a las compuertas de edición.
type LicenseOperation string

const (
	OpSubmit          LicenseOperation = "submit"
	OpBeginReview     LicenseOperation = "begin_review"
	OpApprove         LicenseOperation = "approve"
	OpReject          LicenseOperation = "reject"
	OpActivate        LicenseOperation = "activate"
	OpSuspend         LicenseOperation = "suspend"
	OpReinstate       LicenseOperation = "reinstate"
	OpRevoke          LicenseOperation = "revoke"
	OpInitiateRenewal LicenseOperation = "initiate_renewal"
	OpApproveRenewal  LicenseOperation = "approve_renewal"
	OpRejectRenewal   LicenseOperation = "reject_renewal"
	OpExpire          LicenseOperation = "expire"

	// Operaciones que no cambian de estado pero dependen de él.
	OpUpdate                LicenseOperation = "update"
	OpDelete                LicenseOperation = "delete"
	OpAddCondition          LicenseOperation = "add_condition"
	OpUpdateCondition       LicenseOperation = "update_condition"
	OpRemoveCondition       LicenseOperation = "remove_condition"
	OpUpdateConditionStatus LicenseOperation = "update_condition_status"
	OpCompleteCondition     LicenseOperation = "complete_condition"
	OpAddAttachment         LicenseOperation = "add_attachment"
	OpRemoveAttachment      LicenseOperation = "remove_attachment"
)

type licenseTransition struct {
	Op  LicenseOperation
	Src []LicenseStatus
	Dst LicenseStatus
}

// licenseTransitions es la matriz completa de cambios de estado. Cualquier par (estado, operación)
// ausente es ilegal.
var licenseTransitions = []licenseTransition{
	{Op: OpSubmit, Src: []LicenseStatus{LicenseStatusDraft, LicenseStatusRejected}, Dst: LicenseStatusSubmitted},
	{Op: OpBeginReview, Src: []LicenseStatus{LicenseStatusSubmitted}, Dst: LicenseStatusUnderReview},
	{Op: OpApprove, Src: []LicenseStatus{LicenseStatusSubmitted, LicenseStatusUnderReview}, Dst: LicenseStatusApproved},
	{Op: OpReject, Src: []LicenseStatus{LicenseStatusSubmitted, LicenseStatusUnderReview}, Dst: LicenseStatusRejected},
	{Op: OpActivate, Src: []LicenseStatus{LicenseStatusApproved}, Dst: LicenseStatusActive},
	{Op: OpSuspend, Src: []LicenseStatus{LicenseStatusActive}, Dst: LicenseStatusSuspended},
	{Op: OpReinstate, Src: []LicenseStatus{LicenseStatusSuspended}, Dst: LicenseStatusActive},
	{Op: OpRevoke, Src: []LicenseStatus{
		LicenseStatusDraft, LicenseStatusSubmitted, LicenseStatusUnderReview, LicenseStatusApproved,
		LicenseStatusActive, LicenseStatusSuspended, LicenseStatusPendingRenewal, LicenseStatusRejected,
	}, Dst: LicenseStatusRevoked},
	{Op: OpInitiateRenewal, Src: []LicenseStatus{LicenseStatusActive}, Dst: LicenseStatusPendingRenewal},
	{Op: OpApproveRenewal, Src: []LicenseStatus{LicenseStatusPendingRenewal}, Dst: LicenseStatusActive},
	{Op: OpRejectRenewal, Src: []LicenseStatus{LicenseStatusPendingRenewal}, Dst: LicenseStatusActive},
	{Op: OpExpire, Src: []LicenseStatus{LicenseStatusActive, LicenseStatusSuspended, LicenseStatusPendingRenewal}, Dst: LicenseStatusExpired},
}

// Transition devuelve el estado destino de aplicar op sobre from, o un StateTransitionError
// si el par no figura en la tabla.
func Transition(from LicenseStatus, op LicenseOperation) (LicenseStatus, error) {
	for _, t := range licenseTransitions {
		if t.Op != op {
			continue
		}
		for _, src := range t.Src {
			if src == from {
				return t.Dst, nil
			}
		}
	}
	return from, domain.NewStateTransitionError(string(from), string(op))
}

// CanTransition informa si op es legal desde from.
func CanTransition(from LicenseStatus, op LicenseOperation) bool {
	_, err := Transition(from, op)
	return err == nil
}

// StatusesAllowing estados desde los que op es legal, en orden de ciclo de vida.
// El barrido de vencimientos consulta con StatusesAllowing(OpExpire).
func StatusesAllowing(op LicenseOperation) []LicenseStatus {
	var out []LicenseStatus
	for _, s := range AllLicenseStatuses() {
		if CanTransition(s, op) {
			out = append(out, s)
		}
	}
	return out
}

// AvailableOperations operaciones de cambio de estado legales desde s (en orden de tabla).
func AvailableOperations(s LicenseStatus) []LicenseOperation {
	var ops []LicenseOperation
	for _, t := range licenseTransitions {
		for _, src := range t.Src {
			if src == s {
				ops = append(ops, t.Op)
				break
			}
		}
	}
	return ops
}
