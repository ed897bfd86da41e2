package entity

import "time"

// AuditAction tipo de acción registrada en la bitácora de la licencia.
type AuditAction string

const (
	AuditCreated            AuditAction = "CREATED"
	AuditUpdated            AuditAction = "UPDATED"
	AuditSubmitted          AuditAction = "SUBMITTED"
	AuditReviewStarted      AuditAction = "REVIEW_STARTED"
	AuditApproved           AuditAction = "APPROVED"
	AuditRejected           AuditAction = "REJECTED"
	AuditActivated          AuditAction = "ACTIVATED"
	AuditSuspended          AuditAction = "SUSPENDED"
	AuditReinstated         AuditAction = "REINSTATED"
	AuditRevoked            AuditAction = "REVOKED"
	AuditExpired            AuditAction = "EXPIRED"
	AuditDeleted            AuditAction = "DELETED"
	AuditConditionAdded     AuditAction = "CONDITION_ADDED"
	AuditConditionUpdated   AuditAction = "CONDITION_UPDATED"
	AuditConditionCompleted AuditAction = "CONDITION_COMPLETED"
	AuditConditionRemoved   AuditAction = "CONDITION_REMOVED"
	AuditAttachmentAdded    AuditAction = "ATTACHMENT_ADDED"
	AuditAttachmentRemoved  AuditAction = "ATTACHMENT_REMOVED"
	AuditRenewalInitiated   AuditAction = "RENEWAL_INITIATED"
	AuditRenewalApproved    AuditAction = "RENEWAL_APPROVED"
	AuditRenewalRejected    AuditAction = "RENEWAL_REJECTED"
)

// IsValid informa si la acción es conocida.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditCreated, AuditUpdated, AuditSubmitted, AuditReviewStarted, AuditApproved,
		AuditRejected, AuditActivated, AuditSuspended, AuditReinstated, AuditRevoked,
		AuditExpired, AuditDeleted, AuditConditionAdded, AuditConditionUpdated,
		AuditConditionCompleted, AuditConditionRemoved, AuditAttachmentAdded,
		AuditAttachmentRemoved, AuditRenewalInitiated, AuditRenewalApproved, AuditRenewalRejected:
		return true
	}
	return false
}

// AuditEntry registro inmutable de una acción sobre la licencia.
// ID = 0 indica que todavía no fue persistido.
type AuditEntry struct {
	ID          int64
	LicenseID   int64
	Action      AuditAction
	Description string
	PerformedBy string
	PerformedAt time.Time
}

// AuditFilter proyección de consulta sobre la bitácora. Campos vacíos no filtran.
type AuditFilter struct {
	From    *time.Time
	To      *time.Time
	Actions []AuditAction
}

// Match informa si la entrada cumple el filtro (rango cerrado [From, To]).
func (f AuditFilter) Match(e AuditEntry) bool {
	if f.From != nil && e.PerformedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.PerformedAt.After(*f.To) {
		return false
	}
	if len(f.Actions) == 0 {
		return true
	}
	for _, a := range f.Actions {
		if a == e.Action {
			return true
		}
	}
	return false
}

// FilterAuditTrail devuelve, en orden, las entradas que cumplen el filtro.
func FilterAuditTrail(entries []AuditEntry, f AuditFilter) []AuditEntry {
	out := make([]AuditEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
