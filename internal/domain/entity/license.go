package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/HSE-api/internal/domain"
)

// DefaultCurrency moneda usada cuando no se informa una.
const DefaultCurrency = "USD"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// License agregado raíz de una licencia/permiso regulatorio y su ciclo de vida completo.
//
// Los campos exportados son de solo lectura fuera de este paquete: los casos de uso cargan el
// agregado, invocan exactamente un método y lo persisten. Las colecciones hijas solo se exponen
// como copias.
type License struct {
	ID            int64
	CompanyID     string
	LicenseNumber string

	Type      LicenseType
	Priority  Priority
	RiskLevel RiskLevel

	Title                 string
	Description           string
	Scope                 string
	Restrictions          string
	ConditionsSummary     string
	RegulatoryFramework   string
	ApplicableRegulations string
	ComplianceStandards   string
	StatusNotes           string

	IssuingAuthority        string
	IssuingAuthorityContact string
	HolderID                string
	HolderName              string
	Department              string

	IssuedDate    time.Time
	ExpiryDate    time.Time
	SubmittedDate *time.Time
	ApprovedDate  *time.Time
	ActivatedDate *time.Time
	SuspendedDate *time.Time
	RevokedDate   *time.Time
	RejectedDate  *time.Time
	ExpiredDate   *time.Time

	ApprovalNotes    string
	RejectionReason  string
	SuspensionReason string
	RevocationReason string

	RenewalRequired   bool
	RenewalPeriodDays int
	NextRenewalDate   *time.Time
	AutoRenewal       bool
	RenewalProcedure  string

	LicenseFee              decimal.Decimal
	Currency                string
	IsCriticalLicense       bool
	RequiresInsurance       bool
	RequiredInsuranceAmount decimal.Decimal

	Status    LicenseStatus
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	conditions  []LicenseCondition
	attachments []LicenseAttachment
	renewals    []LicenseRenewal
	auditTrail  []AuditEntry

	removedConditionIDs  []int64
	removedAttachmentIDs []int64
	deleted              bool

	// lastProvisionalID últimos IDs provisionales (negativos) entregados a hijos sin persistir.
	lastProvisionalID int64
}

// NewLicenseParams datos de alta de una licencia. LicenseNumber lo asigna la persistencia.
type NewLicenseParams struct {
	CompanyID     string
	LicenseNumber string
	Type          LicenseType
	Priority      Priority
	RiskLevel     RiskLevel

	Title             string
	Description       string
	Scope             string
	Restrictions      string
	ConditionsSummary string

	IssuingAuthority        string
	IssuingAuthorityContact string
	HolderID                string
	HolderName              string
	Department              string

	IssuedDate time.Time
	ExpiryDate time.Time

	RenewalRequired   bool
	RenewalPeriodDays int
	AutoRenewal       bool
	RenewalProcedure  string

	LicenseFee              decimal.Decimal
	Currency                string
	IsCriticalLicense       bool
	RequiresInsurance       bool
	RequiredInsuranceAmount decimal.Decimal
}

// NewLicense crea una licencia en Draft y registra la entrada Created.
func NewLicense(p NewLicenseParams, actor string, now time.Time) (*License, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.CompanyID) == "" {
		return nil, domain.NewValidationError("company_id", "requerido")
	}
	if strings.TrimSpace(p.LicenseNumber) == "" {
		return nil, domain.NewValidationError("license_number", "requerido")
	}
	if !p.Type.IsValid() {
		return nil, domain.NewValidationError("license_type", "tipo de licencia desconocido")
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if p.RiskLevel == "" {
		p.RiskLevel = RiskLow
	}
	if !p.RiskLevel.IsValid() {
		return nil, domain.NewValidationError("risk_level", "nivel de riesgo desconocido")
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	details := LicenseDetails{
		Title:                   p.Title,
		Description:             p.Description,
		Scope:                   p.Scope,
		Restrictions:            p.Restrictions,
		ConditionsSummary:       p.ConditionsSummary,
		Priority:                p.Priority,
		IssuingAuthority:        p.IssuingAuthority,
		IssuingAuthorityContact: p.IssuingAuthorityContact,
		HolderID:                p.HolderID,
		HolderName:              p.HolderName,
		Department:              p.Department,
		IssuedDate:              p.IssuedDate,
		ExpiryDate:              p.ExpiryDate,
		LicenseFee:              p.LicenseFee,
		Currency:                p.Currency,
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	if err := validateRenewalPolicy(p.RenewalRequired, p.RenewalPeriodDays); err != nil {
		return nil, err
	}
	if p.RequiredInsuranceAmount.IsNegative() {
		return nil, domain.NewValidationError("required_insurance_amount", "no puede ser negativo")
	}

	l := &License{
		CompanyID:               p.CompanyID,
		LicenseNumber:           p.LicenseNumber,
		Type:                    p.Type,
		RiskLevel:               p.RiskLevel,
		RenewalRequired:         p.RenewalRequired,
		RenewalPeriodDays:       p.RenewalPeriodDays,
		AutoRenewal:             p.AutoRenewal,
		RenewalProcedure:        p.RenewalProcedure,
		IsCriticalLicense:       p.IsCriticalLicense,
		RequiresInsurance:       p.RequiresInsurance,
		RequiredInsuranceAmount: p.RequiredInsuranceAmount,
		Status:                  LicenseStatusDraft,
		CreatedBy:               actor,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	l.applyDetails(details)
	l.recordAudit(AuditCreated, fmt.Sprintf("Licencia %s creada", l.LicenseNumber), actor, now)
	return l, nil
}

// ─── Actualización de contenido (solo Draft / Rejected) ──────────────────────

// LicenseDetails campos descriptivos editables.
type LicenseDetails struct {
	Title                   string
	Description             string
	Scope                   string
	Restrictions            string
	ConditionsSummary       string
	StatusNotes             string
	Priority                Priority
	IssuingAuthority        string
	IssuingAuthorityContact string
	HolderID                string
	HolderName              string
	Department              string
	IssuedDate              time.Time
	ExpiryDate              time.Time
	LicenseFee              decimal.Decimal
	Currency                string
}

func (d LicenseDetails) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return domain.NewValidationError("title", "requerido")
	}
	if !d.Priority.IsValid() {
		return domain.NewValidationError("priority", "prioridad desconocida")
	}
	if d.IssuedDate.IsZero() || d.ExpiryDate.IsZero() {
		return domain.NewValidationError("expiry_date", "fechas de emisión y vencimiento requeridas")
	}
	if !d.ExpiryDate.After(d.IssuedDate) {
		return domain.NewValidationError("expiry_date", "debe ser posterior a la fecha de emisión")
	}
	if d.LicenseFee.IsNegative() {
		return domain.NewValidationError("license_fee", "no puede ser negativo")
	}
	if !currencyPattern.MatchString(d.Currency) {
		return domain.NewValidationError("currency", "código ISO-4217 de 3 letras")
	}
	return nil
}

func (l *License) applyDetails(d LicenseDetails) {
	l.Title = strings.TrimSpace(d.Title)
	l.Description = d.Description
	l.Scope = d.Scope
	l.Restrictions = d.Restrictions
	l.ConditionsSummary = d.ConditionsSummary
	l.StatusNotes = d.StatusNotes
	l.Priority = d.Priority
	l.IssuingAuthority = d.IssuingAuthority
	l.IssuingAuthorityContact = d.IssuingAuthorityContact
	l.HolderID = d.HolderID
	l.HolderName = d.HolderName
	l.Department = d.Department
	l.IssuedDate = d.IssuedDate
	l.ExpiryDate = d.ExpiryDate
	l.LicenseFee = d.LicenseFee
	l.Currency = d.Currency
	l.NextRenewalDate = ComputeNextRenewalDate(l.ExpiryDate, l.RenewalPeriodDays)
}

// UpdateDetails reemplaza los campos descriptivos. Solo en Draft o Rejected.
func (l *License) UpdateDetails(d LicenseDetails, actor string, now time.Time) error {
	if err := l.requireEditable(OpUpdate, actor); err != nil {
		return err
	}
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if err := d.validate(); err != nil {
		return err
	}
	l.applyDetails(d)
	l.recordAudit(AuditUpdated, "Detalles de la licencia actualizados", actor, now)
	return nil
}

// SetRegulatoryInformation marco regulatorio, normas aplicables y estándares. Solo en Draft o Rejected.
func (l *License) SetRegulatoryInformation(framework, regulations, standards, actor string, now time.Time) error {
	if err := l.requireEditable(OpUpdate, actor); err != nil {
		return err
	}
	l.RegulatoryFramework = framework
	l.ApplicableRegulations = regulations
	l.ComplianceStandards = standards
	l.recordAudit(AuditUpdated, "Información regulatoria actualizada", actor, now)
	return nil
}

// SetRiskAndCompliance riesgo, criticidad y seguro. Una licencia crítica sin seguro se admite
// aquí y se reporta en ComplianceWarnings.
func (l *License) SetRiskAndCompliance(risk RiskLevel, critical, requiresInsurance bool, insuranceAmount decimal.Decimal, actor string, now time.Time) error {
	if err := l.requireEditable(OpUpdate, actor); err != nil {
		return err
	}
	if !risk.IsValid() {
		return domain.NewValidationError("risk_level", "nivel de riesgo desconocido")
	}
	if insuranceAmount.IsNegative() {
		return domain.NewValidationError("required_insurance_amount", "no puede ser negativo")
	}
	l.RiskLevel = risk
	l.IsCriticalLicense = critical
	l.RequiresInsurance = requiresInsurance
	l.RequiredInsuranceAmount = insuranceAmount
	l.recordAudit(AuditUpdated, fmt.Sprintf("Riesgo y cumplimiento actualizados (riesgo %s)", risk), actor, now)
	return nil
}

// SetRenewalInformation política de renovación; recalcula NextRenewalDate.
func (l *License) SetRenewalInformation(required bool, periodDays int, autoRenewal bool, procedure, actor string, now time.Time) error {
	if err := l.requireEditable(OpUpdate, actor); err != nil {
		return err
	}
	if err := validateRenewalPolicy(required, periodDays); err != nil {
		return err
	}
	l.RenewalRequired = required
	l.RenewalPeriodDays = periodDays
	l.AutoRenewal = autoRenewal
	l.RenewalProcedure = procedure
	l.NextRenewalDate = ComputeNextRenewalDate(l.ExpiryDate, l.RenewalPeriodDays)
	l.recordAudit(AuditUpdated, fmt.Sprintf("Información de renovación actualizada (%d días)", periodDays), actor, now)
	return nil
}

func validateRenewalPolicy(required bool, periodDays int) error {
	if periodDays < 0 {
		return domain.NewValidationError("renewal_period_days", "no puede ser negativo")
	}
	if required && periodDays == 0 {
		return domain.NewValidationError("renewal_period_days", "requerido cuando la renovación es obligatoria")
	}
	return nil
}

// ─── Transiciones de estado ──────────────────────────────────────────────────

// Submit envía la licencia a revisión (desde Draft o reenvío desde Rejected).
func (l *License) Submit(actor string, now time.Time) error {
	dst, err := l.transition(OpSubmit, actor)
	if err != nil {
		return err
	}
	resubmission := l.Status == LicenseStatusRejected
	l.Status = dst
	setOnce(&l.SubmittedDate, now)
	if resubmission {
		l.recordAudit(AuditSubmitted, "Licencia reenviada a revisión tras rechazo", actor, now)
		return nil
	}
	l.recordAudit(AuditSubmitted, "Licencia enviada a revisión", actor, now)
	return nil
}

// BeginReview marca el inicio de la evaluación por la autoridad.
func (l *License) BeginReview(actor string, now time.Time) error {
	dst, err := l.transition(OpBeginReview, actor)
	if err != nil {
		return err
	}
	l.Status = dst
	l.recordAudit(AuditReviewStarted, "Revisión iniciada", actor, now)
	return nil
}

// Approve aprueba la licencia; las notas son opcionales.
func (l *License) Approve(actor, notes string, now time.Time) error {
	dst, err := l.transition(OpApprove, actor)
	if err != nil {
		return err
	}
	l.Status = dst
	l.ApprovalNotes = notes
	setOnce(&l.ApprovedDate, now)
	l.recordAudit(AuditApproved, withNotes("Licencia aprobada", notes), actor, now)
	return nil
}

// Reject rechaza la licencia; el motivo es obligatorio.
func (l *License) Reject(actor, reason string, now time.Time) error {
	dst, err := l.transition(OpReject, actor)
	if err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	l.Status = dst
	l.RejectionReason = reason
	l.RejectedDate = &now
	l.recordAudit(AuditRejected, "Licencia rechazada: "+reason, actor, now)
	return nil
}

// Activate pone en vigor una licencia aprobada. Las condiciones pendientes no bloquean la activación.
func (l *License) Activate(actor string, now time.Time) error {
	dst, err := l.transition(OpActivate, actor)
	if err != nil {
		return err
	}
	l.Status = dst
	setOnce(&l.ActivatedDate, now)
	l.recordAudit(AuditActivated, "Licencia activada", actor, now)
	return nil
}

// Suspend suspende una licencia activa; el motivo es obligatorio.
func (l *License) Suspend(actor, reason string, now time.Time) error {
	dst, err := l.transition(OpSuspend, actor)
	if err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	l.Status = dst
	l.SuspensionReason = reason
	setOnce(&l.SuspendedDate, now)
	l.recordAudit(AuditSuspended, "Licencia suspendida: "+reason, actor, now)
	return nil
}

// Reinstate levanta la suspensión.
func (l *License) Reinstate(actor, notes string, now time.Time) error {
	dst, err := l.transition(OpReinstate, actor)
	if err != nil {
		return err
	}
	l.Status = dst
	l.recordAudit(AuditReinstated, withNotes("Suspensión levantada", notes), actor, now)
	return nil
}

// Revoke revoca la licencia desde cualquier estado no terminal; el motivo es obligatorio.
func (l *License) Revoke(actor, reason string, now time.Time) error {
	dst, err := l.transition(OpRevoke, actor)
	if err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	l.closePendingRenewal(actor, "cerrada por revocación", now)
	l.Status = dst
	l.RevocationReason = reason
	setOnce(&l.RevokedDate, now)
	l.recordAudit(AuditRevoked, "Licencia revocada: "+reason, actor, now)
	return nil
}

// InitiateRenewal abre un ciclo de renovación. La licencia sigue vigente hasta su ExpiryDate;
// la fecha solo cambia al aprobarse la renovación.
func (l *License) InitiateRenewal(actor, notes string, proposedExpiry *time.Time, now time.Time) error {
	dst, err := l.transition(OpInitiateRenewal, actor)
	if err != nil {
		return err
	}
	if proposedExpiry != nil && !proposedExpiry.After(l.ExpiryDate) {
		return domain.NewValidationError("proposed_expiry_date", "debe ser posterior al vencimiento vigente")
	}
	r := LicenseRenewal{
		LicenseID:          l.ID,
		Sequence:           len(l.renewals) + 1,
		Status:             RenewalPending,
		RequestedAt:        now,
		RequestedBy:        actor,
		ProposedExpiryDate: copyTime(proposedExpiry),
		Notes:              notes,
		PreviousExpiryDate: l.ExpiryDate,
	}
	l.renewals = append(l.renewals, r)
	l.Status = dst
	l.recordAudit(AuditRenewalInitiated, withNotes(fmt.Sprintf("Renovación #%d iniciada", r.Sequence), notes), actor, now)
	return nil
}

// ApproveRenewal cierra la renovación pendiente con una nueva fecha de vencimiento.
func (l *License) ApproveRenewal(actor string, newExpiry time.Time, notes string, now time.Time) error {
	dst, err := l.transition(OpApproveRenewal, actor)
	if err != nil {
		return err
	}
	if !newExpiry.After(l.ExpiryDate) {
		return domain.NewValidationError("new_expiry_date", "debe ser posterior al vencimiento vigente")
	}
	idx := l.pendingRenewalIndex()
	if idx < 0 {
		return domain.NewStateTransitionError(string(l.Status), string(OpApproveRenewal))
	}
	r := &l.renewals[idx]
	r.Status = RenewalApproved
	r.DecidedAt = &now
	r.DecidedBy = actor
	r.DecisionNotes = notes
	r.NewExpiryDate = &newExpiry

	previous := l.ExpiryDate
	l.ExpiryDate = newExpiry
	l.NextRenewalDate = ComputeNextRenewalDate(l.ExpiryDate, l.RenewalPeriodDays)
	l.Status = dst
	l.recordAudit(AuditRenewalApproved, withNotes(fmt.Sprintf("Renovación #%d aprobada: vencimiento %s → %s",
		r.Sequence, previous.Format(time.DateOnly), newExpiry.Format(time.DateOnly)), notes), actor, now)
	return nil
}

// RejectRenewal rechaza la renovación pendiente. La licencia vuelve a Active, o pasa a Expired si
// su vencimiento ya pasó.
func (l *License) RejectRenewal(actor, reason string, now time.Time) error {
	dst, err := l.transition(OpRejectRenewal, actor)
	if err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	expired := now.After(l.ExpiryDate)
	if expired {
		if dst, err = Transition(l.Status, OpExpire); err != nil {
			return err
		}
	}
	idx := l.pendingRenewalIndex()
	if idx < 0 {
		return domain.NewStateTransitionError(string(l.Status), string(OpRejectRenewal))
	}
	r := &l.renewals[idx]
	r.Status = RenewalRejected
	r.DecidedAt = &now
	r.DecidedBy = actor
	r.DecisionNotes = reason

	l.Status = dst
	desc := fmt.Sprintf("Renovación #%d rechazada: %s", r.Sequence, reason)
	if expired {
		setOnce(&l.ExpiredDate, now)
		desc += " (licencia vencida)"
	}
	l.recordAudit(AuditRenewalRejected, desc, actor, now)
	return nil
}

// Expire marca como vencida una licencia cuya ExpiryDate ya pasó.
func (l *License) Expire(actor string, now time.Time) error {
	dst, err := l.transition(OpExpire, actor)
	if err != nil {
		return err
	}
	if !now.After(l.ExpiryDate) {
		return domain.NewValidationError("expiry_date", "la licencia aún no ha vencido")
	}
	l.closePendingRenewal(actor, "cerrada por vencimiento", now)
	l.Status = dst
	setOnce(&l.ExpiredDate, now)
	l.recordAudit(AuditExpired, fmt.Sprintf("Licencia vencida el %s", l.ExpiryDate.Format(time.DateOnly)), actor, now)
	return nil
}

// Delete marca la licencia para eliminación definitiva. Solo en Draft.
// La entrada Deleted se persiste aunque la fila de la licencia desaparezca.
func (l *License) Delete(actor string, now time.Time) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if l.Status != LicenseStatusDraft {
		return domain.NewStateTransitionError(string(l.Status), string(OpDelete))
	}
	l.deleted = true
	l.recordAudit(AuditDeleted, fmt.Sprintf("Licencia %s eliminada", l.LicenseNumber), actor, now)
	return nil
}

// IsDeleted informa si Delete fue aplicado.
func (l *License) IsDeleted() bool { return l.deleted }

// ─── Condiciones ─────────────────────────────────────────────────────────────

// AddCondition agrega una condición en Pending. Solo en Draft o Rejected.
func (l *License) AddCondition(p ConditionParams, actor string, now time.Time) (LicenseCondition, error) {
	if err := l.requireEditable(OpAddCondition, actor); err != nil {
		return LicenseCondition{}, err
	}
	if err := p.validate(); err != nil {
		return LicenseCondition{}, err
	}
	c := LicenseCondition{
		ID:                l.nextProvisionalID(),
		LicenseID:         l.ID,
		ConditionType:     strings.TrimSpace(p.ConditionType),
		Description:       strings.TrimSpace(p.Description),
		IsMandatory:       p.IsMandatory,
		DueDate:           copyTime(p.DueDate),
		Status:            ConditionPending,
		ResponsiblePerson: p.ResponsiblePerson,
		Notes:             p.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	l.conditions = append(l.conditions, c)
	l.recordAudit(AuditConditionAdded, "Condición agregada: "+c.Description, actor, now)
	return c, nil
}

// UpdateConditionDetails edita los datos descriptivos de una condición. Solo en Draft o Rejected.
func (l *License) UpdateConditionDetails(conditionID int64, p ConditionParams, actor string, now time.Time) error {
	if err := l.requireEditable(OpUpdateCondition, actor); err != nil {
		return err
	}
	idx, err := l.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	c := &l.conditions[idx]
	c.ConditionType = strings.TrimSpace(p.ConditionType)
	c.Description = strings.TrimSpace(p.Description)
	c.IsMandatory = p.IsMandatory
	c.DueDate = copyTime(p.DueDate)
	c.ResponsiblePerson = p.ResponsiblePerson
	c.Notes = p.Notes
	c.UpdatedAt = now
	l.recordAudit(AuditConditionUpdated, "Condición editada: "+c.Description, actor, now)
	return nil
}

// RemoveCondition elimina una condición. Solo en Draft o Rejected.
func (l *License) RemoveCondition(conditionID int64, actor string, now time.Time) error {
	if err := l.requireEditable(OpRemoveCondition, actor); err != nil {
		return err
	}
	idx, err := l.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	removed := l.conditions[idx]
	l.conditions = append(l.conditions[:idx:idx], l.conditions[idx+1:]...)
	if !removed.IsNew() {
		l.removedConditionIDs = append(l.removedConditionIDs, removed.ID)
	}
	l.recordAudit(AuditConditionRemoved, "Condición eliminada: "+removed.Description, actor, now)
	return nil
}

// UpdateConditionStatus mueve la condición a newStatus. Se admite mientras la licencia no sea
// terminal: las condiciones son obligaciones continuas.
func (l *License) UpdateConditionStatus(conditionID int64, newStatus ConditionStatus, actor, notes string, now time.Time) error {
	if err := l.requireNotTerminal(OpUpdateConditionStatus, actor); err != nil {
		return err
	}
	idx, err := l.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	c := l.conditions[idx]
	before := c.Status
	if err := c.moveTo(newStatus, now); err != nil {
		return err
	}
	if notes != "" {
		c.Notes = notes
	}
	l.conditions[idx] = c
	l.recordAudit(AuditConditionUpdated, withNotes(fmt.Sprintf("Condición %q: %s → %s", c.Description, before, c.Status), notes), actor, now)
	return nil
}

// CompleteCondition completa la condición con evidencia; sella ComplianceDate y VerifiedBy.
func (l *License) CompleteCondition(conditionID int64, actor, evidence, notes string, now time.Time) error {
	if err := l.requireNotTerminal(OpCompleteCondition, actor); err != nil {
		return err
	}
	if strings.TrimSpace(evidence) == "" {
		return domain.NewValidationError("compliance_evidence", "requerida")
	}
	idx, err := l.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	c := l.conditions[idx]
	c.ComplianceEvidence = evidence
	if err := c.moveTo(ConditionCompleted, now); err != nil {
		return err
	}
	c.ComplianceDate = &now
	c.VerifiedBy = actor
	if notes != "" {
		c.Notes = notes
	}
	l.conditions[idx] = c
	l.recordAudit(AuditConditionCompleted, "Condición completada: "+c.Description, actor, now)
	return nil
}

// ─── Adjuntos ────────────────────────────────────────────────────────────────

// AttachmentParams metadatos de un adjunto ya almacenado.
type AttachmentParams struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	Description string
}

// AddAttachment registra un documento soporte mientras la licencia no sea terminal.
func (l *License) AddAttachment(p AttachmentParams, actor string, now time.Time) (LicenseAttachment, error) {
	if err := l.requireNotTerminal(OpAddAttachment, actor); err != nil {
		return LicenseAttachment{}, err
	}
	if strings.TrimSpace(p.FileName) == "" {
		return LicenseAttachment{}, domain.NewValidationError("file_name", "requerido")
	}
	if strings.TrimSpace(p.StorageKey) == "" {
		return LicenseAttachment{}, domain.NewValidationError("storage_key", "requerido")
	}
	if p.SizeBytes < 0 {
		return LicenseAttachment{}, domain.NewValidationError("size_bytes", "no puede ser negativo")
	}
	a := LicenseAttachment{
		ID:          l.nextProvisionalID(),
		LicenseID:   l.ID,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		SizeBytes:   p.SizeBytes,
		StorageKey:  p.StorageKey,
		Description: p.Description,
		UploadedBy:  actor,
		UploadedAt:  now,
	}
	l.attachments = append(l.attachments, a)
	l.recordAudit(AuditAttachmentAdded, "Adjunto agregado: "+a.FileName, actor, now)
	return a, nil
}

// RemoveAttachment quita un adjunto y lo devuelve para que el caller libere el objeto almacenado.
func (l *License) RemoveAttachment(attachmentID int64, actor string, now time.Time) (LicenseAttachment, error) {
	if err := l.requireNotTerminal(OpRemoveAttachment, actor); err != nil {
		return LicenseAttachment{}, err
	}
	for i, a := range l.attachments {
		if a.ID != attachmentID {
			continue
		}
		l.attachments = append(l.attachments[:i:i], l.attachments[i+1:]...)
		if !a.IsNew() {
			l.removedAttachmentIDs = append(l.removedAttachmentIDs, a.ID)
		}
		l.recordAudit(AuditAttachmentRemoved, "Adjunto eliminado: "+a.FileName, actor, now)
		return a, nil
	}
	return LicenseAttachment{}, fmt.Errorf("adjunto %d: %w", attachmentID, domain.ErrNotFound)
}

// ─── Lecturas (copias) ───────────────────────────────────────────────────────

// Conditions copia de las condiciones en orden de alta.
func (l *License) Conditions() []LicenseCondition {
	out := make([]LicenseCondition, len(l.conditions))
	for i, c := range l.conditions {
		c.DueDate = copyTime(c.DueDate)
		c.ComplianceDate = copyTime(c.ComplianceDate)
		out[i] = c
	}
	return out
}

// Condition busca una condición por ID.
func (l *License) Condition(id int64) (LicenseCondition, bool) {
	for _, c := range l.Conditions() {
		if c.ID == id {
			return c, true
		}
	}
	return LicenseCondition{}, false
}

// Attachments copia de los adjuntos.
func (l *License) Attachments() []LicenseAttachment {
	return append([]LicenseAttachment(nil), l.attachments...)
}

// Attachment busca un adjunto por ID.
func (l *License) Attachment(id int64) (LicenseAttachment, bool) {
	for _, a := range l.attachments {
		if a.ID == id {
			return a, true
		}
	}
	return LicenseAttachment{}, false
}

// Renewals copia del historial de renovaciones.
func (l *License) Renewals() []LicenseRenewal {
	out := make([]LicenseRenewal, len(l.renewals))
	for i, r := range l.renewals {
		r.ProposedExpiryDate = copyTime(r.ProposedExpiryDate)
		r.DecidedAt = copyTime(r.DecidedAt)
		r.NewExpiryDate = copyTime(r.NewExpiryDate)
		out[i] = r
	}
	return out
}

// PendingRenewal devuelve la renovación abierta, si existe.
func (l *License) PendingRenewal() (LicenseRenewal, bool) {
	idx := l.pendingRenewalIndex()
	if idx < 0 {
		return LicenseRenewal{}, false
	}
	return l.Renewals()[idx], true
}

// AuditTrail copia de la bitácora en orden cronológico.
func (l *License) AuditTrail() []AuditEntry {
	return append([]AuditEntry(nil), l.auditTrail...)
}

// AuditTrailBetween entradas en el rango cerrado [from, to].
func (l *License) AuditTrailBetween(from, to time.Time) []AuditEntry {
	return FilterAuditTrail(l.auditTrail, AuditFilter{From: &from, To: &to})
}

// AuditTrailByAction entradas de un tipo de acción.
func (l *License) AuditTrailByAction(action AuditAction) []AuditEntry {
	return FilterAuditTrail(l.auditTrail, AuditFilter{Actions: []AuditAction{action}})
}

// ─── Internos ────────────────────────────────────────────────────────────────

// recordAudit es la única vía de escritura de la bitácora. Los sellos de tiempo nunca retroceden.
func (l *License) recordAudit(action AuditAction, description, actor string, now time.Time) {
	if n := len(l.auditTrail); n > 0 && now.Before(l.auditTrail[n-1].PerformedAt) {
		now = l.auditTrail[n-1].PerformedAt
	}
	l.auditTrail = append(l.auditTrail, AuditEntry{
		LicenseID:   l.ID,
		Action:      action,
		Description: description,
		PerformedBy: actor,
		PerformedAt: now,
	})
	if now.After(l.UpdatedAt) {
		l.UpdatedAt = now
	}
}

func (l *License) transition(op LicenseOperation, actor string) (LicenseStatus, error) {
	if err := requireActor(actor); err != nil {
		return l.Status, err
	}
	return Transition(l.Status, op)
}

func (l *License) requireEditable(op LicenseOperation, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !l.Status.IsEditable() {
		return domain.NewStateTransitionError(string(l.Status), string(op))
	}
	return nil
}

func (l *License) requireNotTerminal(op LicenseOperation, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if l.Status.IsTerminal() {
		return domain.NewStateTransitionError(string(l.Status), string(op))
	}
	return nil
}

// nextProvisionalID identifica a un hijo recién agregado hasta que la persistencia le asigne su ID.
func (l *License) nextProvisionalID() int64 {
	l.lastProvisionalID--
	return l.lastProvisionalID
}

func (l *License) conditionIndex(id int64) (int, error) {
	for i, c := range l.conditions {
		if c.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("condición %d: %w", id, domain.ErrNotFound)
}

func (l *License) pendingRenewalIndex() int {
	for i := len(l.renewals) - 1; i >= 0; i-- {
		if l.renewals[i].Status == RenewalPending {
			return i
		}
	}
	return -1
}

// closePendingRenewal cierra como rechazada la renovación abierta (revocación o vencimiento).
func (l *License) closePendingRenewal(actor, notes string, now time.Time) {
	idx := l.pendingRenewalIndex()
	if idx < 0 {
		return
	}
	r := &l.renewals[idx]
	r.Status = RenewalRejected
	r.DecidedAt = &now
	r.DecidedBy = actor
	r.DecisionNotes = notes
}

func requireActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return domain.NewValidationError("actor", "requerido para auditoría")
	}
	return nil
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidationError("reason", "requerido")
	}
	return nil
}

func setOnce(field **time.Time, now time.Time) {
	if *field == nil {
		t := now
		*field = &t
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func withNotes(description, notes string) string {
	if strings.TrimSpace(notes) == "" {
		return description
	}
	return description + ": " + notes
}
