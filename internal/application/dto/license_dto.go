package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLicenseRequest entrada para crear una licencia (nace en DRAFT).
type CreateLicenseRequest struct {
	LicenseType       string `json:"license_type" validate:"required,oneof=ENVIRONMENTAL SAFETY HEALTH FIRE CONSTRUCTION OPERATING WASTE CHEMICAL RADIATION TRANSPORT ELECTRICAL OTHER"`
	Priority          string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	RiskLevel         string `json:"risk_level" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Title             string `json:"title" validate:"required,min=1,max=200"`
	Description       string `json:"description" validate:"max=4000"`
	Scope             string `json:"scope" validate:"max=4000"`
	Restrictions      string `json:"restrictions" validate:"max=4000"`
	ConditionsSummary string `json:"conditions_summary" validate:"max=4000"`

	IssuingAuthority        string `json:"issuing_authority" validate:"required,max=200"`
	IssuingAuthorityContact string `json:"issuing_authority_contact" validate:"max=200"`
	HolderID                string `json:"holder_id" validate:"max=100"`
	HolderName              string `json:"holder_name" validate:"max=200"`
	Department              string `json:"department" validate:"max=200"`

	IssuedDate time.Time `json:"issued_date" validate:"required"`
	ExpiryDate time.Time `json:"expiry_date" validate:"required,gtfield=IssuedDate"`

	RenewalRequired   bool   `json:"renewal_required"`
	RenewalPeriodDays int    `json:"renewal_period_days" validate:"min=0,max=3650"`
	AutoRenewal       bool   `json:"auto_renewal"`
	RenewalProcedure  string `json:"renewal_procedure" validate:"max=4000"`

	LicenseFee              decimal.Decimal `json:"license_fee" swaggertype:"string"`
	Currency                string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	IsCriticalLicense       bool            `json:"is_critical_license"`
	RequiresInsurance       bool            `json:"requires_insurance"`
	RequiredInsuranceAmount decimal.Decimal `json:"required_insurance_amount" swaggertype:"string"`
}

// UpdateLicenseRequest reemplaza los datos descriptivos (solo DRAFT o REJECTED).
type UpdateLicenseRequest struct {
	Title             string `json:"title" validate:"required,min=1,max=200"`
	Description       string `json:"description" validate:"max=4000"`
	Scope             string `json:"scope" validate:"max=4000"`
	Restrictions      string `json:"restrictions" validate:"max=4000"`
	ConditionsSummary string `json:"conditions_summary" validate:"max=4000"`
	StatusNotes       string `json:"status_notes" validate:"max=4000"`
	Priority          string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`

	IssuingAuthority        string `json:"issuing_authority" validate:"required,max=200"`
	IssuingAuthorityContact string `json:"issuing_authority_contact" validate:"max=200"`
	HolderID                string `json:"holder_id" validate:"max=100"`
	HolderName              string `json:"holder_name" validate:"max=200"`
	Department              string `json:"department" validate:"max=200"`

	IssuedDate time.Time       `json:"issued_date" validate:"required"`
	ExpiryDate time.Time       `json:"expiry_date" validate:"required,gtfield=IssuedDate"`
	LicenseFee decimal.Decimal `json:"license_fee" swaggertype:"string"`
	Currency   string          `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// RegulatoryInfoRequest marco regulatorio.
type RegulatoryInfoRequest struct {
	RegulatoryFramework   string `json:"regulatory_framework" validate:"max=4000"`
	ApplicableRegulations string `json:"applicable_regulations" validate:"max=4000"`
	ComplianceStandards   string `json:"compliance_standards" validate:"max=4000"`
}

// RiskComplianceRequest riesgo, criticidad y seguro.
type RiskComplianceRequest struct {
	RiskLevel               string          `json:"risk_level" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	IsCriticalLicense       bool            `json:"is_critical_license"`
	RequiresInsurance       bool            `json:"requires_insurance"`
	RequiredInsuranceAmount decimal.Decimal `json:"required_insurance_amount" swaggertype:"string"`
}

// RenewalInfoRequest política de renovación.
type RenewalInfoRequest struct {
	RenewalRequired   bool   `json:"renewal_required"`
	RenewalPeriodDays int    `json:"renewal_period_days" validate:"min=0,max=3650"`
	AutoRenewal       bool   `json:"auto_renewal"`
	RenewalProcedure  string `json:"renewal_procedure" validate:"max=4000"`
}

// NotesRequest cuerpo opcional de las transiciones sin motivo obligatorio.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=4000"`
}

// ReasonRequest cuerpo de reject / suspend / revoke / rechazo de renovación.
// La obligatoriedad del motivo la valida el dominio.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=4000"`
}

// InitiateRenewalRequest apertura de un ciclo de renovación.
type InitiateRenewalRequest struct {
	Notes              string     `json:"notes" validate:"max=4000"`
	ProposedExpiryDate *time.Time `json:"proposed_expiry_date"`
}

// ApproveRenewalRequest aprobación de la renovación con la nueva fecha de vencimiento.
type ApproveRenewalRequest struct {
	NewExpiryDate time.Time `json:"new_expiry_date" validate:"required"`
	Notes         string    `json:"notes" validate:"max=4000"`
}

// Tamaño de página del listado de licencias. Las exportaciones recorren el filtro completo
// en páginas de MaxLicensePageSize.
const (
	DefaultLicensePageSize = 50
	MaxLicensePageSize     = 200
)

// LicenseListRequest filtros de listado (query string).
type LicenseListRequest struct {
	Status string `query:"status"`
	Type   string `query:"type" validate:"omitempty,oneof=ENVIRONMENTAL SAFETY HEALTH FIRE CONSTRUCTION OPERATING WASTE CHEMICAL RADIATION TRANSPORT ELECTRICAL OTHER"`
	Search string `query:"q" validate:"max=200"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset" validate:"min=0"`
}

// Normalize aplica el tamaño de página por defecto y recorta Limit a MaxLicensePageSize.
func (r *LicenseListRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLicensePageSize
	}
	if r.Limit > MaxLicensePageSize {
		r.Limit = MaxLicensePageSize
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// HistoryRequest filtros de la bitácora (query string, fechas RFC3339).
type HistoryRequest struct {
	From *time.Time
	To   *time.Time
	Kind []string
}

// ConditionRequest alta o edición de una condición.
type ConditionRequest struct {
	ConditionType     string     `json:"condition_type" validate:"required,max=100"`
	Description       string     `json:"description" validate:"required,max=4000"`
	IsMandatory       bool       `json:"is_mandatory"`
	DueDate           *time.Time `json:"due_date"`
	ResponsiblePerson string     `json:"responsible_person" validate:"max=200"`
	Notes             string     `json:"notes" validate:"max=4000"`
}

// ConditionStatusRequest cambio de estado de una condición.
type ConditionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED WAIVED OVERDUE"`
	Notes  string `json:"notes" validate:"max=4000"`
}

// CompleteConditionRequest cierre de una condición con evidencia.
type CompleteConditionRequest struct {
	Evidence string `json:"evidence" validate:"max=4000"`
	Notes    string `json:"notes" validate:"max=4000"`
}

// AttachmentUpload metadatos de un archivo recibido por multipart.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Description string
}

// ─── Respuestas ──────────────────────────────────────────────────────────────

// LicenseResponse salida completa de una licencia, con banderas derivadas calculadas al leer.
type LicenseResponse struct {
	ID            int64  `json:"id"`
	LicenseNumber string `json:"license_number"`
	LicenseType   string `json:"license_type"`
	Priority      string `json:"priority"`
	RiskLevel     string `json:"risk_level"`
	Status        string `json:"status"`

	Title                 string `json:"title"`
	Description           string `json:"description"`
	Scope                 string `json:"scope"`
	Restrictions          string `json:"restrictions"`
	ConditionsSummary     string `json:"conditions_summary"`
	RegulatoryFramework   string `json:"regulatory_framework"`
	ApplicableRegulations string `json:"applicable_regulations"`
	ComplianceStandards   string `json:"compliance_standards"`
	StatusNotes           string `json:"status_notes"`

	IssuingAuthority        string `json:"issuing_authority"`
	IssuingAuthorityContact string `json:"issuing_authority_contact"`
	HolderID                string `json:"holder_id"`
	HolderName              string `json:"holder_name"`
	Department              string `json:"department"`

	IssuedDate    time.Time  `json:"issued_date"`
	ExpiryDate    time.Time  `json:"expiry_date"`
	SubmittedDate *time.Time `json:"submitted_date,omitempty"`
	ApprovedDate  *time.Time `json:"approved_date,omitempty"`
	ActivatedDate *time.Time `json:"activated_date,omitempty"`
	SuspendedDate *time.Time `json:"suspended_date,omitempty"`
	RevokedDate   *time.Time `json:"revoked_date,omitempty"`
	RejectedDate  *time.Time `json:"rejected_date,omitempty"`
	ExpiredDate   *time.Time `json:"expired_date,omitempty"`

	ApprovalNotes    string `json:"approval_notes,omitempty"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
	SuspensionReason string `json:"suspension_reason,omitempty"`
	RevocationReason string `json:"revocation_reason,omitempty"`

	RenewalRequired   bool       `json:"renewal_required"`
	RenewalPeriodDays int        `json:"renewal_period_days"`
	NextRenewalDate   *time.Time `json:"next_renewal_date,omitempty"`
	AutoRenewal       bool       `json:"auto_renewal"`
	RenewalProcedure  string     `json:"renewal_procedure"`

	LicenseFee              decimal.Decimal `json:"license_fee" swaggertype:"string"`
	Currency                string          `json:"currency"`
	IsCriticalLicense       bool            `json:"is_critical_license"`
	RequiresInsurance       bool            `json:"requires_insurance"`
	RequiredInsuranceAmount decimal.Decimal `json:"required_insurance_amount" swaggertype:"string"`

	// Derivados (dependen del instante de lectura).
	IsExpiring                 bool     `json:"is_expiring"`
	IsExpiringSoon             bool     `json:"is_expiring_soon"`
	IsExpired                  bool     `json:"is_expired"`
	DaysUntilExpiry            int      `json:"days_until_expiry"`
	OverdueMandatoryConditions int      `json:"overdue_mandatory_conditions"`
	Warnings                   []string `json:"warnings"`
	AvailableOperations        []string `json:"available_operations"`

	Conditions  []ConditionResponse  `json:"conditions"`
	Attachments []AttachmentResponse `json:"attachments"`
	Renewals    []RenewalResponse    `json:"renewals"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LicenseSummaryResponse fila de listado.
type LicenseSummaryResponse struct {
	ID                         int64     `json:"id"`
	LicenseNumber              string    `json:"license_number"`
	LicenseType                string    `json:"license_type"`
	Title                      string    `json:"title"`
	Status                     string    `json:"status"`
	Priority                   string    `json:"priority"`
	RiskLevel                  string    `json:"risk_level"`
	HolderName                 string    `json:"holder_name"`
	ExpiryDate                 time.Time `json:"expiry_date"`
	IsExpiring                 bool      `json:"is_expiring"`
	IsExpiringSoon             bool      `json:"is_expiring_soon"`
	IsExpired                  bool      `json:"is_expired"`
	DaysUntilExpiry            int       `json:"days_until_expiry"`
	OverdueMandatoryConditions int       `json:"overdue_mandatory_conditions"`
}

// LicenseListResponse lista paginada de licencias.
type LicenseListResponse struct {
	Items []LicenseSummaryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// ConditionResponse salida de una condición; display_status puede ser OVERDUE.
type ConditionResponse struct {
	ID                 int64      `json:"id"`
	ConditionType      string     `json:"condition_type"`
	Description        string     `json:"description"`
	IsMandatory        bool       `json:"is_mandatory"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	Status             string     `json:"status"`
	DisplayStatus      string     `json:"display_status"`
	IsOverdue          bool       `json:"is_overdue"`
	ComplianceEvidence string     `json:"compliance_evidence,omitempty"`
	ComplianceDate     *time.Time `json:"compliance_date,omitempty"`
	VerifiedBy         string     `json:"verified_by,omitempty"`
	ResponsiblePerson  string     `json:"responsible_person"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// AttachmentResponse metadatos de un adjunto (la clave de almacenamiento no se expone).
type AttachmentResponse struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Description string    `json:"description"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// RenewalResponse ciclo de renovación.
type RenewalResponse struct {
	ID                 int64      `json:"id"`
	Sequence           int        `json:"sequence"`
	Status             string     `json:"status"`
	RequestedAt        time.Time  `json:"requested_at"`
	RequestedBy        string     `json:"requested_by"`
	ProposedExpiryDate *time.Time `json:"proposed_expiry_date,omitempty"`
	Notes              string     `json:"notes"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`
	DecidedBy          string     `json:"decided_by,omitempty"`
	DecisionNotes      string     `json:"decision_notes,omitempty"`
	PreviousExpiryDate time.Time  `json:"previous_expiry_date"`
	NewExpiryDate      *time.Time `json:"new_expiry_date,omitempty"`
}

// AuditEntryResponse entrada de la bitácora.
type AuditEntryResponse struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	PerformedBy string    `json:"performed_by"`
	PerformedAt time.Time `json:"performed_at"`
}

// HistoryResponse bitácora filtrada de una licencia.
type HistoryResponse struct {
	LicenseID int64                `json:"license_id"`
	Items     []AuditEntryResponse `json:"items"`
}
