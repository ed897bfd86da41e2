package entity

import "time"

// RenewalStatus estado de una solicitud de renovación.
type RenewalStatus string

const (
	RenewalPending  RenewalStatus = "PENDING"
	RenewalApproved RenewalStatus = "APPROVED"
	RenewalRejected RenewalStatus = "REJECTED"
)

// LicenseRenewal solicitud de renovación. La licencia conserva su identidad entre renovaciones;
// cada ciclo queda registrado aquí.
type LicenseRenewal struct {
	ID                 int64
	LicenseID          int64
	Sequence           int
	Status             RenewalStatus
	RequestedAt        time.Time
	RequestedBy        string
	ProposedExpiryDate *time.Time
	Notes              string
	DecidedAt          *time.Time
	DecidedBy          string
	DecisionNotes      string
	PreviousExpiryDate time.Time
	NewExpiryDate      *time.Time
}

// LicenseAttachment documento soporte. StorageKey es opaca: la resuelve el adaptador de almacenamiento.
type LicenseAttachment struct {
	ID          int64
	LicenseID   int64
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	Description string
	UploadedBy  string
	UploadedAt  time.Time
}

// IsNew informa si el adjunto aún no fue persistido (ID provisional).
func (a LicenseAttachment) IsNew() bool { return a.ID <= 0 }
