package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComplianceDashboardDTO respuesta de GET /api/dashboard/compliance.
// Todas las banderas se calculan con las funciones derivadas del agregado en el instante GeneratedAt.
type ComplianceDashboardDTO struct {
	TotalLicenses  int            `json:"total_licenses"`
	CountsByStatus map[string]int `json:"counts_by_status"`

	// Licencias Active dentro de su ventana de renovación.
	ExpiringSoon []LicenseAlertDTO `json:"expiring_soon"`
	// Licencias vencidas que aún no pasaron por el barrido (siguen en un estado vigente).
	PastExpiry []LicenseAlertDTO `json:"past_expiry"`
	// Condiciones obligatorias vencidas en licencias vigentes.
	OverdueConditions []ConditionAlertDTO `json:"overdue_conditions"`
	// Licencias con advertencias de configuración (p. ej. crítica sin seguro).
	Warnings []LicenseAlertDTO `json:"warnings"`

	// Porcentaje de licencias vigentes sin condiciones obligatorias vencidas.
	ComplianceRate decimal.Decimal `json:"compliance_rate" swaggertype:"string"`

	GeneratedAt time.Time `json:"generated_at"`
	DateLabel   string    `json:"date_label"` // ej: "Marzo 2026"
}

// LicenseAlertDTO resumen de una licencia para los widgets del tablero.
type LicenseAlertDTO struct {
	LicenseID       int64     `json:"license_id"`
	LicenseNumber   string    `json:"license_number"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	ExpiryDate      time.Time `json:"expiry_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// ConditionAlertDTO condición obligatoria vencida.
type ConditionAlertDTO struct {
	LicenseID         int64     `json:"license_id"`
	LicenseNumber     string    `json:"license_number"`
	ConditionID       int64     `json:"condition_id"`
	Description       string    `json:"description"`
	DueDate           time.Time `json:"due_date"`
	DaysOverdue       int       `json:"days_overdue"`
	ResponsiblePerson string    `json:"responsible_person"`
}
