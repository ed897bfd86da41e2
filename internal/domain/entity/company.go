package entity

import "time"

// Company representa una organización/tenant del sistema HSE (multi-tenant).
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificador tributario de la organización
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos HSE disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleHealth    = "health"
	ModuleIncidents = "incidents"
	ModuleWaste     = "waste"
	ModuleLicenses  = "licenses"
	ModuleTraining  = "training"
	ModulePPE       = "ppe"
)

// IsKnownModule informa si name es uno de los módulos HSE contratables.
func IsKnownModule(name string) bool {
	switch name {
	case ModuleHealth, ModuleIncidents, ModuleWaste, ModuleLicenses, ModuleTraining, ModulePPE:
		return true
	}
	return false
}

// CompanyModule representa la activación de un módulo HSE en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
