package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleHSEManager = "hse_manager"
	RoleHSEOfficer = "hse_officer"
	RoleViewer     = "viewer"
)

// IsValidRole informa si role es uno de los roles admitidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHSEManager, RoleHSEOfficer, RoleViewer:
		return true
	}
	return false
}

// LicenseEditorRoles roles que registran y editan licencias, condiciones y adjuntos.
func LicenseEditorRoles() []string {
	return []string{RoleAdmin, RoleHSEManager, RoleHSEOfficer}
}

// LicenseApproverRoles roles que deciden sobre el ciclo de vida (aprobar, suspender, revocar,
// renovar) y eliminan borradores.
func LicenseApproverRoles() []string {
	return []string{RoleAdmin, RoleHSEManager}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, hse_manager, hse_officer, viewer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor nombre con el que el usuario firma las entradas de auditoría.
func (u *User) Actor() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// CanEditLicenses informa si el rol del usuario registra y edita licencias.
func (u *User) CanEditLicenses() bool { return hasRole(LicenseEditorRoles(), u.Role) }

// CanApproveLicenses informa si el rol del usuario decide transiciones del ciclo de vida.
func (u *User) CanApproveLicenses() bool { return hasRole(LicenseApproverRoles(), u.Role) }
