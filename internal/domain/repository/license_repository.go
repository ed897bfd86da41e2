package repository

import (
	"context"
	"time"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// LicenseFilter criterios de listado (siempre acotado a una empresa).
type LicenseFilter struct {
	CompanyID string
	Statuses  []entity.LicenseStatus
	Type      entity.LicenseType
	Search    string // coincide con número o título
	Limit     int
	Offset    int
}

// ExpirableLicense referencia mínima que usa el barrido de vencimientos.
type ExpirableLicense struct {
	ID         int64
	CompanyID  string
	ExpiryDate time.Time
}

// LicenseRepository puerto de persistencia del agregado License.
// Los métodos Get* devuelven (nil, nil) si no existe; el caso de uso traduce a domain.ErrNotFound.
type LicenseRepository interface {
	// NextSequence reserva el siguiente consecutivo del tipo en el año dado.
	NextSequence(ctx context.Context, licenseType entity.LicenseType, year int) (int, error)
	// Create inserta la licencia con sus hijos y bitácora; asigna los IDs generados.
	Create(ctx context.Context, l *entity.License) error
	// GetByID carga el agregado completo (condiciones, adjuntos, renovaciones y bitácora).
	GetByID(ctx context.Context, companyID string, id int64) (*entity.License, error)
	// GetForUpdate como GetByID pero bloquea la fila (SELECT … FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, companyID string, id int64) (*entity.License, error)
	// Save persiste los cambios del agregado: fila, hijos nuevos/modificados/quitados y bitácora nueva.
	Save(ctx context.Context, l *entity.License) error
	// Delete guarda la entrada Deleted y elimina la licencia con sus hijos.
	Delete(ctx context.Context, l *entity.License) error
	// List devuelve licencias (con condiciones, sin bitácora) y el total sin paginar.
	List(ctx context.Context, f LicenseFilter) ([]*entity.License, int, error)
	// ListAuditTrail proyección de la bitácora; sobrevive al borrado de la licencia.
	ListAuditTrail(ctx context.Context, companyID string, licenseID int64, f entity.AuditFilter) ([]entity.AuditEntry, error)
	// ListExpirable licencias en estados vencibles con ExpiryDate < now y ID > afterID, de todas
	// las empresas, ordenadas por ID.
	ListExpirable(ctx context.Context, now time.Time, afterID int64, limit int) ([]ExpirableLicense, error)
}

// ComplianceRepository consultas de solo lectura para el tablero de cumplimiento.
type ComplianceRepository interface {
	// CountByStatus cantidad de licencias por estado.
	CountByStatus(ctx context.Context, companyID string) (map[entity.LicenseStatus]int, error)
	// ListMonitored licencias en estados con obligaciones vigentes (Active, Suspended, PendingRenewal),
	// con sus condiciones, para evaluar las banderas derivadas en memoria.
	ListMonitored(ctx context.Context, companyID string) ([]*entity.License, error)
}
