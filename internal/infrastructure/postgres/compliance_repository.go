package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// Ensure ComplianceRepo implements repository.ComplianceRepository.
var _ repository.ComplianceRepository = (*ComplianceRepo)(nil)

// ComplianceRepo consultas de lectura del tablero de cumplimiento.
type ComplianceRepo struct {
	pool     *pgxpool.Pool
	licenses *LicenseRepo
}

// NewComplianceRepository construye el repositorio.
func NewComplianceRepository(pool *pgxpool.Pool) *ComplianceRepo {
	return &ComplianceRepo{pool: pool, licenses: NewLicenseRepository(pool)}
}

// CountByStatus agrupa las licencias de la empresa por estado.
func (r *ComplianceRepo) CountByStatus(ctx context.Context, companyID string) (map[entity.LicenseStatus]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM licenses
		WHERE company_id = $1
		GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count licenses by status: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.LicenseStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.LicenseStatus(status)] = n
	}
	return out, rows.Err()
}

// ListMonitored licencias con obligaciones vigentes y sus condiciones.
func (r *ComplianceRepo) ListMonitored(ctx context.Context, companyID string) ([]*entity.License, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+licenseColumns+`
		FROM licenses
		WHERE company_id = $1 AND status = ANY($2)
		ORDER BY expiry_date, id`, companyID, expirableStatuses())
	if err != nil {
		return nil, fmt.Errorf("list monitored licenses: %w", err)
	}
	return r.licenses.collectWithConditions(ctx, rows)
}
