package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// Ensure LicenseRepo implements repository.LicenseRepository.
var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo implementa repository.LicenseRepository con pgx. Funciona sobre el pool o sobre
// una pgx.Tx (ver TxRunner).
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el repositorio sobre un pool o una transacción.
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

// NewLicenseRepositoryFromPool atajo para lecturas fuera de transacción.
func NewLicenseRepositoryFromPool(pool *pgxpool.Pool) *LicenseRepo {
	return &LicenseRepo{q: pool}
}

const licenseColumns = `id, company_id, license_number, license_type, priority, risk_level, status,
	title, description, scope, restrictions, conditions_summary, regulatory_framework,
	applicable_regulations, compliance_standards, status_notes,
	issuing_authority, issuing_authority_contact, holder_id, holder_name, department,
	issued_date, expiry_date, submitted_date, approved_date, activated_date, suspended_date,
	revoked_date, rejected_date, expired_date,
	approval_notes, rejection_reason, suspension_reason, revocation_reason,
	renewal_required, renewal_period_days, next_renewal_date, auto_renewal, renewal_procedure,
	license_fee, currency, is_critical_license, requires_insurance, required_insurance_amount,
	created_by, created_at, updated_at`

// licenseValues columnas escribibles (sin id) en el mismo orden que licenseArgs.
const licenseValues = `company_id, license_number, license_type, priority, risk_level, status,
	title, description, scope, restrictions, conditions_summary, regulatory_framework,
	applicable_regulations, compliance_standards, status_notes,
	issuing_authority, issuing_authority_contact, holder_id, holder_name, department,
	issued_date, expiry_date, submitted_date, approved_date, activated_date, suspended_date,
	revoked_date, rejected_date, expired_date,
	approval_notes, rejection_reason, suspension_reason, revocation_reason,
	renewal_required, renewal_period_days, next_renewal_date, auto_renewal, renewal_procedure,
	license_fee, currency, is_critical_license, requires_insurance, required_insurance_amount,
	created_by, created_at, updated_at`

func licenseArgs(l *entity.License) []any {
	return []any{
		l.CompanyID, l.LicenseNumber, string(l.Type), string(l.Priority), string(l.RiskLevel), string(l.Status),
		l.Title, l.Description, l.Scope, l.Restrictions, l.ConditionsSummary, l.RegulatoryFramework,
		l.ApplicableRegulations, l.ComplianceStandards, l.StatusNotes,
		l.IssuingAuthority, l.IssuingAuthorityContact, l.HolderID, l.HolderName, l.Department,
		l.IssuedDate, l.ExpiryDate, l.SubmittedDate, l.ApprovedDate, l.ActivatedDate, l.SuspendedDate,
		l.RevokedDate, l.RejectedDate, l.ExpiredDate,
		l.ApprovalNotes, l.RejectionReason, l.SuspensionReason, l.RevocationReason,
		l.RenewalRequired, l.RenewalPeriodDays, l.NextRenewalDate, l.AutoRenewal, l.RenewalProcedure,
		l.LicenseFee, l.Currency, l.IsCriticalLicense, l.RequiresInsurance, l.RequiredInsuranceAmount,
		l.CreatedBy, l.CreatedAt, l.UpdatedAt,
	}
}

func scanLicense(row pgx.Row) (*entity.License, error) {
	var (
		l                               entity.License
		licType, priority, risk, status string
	)
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.LicenseNumber, &licType, &priority, &risk, &status,
		&l.Title, &l.Description, &l.Scope, &l.Restrictions, &l.ConditionsSummary, &l.RegulatoryFramework,
		&l.ApplicableRegulations, &l.ComplianceStandards, &l.StatusNotes,
		&l.IssuingAuthority, &l.IssuingAuthorityContact, &l.HolderID, &l.HolderName, &l.Department,
		&l.IssuedDate, &l.ExpiryDate, &l.SubmittedDate, &l.ApprovedDate, &l.ActivatedDate, &l.SuspendedDate,
		&l.RevokedDate, &l.RejectedDate, &l.ExpiredDate,
		&l.ApprovalNotes, &l.RejectionReason, &l.SuspensionReason, &l.RevocationReason,
		&l.RenewalRequired, &l.RenewalPeriodDays, &l.NextRenewalDate, &l.AutoRenewal, &l.RenewalProcedure,
		&l.LicenseFee, &l.Currency, &l.IsCriticalLicense, &l.RequiresInsurance, &l.RequiredInsuranceAmount,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Type = entity.LicenseType(licType)
	l.Priority = entity.Priority(priority)
	l.RiskLevel = entity.RiskLevel(risk)
	l.Status = entity.LicenseStatus(status)
	return &l, nil
}

// ─── Consecutivos ────────────────────────────────────────────────────────────

// NextSequence incrementa atómicamente el contador (tipo, año); la fila queda bloqueada hasta el commit.
func (r *LicenseRepo) NextSequence(ctx context.Context, licenseType entity.LicenseType, year int) (int, error) {
	var next int
	err := r.q.QueryRow(ctx, `
		INSERT INTO license_number_sequences (license_type, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (license_type, year) DO UPDATE SET last_value = license_number_sequences.last_value + 1
		RETURNING last_value`, string(licenseType), year).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next license sequence: %w", err)
	}
	return next, nil
}

// ─── Escritura ───────────────────────────────────────────────────────────────

// Create inserta la licencia, sus hijos y su bitácora inicial.
func (r *LicenseRepo) Create(ctx context.Context, l *entity.License) error {
	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO licenses (`+licenseValues+`) VALUES (`+placeholders(1, 46)+`) RETURNING id`,
		licenseArgs(l)...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("licencia %s: %w", l.LicenseNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert license: %w", err)
	}
	l.AssignID(id)
	if err := r.saveChildren(ctx, l); err != nil {
		return err
	}
	l.MarkPersisted()
	return nil
}

// Save actualiza la fila y sincroniza hijos y bitácora.
func (r *LicenseRepo) Save(ctx context.Context, l *entity.License) error {
	args := append(licenseArgs(l), l.ID)
	tag, err := r.q.Exec(ctx, `
		UPDATE licenses SET (`+licenseValues+`) = (`+placeholders(1, 46)+`)
		WHERE id = $47`, args...)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("licencia %d: %w", l.ID, domain.ErrNotFound)
	}
	if err := r.deleteRemoved(ctx, l); err != nil {
		return err
	}
	if err := r.saveChildren(ctx, l); err != nil {
		return err
	}
	l.MarkPersisted()
	return nil
}

// Delete guarda la bitácora pendiente (incluida la entrada DELETED) y elimina la fila;
// los hijos caen por ON DELETE CASCADE.
func (r *LicenseRepo) Delete(ctx context.Context, l *entity.License) error {
	if err := r.saveAudit(ctx, l); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM licenses WHERE id = $1 AND company_id = $2`, l.ID, l.CompanyID); err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	return nil
}

func (r *LicenseRepo) deleteRemoved(ctx context.Context, l *entity.License) error {
	if ids := l.RemovedConditionIDs(); len(ids) > 0 {
		if _, err := r.q.Exec(ctx, `DELETE FROM license_conditions WHERE license_id = $1 AND id = ANY($2)`, l.ID, ids); err != nil {
			return fmt.Errorf("delete license conditions: %w", err)
		}
	}
	if ids := l.RemovedAttachmentIDs(); len(ids) > 0 {
		if _, err := r.q.Exec(ctx, `DELETE FROM license_attachments WHERE license_id = $1 AND id = ANY($2)`, l.ID, ids); err != nil {
			return fmt.Errorf("delete license attachments: %w", err)
		}
	}
	return nil
}

func (r *LicenseRepo) saveChildren(ctx context.Context, l *entity.License) error {
	for i, c := range l.Conditions() {
		if c.IsNew() {
			var id int64
			err := r.q.QueryRow(ctx, `
				INSERT INTO license_conditions (license_id, condition_type, description, is_mandatory, due_date,
					status, compliance_evidence, compliance_date, verified_by, responsible_person, notes,
					created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				RETURNING id`,
				l.ID, c.ConditionType, c.Description, c.IsMandatory, c.DueDate,
				string(c.Status), c.ComplianceEvidence, c.ComplianceDate, c.VerifiedBy, c.ResponsiblePerson, c.Notes,
				c.CreatedAt, c.UpdatedAt,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert license condition: %w", err)
			}
			l.AssignConditionID(i, id)
			continue
		}
		_, err := r.q.Exec(ctx, `
			UPDATE license_conditions SET condition_type = $3, description = $4, is_mandatory = $5, due_date = $6,
				status = $7, compliance_evidence = $8, compliance_date = $9, verified_by = $10,
				responsible_person = $11, notes = $12, updated_at = $13
			WHERE id = $1 AND license_id = $2`,
			c.ID, l.ID, c.ConditionType, c.Description, c.IsMandatory, c.DueDate,
			string(c.Status), c.ComplianceEvidence, c.ComplianceDate, c.VerifiedBy,
			c.ResponsiblePerson, c.Notes, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update license condition: %w", err)
		}
	}

	// Los adjuntos son inmutables: solo altas y bajas.
	for i, a := range l.Attachments() {
		if !a.IsNew() {
			continue
		}
		var id int64
		err := r.q.QueryRow(ctx, `
			INSERT INTO license_attachments (license_id, file_name, content_type, size_bytes, storage_key,
				description, uploaded_by, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			l.ID, a.FileName, a.ContentType, a.SizeBytes, a.StorageKey, a.Description, a.UploadedBy, a.UploadedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert license attachment: %w", err)
		}
		l.AssignAttachmentID(i, id)
	}

	for i, rn := range l.Renewals() {
		if rn.ID == 0 {
			var id int64
			err := r.q.QueryRow(ctx, `
				INSERT INTO license_renewals (license_id, sequence, status, requested_at, requested_by,
					proposed_expiry_date, notes, decided_at, decided_by, decision_notes,
					previous_expiry_date, new_expiry_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				RETURNING id`,
				l.ID, rn.Sequence, string(rn.Status), rn.RequestedAt, rn.RequestedBy,
				rn.ProposedExpiryDate, rn.Notes, rn.DecidedAt, rn.DecidedBy, rn.DecisionNotes,
				rn.PreviousExpiryDate, rn.NewExpiryDate,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert license renewal: %w", err)
			}
			l.AssignRenewalID(i, id)
			continue
		}
		_, err := r.q.Exec(ctx, `
			UPDATE license_renewals SET status = $3, decided_at = $4, decided_by = $5, decision_notes = $6,
				new_expiry_date = $7
			WHERE id = $1 AND license_id = $2`,
			rn.ID, l.ID, string(rn.Status), rn.DecidedAt, rn.DecidedBy, rn.DecisionNotes, rn.NewExpiryDate,
		)
		if err != nil {
			return fmt.Errorf("update license renewal: %w", err)
		}
	}

	return r.saveAudit(ctx, l)
}

// saveAudit inserta solo las entradas nuevas; la bitácora es de solo anexado.
func (r *LicenseRepo) saveAudit(ctx context.Context, l *entity.License) error {
	for i, e := range l.AuditTrail() {
		if e.ID != 0 {
			continue
		}
		var id int64
		err := r.q.QueryRow(ctx, `
			INSERT INTO license_audit_logs (company_id, license_id, action, description, performed_by, performed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			l.CompanyID, l.ID, string(e.Action), e.Description, e.PerformedBy, e.PerformedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert license audit: %w", err)
		}
		l.AssignAuditID(i, id)
	}
	return nil
}

// ─── Lectura ─────────────────────────────────────────────────────────────────

// GetByID devuelve la licencia completa o (nil, nil) si no existe en la empresa.
func (r *LicenseRepo) GetByID(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	return r.get(ctx, companyID, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *LicenseRepo) GetForUpdate(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

func (r *LicenseRepo) get(ctx context.Context, companyID string, id int64, lock string) (*entity.License, error) {
	l, err := scanLicense(r.q.QueryRow(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE id = $1 AND company_id = $2`+lock, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}

	conds, err := r.conditionsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	atts, err := r.attachmentsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	rens, err := r.renewalsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	audit, err := r.ListAuditTrail(ctx, companyID, id, entity.AuditFilter{})
	if err != nil {
		return nil, err
	}
	l.Restore(conds[id], atts, rens, audit)
	return l, nil
}

// List filtra por empresa, estados, tipo y texto; ordena por id y devuelve el total sin paginar.
func (r *LicenseRepo) List(ctx context.Context, f repository.LicenseFilter) ([]*entity.License, int, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, "status = ANY($"+strconv.Itoa(len(args))+")")
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, "license_type = $"+strconv.Itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(title ILIKE $"+n+" OR license_number ILIKE $"+n+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM licenses WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count licenses: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE `+cond+
		` ORDER BY id LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list licenses: %w", err)
	}
	list, err := r.collectWithConditions(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// collectWithConditions lee las filas y adjunta las condiciones en una sola consulta extra.
func (r *LicenseRepo) collectWithConditions(ctx context.Context, rows pgx.Rows) ([]*entity.License, error) {
	var (
		list []*entity.License
		ids  []int64
	)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan license: %w", err)
		}
		list = append(list, l)
		ids = append(ids, l.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licenses: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	conds, err := r.conditionsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range list {
		l.Restore(conds[l.ID], nil, nil, nil)
	}
	return list, nil
}

// ListAuditTrail bitácora filtrada por rango cerrado y acciones, en orden cronológico.
func (r *LicenseRepo) ListAuditTrail(ctx context.Context, companyID string, licenseID int64, f entity.AuditFilter) ([]entity.AuditEntry, error) {
	var actions []string
	for _, a := range f.Actions {
		actions = append(actions, string(a))
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, license_id, action, description, performed_by, performed_at
		FROM license_audit_logs
		WHERE company_id = $1 AND license_id = $2
		  AND ($3::timestamptz IS NULL OR performed_at >= $3)
		  AND ($4::timestamptz IS NULL OR performed_at <= $4)
		  AND (cardinality($5::text[]) = 0 OR action = ANY($5))
		ORDER BY performed_at, id`,
		companyID, licenseID, f.From, f.To, nonNilStrings(actions))
	if err != nil {
		return nil, fmt.Errorf("list license audit: %w", err)
	}
	defer rows.Close()

	var out []entity.AuditEntry
	for rows.Next() {
		var (
			e      entity.AuditEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.LicenseID, &action, &e.Description, &e.PerformedBy, &e.PerformedAt); err != nil {
			return nil, fmt.Errorf("scan license audit: %w", err)
		}
		e.Action = entity.AuditAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListExpirable candidatos del barrido de vencimientos, de todas las empresas. Paginado por
// keyset sobre id.
func (r *LicenseRepo) ListExpirable(ctx context.Context, now time.Time, afterID int64, limit int) ([]repository.ExpirableLicense, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, expiry_date
		FROM licenses
		WHERE status = ANY($1) AND expiry_date < $2 AND id > $3
		ORDER BY id
		LIMIT $4`, expirableStatuses(), now, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list expirable licenses: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpirableLicense
	for rows.Next() {
		var e repository.ExpirableLicense
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan expirable license: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ─── Hijos ───────────────────────────────────────────────────────────────────

func (r *LicenseRepo) conditionsFor(ctx context.Context, licenseIDs []int64) (map[int64][]entity.LicenseCondition, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, license_id, condition_type, description, is_mandatory, due_date, status,
			compliance_evidence, compliance_date, verified_by, responsible_person, notes, created_at, updated_at
		FROM license_conditions
		WHERE license_id = ANY($1)
		ORDER BY license_id, id`, licenseIDs)
	if err != nil {
		return nil, fmt.Errorf("list license conditions: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]entity.LicenseCondition, len(licenseIDs))
	for rows.Next() {
		var (
			c      entity.LicenseCondition
			status string
		)
		if err := rows.Scan(&c.ID, &c.LicenseID, &c.ConditionType, &c.Description, &c.IsMandatory, &c.DueDate, &status,
			&c.ComplianceEvidence, &c.ComplianceDate, &c.VerifiedBy, &c.ResponsiblePerson, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan license condition: %w", err)
		}
		c.Status = entity.ConditionStatus(status)
		out[c.LicenseID] = append(out[c.LicenseID], c)
	}
	return out, rows.Err()
}

func (r *LicenseRepo) attachmentsFor(ctx context.Context, licenseID int64) ([]entity.LicenseAttachment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, license_id, file_name, content_type, size_bytes, storage_key, description, uploaded_by, uploaded_at
		FROM license_attachments
		WHERE license_id = $1
		ORDER BY id`, licenseID)
	if err != nil {
		return nil, fmt.Errorf("list license attachments: %w", err)
	}
	defer rows.Close()

	var out []entity.LicenseAttachment
	for rows.Next() {
		var a entity.LicenseAttachment
		if err := rows.Scan(&a.ID, &a.LicenseID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.StorageKey,
			&a.Description, &a.UploadedBy, &a.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan license attachment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *LicenseRepo) renewalsFor(ctx context.Context, licenseID int64) ([]entity.LicenseRenewal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, license_id, sequence, status, requested_at, requested_by, proposed_expiry_date, notes,
			decided_at, decided_by, decision_notes, previous_expiry_date, new_expiry_date
		FROM license_renewals
		WHERE license_id = $1
		ORDER BY sequence`, licenseID)
	if err != nil {
		return nil, fmt.Errorf("list license renewals: %w", err)
	}
	defer rows.Close()

	var out []entity.LicenseRenewal
	for rows.Next() {
		var (
			rn     entity.LicenseRenewal
			status string
		)
		if err := rows.Scan(&rn.ID, &rn.LicenseID, &rn.Sequence, &status, &rn.RequestedAt, &rn.RequestedBy,
			&rn.ProposedExpiryDate, &rn.Notes, &rn.DecidedAt, &rn.DecidedBy, &rn.DecisionNotes,
			&rn.PreviousExpiryDate, &rn.NewExpiryDate); err != nil {
			return nil, fmt.Errorf("scan license renewal: %w", err)
		}
		rn.Status = entity.RenewalStatus(status)
		out = append(out, rn)
	}
	return out, rows.Err()
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// placeholders "$from, …, $to".
func placeholders(from, to int) string {
	var b strings.Builder
	for i := from; i <= to; i++ {
		if i > from {
			b.WriteString(", ")
		}
		b.WriteString("$" + strconv.Itoa(i))
	}
	return b.String()
}

func expirableStatuses() []string {
	var out []string
	for _, s := range entity.StatusesAllowing(entity.OpExpire) {
		out = append(out, string(s))
	}
	return out
}

// nonNilStrings pgx codifica un slice nil como NULL; cardinality(NULL) no es 0.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
