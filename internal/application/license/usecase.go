package license

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
	"github.com/jhoicas/HSE-api/pkg/logger"
)

// Deps dependencias del caso de uso. Los adaptadores opcionales nil se reemplazan por no-op.
type Deps struct {
	Tx      TxRunner
	Repo    repository.LicenseRepository // lecturas fuera de transacción
	Cache   Cache
	Events  EventPublisher
	Storage AttachmentStorage
	Metrics Metrics
	Logger  *logger.Logger
	Clock   func() time.Time
}

// LicenseUseCase una operación del agregado por método: cargar con bloqueo, invocar, persistir, commit.
// Nunca muta campos de la licencia directamente.
type LicenseUseCase struct {
	tx      TxRunner
	repo    repository.LicenseRepository
	cache   Cache
	events  EventPublisher
	storage AttachmentStorage
	metrics Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewLicenseUseCase construye el caso de uso.
func NewLicenseUseCase(d Deps) *LicenseUseCase {
	uc := &LicenseUseCase{
		tx:      d.Tx,
		repo:    d.Repo,
		cache:   d.Cache,
		events:  d.Events,
		storage: d.Storage,
		metrics: d.Metrics,
		log:     d.Logger,
		now:     d.Clock,
	}
	if uc.cache == nil {
		uc.cache = NoopCache{}
	}
	if uc.events == nil {
		uc.events = NoopPublisher{}
	}
	if uc.metrics == nil {
		uc.metrics = NoopMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	return uc
}

// Create crea la licencia en DRAFT con un número consecutivo {Prefijo}-{AA}-{NNNN}.
func (uc *LicenseUseCase) Create(ctx context.Context, companyID, actor string, in dto.CreateLicenseRequest) (*dto.LicenseResponse, error) {
	now := uc.now()
	licType := entity.LicenseType(in.LicenseType)
	if !licType.IsValid() {
		return nil, domain.NewValidationError("license_type", "tipo de licencia desconocido")
	}
	var lic *entity.License
	err := uc.tx.RunLicense(ctx, func(repo repository.LicenseRepository) error {
		seq, err := repo.NextSequence(ctx, licType, now.Year())
		if err != nil {
			return err
		}
		l, err := entity.NewLicense(entity.NewLicenseParams{
			CompanyID:               companyID,
			LicenseNumber:           entity.FormatLicenseNumber(licType, now.Year(), seq),
			Type:                    licType,
			Priority:                entity.Priority(in.Priority),
			RiskLevel:               entity.RiskLevel(in.RiskLevel),
			Title:                   in.Title,
			Description:             in.Description,
			Scope:                   in.Scope,
			Restrictions:            in.Restrictions,
			ConditionsSummary:       in.ConditionsSummary,
			IssuingAuthority:        in.IssuingAuthority,
			IssuingAuthorityContact: in.IssuingAuthorityContact,
			HolderID:                in.HolderID,
			HolderName:              in.HolderName,
			Department:              in.Department,
			IssuedDate:              in.IssuedDate,
			ExpiryDate:              in.ExpiryDate,
			RenewalRequired:         in.RenewalRequired,
			RenewalPeriodDays:       in.RenewalPeriodDays,
			AutoRenewal:             in.AutoRenewal,
			RenewalProcedure:        in.RenewalProcedure,
			LicenseFee:              in.LicenseFee,
			Currency:                in.Currency,
			IsCriticalLicense:       in.IsCriticalLicense,
			RequiresInsurance:       in.RequiresInsurance,
			RequiredInsuranceAmount: in.RequiredInsuranceAmount,
		}, actor, now)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, l); err != nil {
			return err
		}
		lic = l
		return nil
	})
	if err != nil {
		uc.metrics.OperationRejected("create", reasonOf(err))
		return nil, err
	}
	uc.afterCommit(ctx, lic, "create")
	return ToLicenseResponse(lic, now), nil
}

// Get devuelve la licencia completa (caché de lectura si está configurada).
func (uc *LicenseUseCase) Get(ctx context.Context, companyID string, id int64) (*dto.LicenseResponse, error) {
	cached, gen, cacheErr := uc.cache.Get(ctx, companyID, id)
	if cacheErr != nil {
		uc.log.Warn().Err(cacheErr).Int64("license_id", id).Msg("caché de licencias: lectura fallida")
	} else if cached != nil {
		return cached, nil
	}
	lic, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLicenseResponse(lic, uc.now())
	if cacheErr != nil {
		// Sin generación confiable no se escribe.
		return resp, nil
	}
	if err := uc.cache.Set(ctx, companyID, id, gen, resp); err != nil {
		uc.log.Warn().Err(err).Int64("license_id", id).Msg("caché de licencias: escritura fallida")
	}
	return resp, nil
}

// Load devuelve el agregado completo (lo usan los casos de uso de reportes).
func (uc *LicenseUseCase) Load(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	return uc.load(ctx, companyID, id)
}

func (uc *LicenseUseCase) load(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	lic, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, fmt.Errorf("licencia %d: %w", id, domain.ErrNotFound)
	}
	return lic, nil
}

// List lista licencias de la empresa con filtros de estado (separados por coma), tipo y texto.
func (uc *LicenseUseCase) List(ctx context.Context, companyID string, in dto.LicenseListRequest) (*dto.LicenseListResponse, error) {
	in.Normalize()
	f, err := uc.filterFrom(companyID, in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	items := make([]dto.LicenseSummaryResponse, 0, len(list))
	for _, l := range list {
		items = append(items, ToLicenseSummary(l, now))
	}
	return &dto.LicenseListResponse{
		Items: items,
		Page:  dto.NewPageResponse(in.Limit, in.Offset, total),
	}, nil
}

// ListAll recorre todas las páginas del filtro (exportaciones). Devuelve agregados sin bitácora.
func (uc *LicenseUseCase) ListAll(ctx context.Context, companyID string, in dto.LicenseListRequest) ([]*entity.License, error) {
	in.Limit, in.Offset = dto.MaxLicensePageSize, 0
	f, err := uc.filterFrom(companyID, in)
	if err != nil {
		return nil, err
	}
	var out []*entity.License
	for {
		page, total, err := uc.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		f.Offset += len(page)
		if len(page) == 0 || f.Offset >= total {
			return out, nil
		}
	}
}

func (uc *LicenseUseCase) filterFrom(companyID string, in dto.LicenseListRequest) (repository.LicenseFilter, error) {
	f := repository.LicenseFilter{
		CompanyID: companyID,
		Type:      entity.LicenseType(in.Type),
		Search:    strings.TrimSpace(in.Search),
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Status != "" {
		for _, s := range strings.Split(in.Status, ",") {
			st := entity.LicenseStatus(strings.ToUpper(strings.TrimSpace(s)))
			if !st.IsValid() {
				return f, domain.NewValidationError("status", "estado desconocido: "+s)
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	return f, nil
}

// History bitácora filtrada por rango y tipo de acción. Disponible aun tras eliminar la licencia.
func (uc *LicenseUseCase) History(ctx context.Context, companyID string, id int64, in dto.HistoryRequest) (*dto.HistoryResponse, error) {
	filter := entity.AuditFilter{From: in.From, To: in.To}
	for _, k := range in.Kind {
		a := entity.AuditAction(strings.ToUpper(strings.TrimSpace(k)))
		if !a.IsValid() {
			return nil, domain.NewValidationError("kind", "acción desconocida: "+k)
		}
		filter.Actions = append(filter.Actions, a)
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	entries, err := uc.repo.ListAuditTrail(ctx, companyID, id, filter)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		// Sin entradas: distinguir filtro vacío de licencia inexistente.
		all, err := uc.repo.ListAuditTrail(ctx, companyID, id, entity.AuditFilter{})
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("licencia %d: %w", id, domain.ErrNotFound)
		}
	}
	return &dto.HistoryResponse{LicenseID: id, Items: toAuditResponses(entries)}, nil
}

// ─── Edición (DRAFT / REJECTED) ──────────────────────────────────────────────

// Update reemplaza los datos descriptivos.
func (uc *LicenseUseCase) Update(ctx context.Context, companyID, actor string, id int64, in dto.UpdateLicenseRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdate, func(l *entity.License, now time.Time) error {
		return l.UpdateDetails(entity.LicenseDetails{
			Title:                   in.Title,
			Description:             in.Description,
			Scope:                   in.Scope,
			Restrictions:            in.Restrictions,
			ConditionsSummary:       in.ConditionsSummary,
			StatusNotes:             in.StatusNotes,
			Priority:                entity.Priority(in.Priority),
			IssuingAuthority:        in.IssuingAuthority,
			IssuingAuthorityContact: in.IssuingAuthorityContact,
			HolderID:                in.HolderID,
			HolderName:              in.HolderName,
			Department:              in.Department,
			IssuedDate:              in.IssuedDate,
			ExpiryDate:              in.ExpiryDate,
			LicenseFee:              in.LicenseFee,
			Currency:                in.Currency,
		}, actor, now)
	})
}

// SetRegulatoryInformation marco regulatorio.
func (uc *LicenseUseCase) SetRegulatoryInformation(ctx context.Context, companyID, actor string, id int64, in dto.RegulatoryInfoRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdate, func(l *entity.License, now time.Time) error {
		return l.SetRegulatoryInformation(in.RegulatoryFramework, in.ApplicableRegulations, in.ComplianceStandards, actor, now)
	})
}

// SetRiskAndCompliance riesgo y seguro.
func (uc *LicenseUseCase) SetRiskAndCompliance(ctx context.Context, companyID, actor string, id int64, in dto.RiskComplianceRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdate, func(l *entity.License, now time.Time) error {
		return l.SetRiskAndCompliance(entity.RiskLevel(in.RiskLevel), in.IsCriticalLicense, in.RequiresInsurance, in.RequiredInsuranceAmount, actor, now)
	})
}

// SetRenewalInformation política de renovación.
func (uc *LicenseUseCase) SetRenewalInformation(ctx context.Context, companyID, actor string, id int64, in dto.RenewalInfoRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdate, func(l *entity.License, now time.Time) error {
		return l.SetRenewalInformation(in.RenewalRequired, in.RenewalPeriodDays, in.AutoRenewal, in.RenewalProcedure, actor, now)
	})
}

// Delete elimina una licencia en DRAFT con sus adjuntos; la entrada Deleted queda en la bitácora.
func (uc *LicenseUseCase) Delete(ctx context.Context, companyID, actor string, id int64) error {
	var keys []string
	_, _, err := uc.mutate(ctx, companyID, id, entity.OpDelete, func(l *entity.License, now time.Time) error {
		for _, a := range l.Attachments() {
			keys = append(keys, a.StorageKey)
		}
		return l.Delete(actor, now)
	})
	if err != nil {
		return err
	}
	uc.deleteObjects(ctx, id, keys)
	return nil
}

// ─── Transiciones ────────────────────────────────────────────────────────────

// Submit DRAFT/REJECTED → SUBMITTED.
func (uc *LicenseUseCase) Submit(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpSubmit, func(l *entity.License, now time.Time) error {
		return l.Submit(actor, now)
	})
}

// BeginReview SUBMITTED → UNDER_REVIEW.
func (uc *LicenseUseCase) BeginReview(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpBeginReview, func(l *entity.License, now time.Time) error {
		return l.BeginReview(actor, now)
	})
}

// Approve SUBMITTED/UNDER_REVIEW → APPROVED.
func (uc *LicenseUseCase) Approve(ctx context.Context, companyID, actor string, id int64, notes string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpApprove, func(l *entity.License, now time.Time) error {
		return l.Approve(actor, notes, now)
	})
}

// Reject SUBMITTED/UNDER_REVIEW → REJECTED (motivo obligatorio).
func (uc *LicenseUseCase) Reject(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpReject, func(l *entity.License, now time.Time) error {
		return l.Reject(actor, reason, now)
	})
}

// Activate APPROVED → ACTIVE.
func (uc *LicenseUseCase) Activate(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpActivate, func(l *entity.License, now time.Time) error {
		return l.Activate(actor, now)
	})
}

// Suspend ACTIVE → SUSPENDED (motivo obligatorio).
func (uc *LicenseUseCase) Suspend(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpSuspend, func(l *entity.License, now time.Time) error {
		return l.Suspend(actor, reason, now)
	})
}

// Reinstate SUSPENDED → ACTIVE.
func (uc *LicenseUseCase) Reinstate(ctx context.Context, companyID, actor string, id int64, notes string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpReinstate, func(l *entity.License, now time.Time) error {
		return l.Reinstate(actor, notes, now)
	})
}

// Revoke cualquier estado no terminal → REVOKED (motivo obligatorio).
func (uc *LicenseUseCase) Revoke(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpRevoke, func(l *entity.License, now time.Time) error {
		return l.Revoke(actor, reason, now)
	})
}

// InitiateRenewal ACTIVE → PENDING_RENEWAL.
func (uc *LicenseUseCase) InitiateRenewal(ctx context.Context, companyID, actor string, id int64, in dto.InitiateRenewalRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpInitiateRenewal, func(l *entity.License, now time.Time) error {
		return l.InitiateRenewal(actor, in.Notes, in.ProposedExpiryDate, now)
	})
}

// ApproveRenewal PENDING_RENEWAL → ACTIVE con nuevo vencimiento.
func (uc *LicenseUseCase) ApproveRenewal(ctx context.Context, companyID, actor string, id int64, in dto.ApproveRenewalRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpApproveRenewal, func(l *entity.License, now time.Time) error {
		return l.ApproveRenewal(actor, in.NewExpiryDate, in.Notes, now)
	})
}

// RejectRenewal PENDING_RENEWAL → ACTIVE (o EXPIRED si ya venció).
func (uc *LicenseUseCase) RejectRenewal(ctx context.Context, companyID, actor string, id int64, reason string) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpRejectRenewal, func(l *entity.License, now time.Time) error {
		return l.RejectRenewal(actor, reason, now)
	})
}

// Expire marca como vencida una licencia cuya fecha ya pasó (lo invoca el barrido).
func (uc *LicenseUseCase) Expire(ctx context.Context, companyID, actor string, id int64) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpExpire, func(l *entity.License, now time.Time) error {
		return l.Expire(actor, now)
	})
}

// ─── Unidad de trabajo ───────────────────────────────────────────────────────

func (uc *LicenseUseCase) apply(ctx context.Context, companyID string, id int64, op entity.LicenseOperation, fn func(l *entity.License, now time.Time) error) (*dto.LicenseResponse, error) {
	lic, now, err := uc.mutate(ctx, companyID, id, op, fn)
	if err != nil {
		return nil, err
	}
	return ToLicenseResponse(lic, now), nil
}

// mutate carga con bloqueo de fila, aplica fn, persiste y hace commit. Los efectos secundarios
// (caché, eventos, métricas) corren después del commit y nunca hacen fallar la operación.
func (uc *LicenseUseCase) mutate(ctx context.Context, companyID string, id int64, op entity.LicenseOperation, fn func(l *entity.License, now time.Time) error) (*entity.License, time.Time, error) {
	now := uc.now()
	var lic *entity.License
	err := uc.tx.RunLicense(ctx, func(repo repository.LicenseRepository) error {
		l, err := repo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("licencia %d: %w", id, domain.ErrNotFound)
		}
		if err := fn(l, now); err != nil {
			return err
		}
		if l.IsDeleted() {
			err = repo.Delete(ctx, l)
		} else {
			err = repo.Save(ctx, l)
		}
		if err != nil {
			return err
		}
		lic = l
		return nil
	})
	if err != nil {
		uc.metrics.OperationRejected(string(op), reasonOf(err))
		return nil, now, err
	}
	uc.afterCommit(ctx, lic, string(op))
	return lic, now, nil
}

func (uc *LicenseUseCase) afterCommit(ctx context.Context, lic *entity.License, op string) {
	if err := uc.cache.Invalidate(ctx, lic.CompanyID, lic.ID); err != nil {
		uc.log.Warn().Err(err).Int64("license_id", lic.ID).Msg("caché de licencias: invalidación fallida")
	}
	entry, hasEntry := lic.LastAuditEntry()
	if hasEntry {
		evt := Event{
			ID:            uuid.NewString(),
			CompanyID:     lic.CompanyID,
			LicenseID:     lic.ID,
			LicenseNumber: lic.LicenseNumber,
			Action:        string(entry.Action),
			Status:        string(lic.Status),
			Description:   entry.Description,
			Actor:         entry.PerformedBy,
			OccurredAt:    entry.PerformedAt,
		}
		if err := uc.events.Publish(ctx, evt); err != nil {
			uc.log.Warn().Err(err).Int64("license_id", lic.ID).Str("action", evt.Action).Msg("publicación de evento fallida")
		}
	}
	uc.metrics.OperationApplied(op, string(lic.Status))
	uc.log.Info().
		Int64("license_id", lic.ID).
		Str("license_number", lic.LicenseNumber).
		Str("operation", op).
		Str("actor", entry.PerformedBy).
		Str("status", string(lic.Status)).
		Msg("operación de licencia aplicada")
}

func (uc *LicenseUseCase) deleteObjects(ctx context.Context, id int64, keys []string) {
	if uc.storage == nil {
		return
	}
	for _, k := range keys {
		if err := uc.storage.Delete(ctx, k); err != nil {
			uc.log.Warn().Err(err).Int64("license_id", id).Str("key", k).Msg("no se pudo eliminar el objeto adjunto")
		}
	}
}

// reasonOf clasifica el error para la métrica de operaciones rechazadas.
func reasonOf(err error) string {
	switch {
	case domain.IsStateTransition(err):
		return "state_transition"
	case domain.IsValidation(err):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
