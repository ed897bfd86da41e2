package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

const actor = "ana.perez@planta.co"

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewLicense_CreaEnDraftConAuditoria(t *testing.T) {
	l := newDraft(t, 30)

	assert.Equal(t, entity.LicenseStatusDraft, l.Status)
	assert.Equal(t, "ENV-26-0001", l.LicenseNumber)
	assert.Equal(t, entity.DefaultCurrency, l.Currency)
	assert.Equal(t, actor, l.CreatedBy)
	require.NotNil(t, l.NextRenewalDate)
	assert.Equal(t, l.ExpiryDate.AddDate(0, 0, -30), *l.NextRenewalDate)

	trail := l.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, entity.AuditCreated, trail[0].Action)
	assert.Equal(t, actor, trail[0].PerformedBy)
}

func TestNewLicense_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(p *entity.NewLicenseParams)
		field string
	}{
		{"sin título", func(p *entity.NewLicenseParams) { p.Title = "  " }, "title"},
		{"tipo desconocido", func(p *entity.NewLicenseParams) { p.Type = "MINING" }, "license_type"},
		{"vencimiento antes de emisión", func(p *entity.NewLicenseParams) { p.ExpiryDate = p.IssuedDate.AddDate(0, 0, -1) }, "expiry_date"},
		{"vencimiento igual a emisión", func(p *entity.NewLicenseParams) { p.ExpiryDate = p.IssuedDate }, "expiry_date"},
		{"tarifa negativa", func(p *entity.NewLicenseParams) { p.LicenseFee = decimal.NewFromInt(-1) }, "license_fee"},
		{"moneda inválida", func(p *entity.NewLicenseParams) { p.Currency = "usd" }, "currency"},
		{"período negativo", func(p *entity.NewLicenseParams) { p.RenewalPeriodDays = -5 }, "renewal_period_days"},
		{"renovación sin período", func(p *entity.NewLicenseParams) { p.RenewalRequired = true; p.RenewalPeriodDays = 0 }, "renewal_period_days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams(30)
			tc.mut(&p)
			_, err := entity.NewLicense(p, actor, t0)
			assertValidation(t, err, tc.field)
		})
	}
}

func TestNewLicense_CriticaSinSeguroSeAdmitePeroAdvierte(t *testing.T) {
	p := validParams(30)
	p.IsCriticalLicense = true
	l, err := entity.NewLicense(p, actor, t0)
	require.NoError(t, err)
	assert.Contains(t, l.ComplianceWarnings(), entity.WarningCriticalWithoutInsurance)
}

func TestLicense_RoundTripHastaActive(t *testing.T) {
	l := newDraft(t, 30)

	require.NoError(t, l.Submit(actor, t0.Add(1*time.Hour)))
	require.NoError(t, l.Approve("jefe.hse", "cumple requisitos", t0.Add(2*time.Hour)))
	require.NoError(t, l.Activate("jefe.hse", t0.Add(3*time.Hour)))

	assert.Equal(t, entity.LicenseStatusActive, l.Status)
	require.NotNil(t, l.SubmittedDate)
	require.NotNil(t, l.ApprovedDate)
	require.NotNil(t, l.ActivatedDate)
	assert.True(t, l.SubmittedDate.Before(*l.ApprovedDate))
	assert.True(t, l.ApprovedDate.Before(*l.ActivatedDate))
	assert.Equal(t, "cumple requisitos", l.ApprovalNotes)
	assertActions(t, l, entity.AuditCreated, entity.AuditSubmitted, entity.AuditApproved, entity.AuditActivated)
}

func TestLicense_RevisionYRechazoConReenvio(t *testing.T) {
	l := newDraft(t, 30)
	require.NoError(t, l.Submit(actor, t0.Add(time.Hour)))
	firstSubmit := *l.SubmittedDate
	require.NoError(t, l.BeginReview("revisor", t0.Add(2*time.Hour)))
	assert.Equal(t, entity.LicenseStatusUnderReview, l.Status)

	require.NoError(t, l.Reject("revisor", "falta plano de vertimientos", t0.Add(3*time.Hour)))
	assert.Equal(t, entity.LicenseStatusRejected, l.Status)
	assert.Equal(t, "falta plano de vertimientos", l.RejectionReason)

	// Rechazada vuelve a ser editable y puede reenviarse.
	_, err := l.AddCondition(entity.ConditionParams{ConditionType: "DOCUMENTAL", Description: "Plano"}, actor, t0.Add(4*time.Hour))
	require.NoError(t, err)
	require.NoError(t, l.Submit(actor, t0.Add(5*time.Hour)))
	assert.Equal(t, entity.LicenseStatusSubmitted, l.Status)
	assert.Equal(t, firstSubmit, *l.SubmittedDate, "SubmittedDate se fija una sola vez")
}

func TestLicense_TransicionIlegalNoMuta(t *testing.T) {
	l := newDraft(t, 30)
	before := snapshot(l)

	ops := map[string]func() error{
		"approve":          func() error { return l.Approve(actor, "", t0.Add(time.Hour)) },
		"reject":           func() error { return l.Reject(actor, "motivo", t0.Add(time.Hour)) },
		"activate":         func() error { return l.Activate(actor, t0.Add(time.Hour)) },
		"suspend":          func() error { return l.Suspend(actor, "motivo", t0.Add(time.Hour)) },
		"reinstate":        func() error { return l.Reinstate(actor, "", t0.Add(time.Hour)) },
		"begin_review":     func() error { return l.BeginReview(actor, t0.Add(time.Hour)) },
		"initiate_renewal": func() error { return l.InitiateRenewal(actor, "", nil, t0.Add(time.Hour)) },
		"approve_renewal":  func() error { return l.ApproveRenewal(actor, t0.AddDate(3, 0, 0), "", t0.Add(time.Hour)) },
		"reject_renewal":   func() error { return l.RejectRenewal(actor, "motivo", t0.Add(time.Hour)) },
		"expire":           func() error { return l.Expire(actor, t0.AddDate(5, 0, 0)) },
	}
	for name, op := range ops {
		err := op()
		var ste *domain.StateTransitionError
		require.True(t, errors.As(err, &ste), "%s debe fallar desde Draft", name)
		assert.Equal(t, string(entity.LicenseStatusDraft), ste.Current)
		assert.Equal(t, name, ste.Operation)
		assert.Equal(t, before, snapshot(l), "%s no debe mutar la licencia", name)
	}
}

func TestLicense_MotivoVacioEsValidationError(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		l := newDraft(t, 30)
		require.NoError(t, l.Submit(actor, t0.Add(time.Hour)))
		before := snapshot(l)
		assertValidation(t, l.Reject(actor, "   ", t0.Add(2*time.Hour)), "reason")
		assert.Equal(t, before, snapshot(l))
	})
	t.Run("suspend", func(t *testing.T) {
		l := newActive(t, 30)
		before := snapshot(l)
		assertValidation(t, l.Suspend(actor, "", t0.Add(5*time.Hour)), "reason")
		assert.Equal(t, before, snapshot(l))
	})
	t.Run("revoke", func(t *testing.T) {
		l := newActive(t, 30)
		before := snapshot(l)
		assertValidation(t, l.Revoke(actor, "", t0.Add(5*time.Hour)), "reason")
		assert.Equal(t, before, snapshot(l))
	})
}

func TestLicense_RevocarSuspendidaLuegoActivarFalla(t *testing.T) {
	l := newActive(t, 30)
	require.NoError(t, l.Suspend(actor, "derrame no reportado", t0.Add(5*time.Hour)))
	require.NoError(t, l.Revoke(actor, "safety violation", t0.Add(6*time.Hour)))

	assert.Equal(t, entity.LicenseStatusRevoked, l.Status)
	assert.Equal(t, "safety violation", l.RevocationReason)
	require.NotNil(t, l.RevokedDate)

	err := l.Activate(actor, t0.Add(7*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	assert.Equal(t, entity.LicenseStatusRevoked, l.Status)
}

func TestLicense_SuspenderYRehabilitar(t *testing.T) {
	l := newActive(t, 30)
	require.NoError(t, l.Suspend(actor, "inspección pendiente", t0.Add(5*time.Hour)))
	assert.Equal(t, entity.LicenseStatusSuspended, l.Status)
	require.NoError(t, l.Reinstate(actor, "inspección aprobada", t0.Add(6*time.Hour)))
	assert.Equal(t, entity.LicenseStatusActive, l.Status)
	assert.Equal(t, "inspección pendiente", l.SuspensionReason)
}

func TestLicense_EdicionSoloEnDraftORejected(t *testing.T) {
	l := newActive(t, 30)
	before := snapshot(l)

	err := l.UpdateDetails(detailsOf(l), actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	err = l.SetRegulatoryInformation("Decreto 1076", "", "", actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	err = l.SetRiskAndCompliance(entity.RiskHigh, true, true, decimal.NewFromInt(1000), actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	err = l.SetRenewalInformation(true, 60, false, "", actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	_, err = l.AddCondition(entity.ConditionParams{ConditionType: "X", Description: "Y"}, actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))
	err = l.RemoveCondition(1, actor, t0.Add(5*time.Hour))
	assert.True(t, domain.IsStateTransition(err))

	assert.Equal(t, before, snapshot(l))
}

func TestLicense_UpdateDetailsRecalculaRenovacion(t *testing.T) {
	l := newDraft(t, 30)
	d := detailsOf(l)
	d.Title = "Permiso de vertimientos"
	d.ExpiryDate = l.ExpiryDate.AddDate(1, 0, 0)
	require.NoError(t, l.UpdateDetails(d, actor, t0.Add(time.Hour)))

	assert.Equal(t, "Permiso de vertimientos", l.Title)
	require.NotNil(t, l.NextRenewalDate)
	assert.Equal(t, d.ExpiryDate.AddDate(0, 0, -30), *l.NextRenewalDate)

	require.NoError(t, l.SetRenewalInformation(false, 0, false, "", actor, t0.Add(2*time.Hour)))
	assert.Nil(t, l.NextRenewalDate)
	assertActions(t, l, entity.AuditCreated, entity.AuditUpdated, entity.AuditUpdated)
}

func TestLicense_DeleteSoloEnDraft(t *testing.T) {
	l := newDraft(t, 30)
	require.NoError(t, l.Delete(actor, t0.Add(time.Hour)))
	assert.True(t, l.IsDeleted())
	last, ok := l.LastAuditEntry()
	require.True(t, ok)
	assert.Equal(t, entity.AuditDeleted, last.Action)

	sub := newDraft(t, 30)
	require.NoError(t, sub.Submit(actor, t0.Add(time.Hour)))
	err := sub.Delete(actor, t0.Add(2*time.Hour))
	var ste *domain.StateTransitionError
	require.True(t, errors.As(err, &ste))
	assert.Equal(t, "delete", ste.Operation)
	assert.False(t, sub.IsDeleted())
}

func TestLicense_ActorObligatorio(t *testing.T) {
	l := newDraft(t, 30)
	assertValidation(t, l.Submit("", t0.Add(time.Hour)), "actor")
	assert.Equal(t, entity.LicenseStatusDraft, l.Status)
}

func TestLicense_CadaOperacionAgregaUnaEntradaMonotonica(t *testing.T) {
	l := newDraft(t, 30)
	var condID int64
	steps := []struct {
		kind entity.AuditAction
		run  func(now time.Time) error
	}{
		{entity.AuditUpdated, func(now time.Time) error {
			return l.SetRegulatoryInformation("Ley 99", "Decreto 1076", "ISO 14001", actor, now)
		}},
		{entity.AuditConditionAdded, func(now time.Time) error {
			c, err := l.AddCondition(entity.ConditionParams{ConditionType: "MONITOREO", Description: "Informe trimestral", IsMandatory: true}, actor, now)
			condID = c.ID
			return err
		}},
		{entity.AuditSubmitted, func(now time.Time) error { return l.Submit(actor, now) }},
		{entity.AuditReviewStarted, func(now time.Time) error { return l.BeginReview(actor, now) }},
		{entity.AuditApproved, func(now time.Time) error { return l.Approve(actor, "", now) }},
		{entity.AuditActivated, func(now time.Time) error { return l.Activate(actor, now) }},
		{entity.AuditConditionUpdated, func(now time.Time) error {
			return l.UpdateConditionStatus(condID, entity.ConditionInProgress, actor, "", now)
		}},
		{entity.AuditConditionCompleted, func(now time.Time) error {
			return l.CompleteCondition(condID, actor, "informe-q1.pdf", "", now)
		}},
		{entity.AuditAttachmentAdded, func(now time.Time) error {
			_, err := l.AddAttachment(entity.AttachmentParams{FileName: "resolucion.pdf", StorageKey: "k1", SizeBytes: 10}, actor, now)
			return err
		}},
		{entity.AuditAttachmentRemoved, func(now time.Time) error {
			_, err := l.RemoveAttachment(0, actor, now)
			return err
		}},
		{entity.AuditSuspended, func(now time.Time) error { return l.Suspend(actor, "auditoría", now) }},
		{entity.AuditReinstated, func(now time.Time) error { return l.Reinstate(actor, "", now) }},
		{entity.AuditRenewalInitiated, func(now time.Time) error { return l.InitiateRenewal(actor, "", nil, now) }},
		{entity.AuditRenewalApproved, func(now time.Time) error {
			return l.ApproveRenewal(actor, l.ExpiryDate.AddDate(1, 0, 0), "", now)
		}},
		{entity.AuditRevoked, func(now time.Time) error { return l.Revoke(actor, "cierre de planta", now) }},
	}

	// El reloj retrocede a propósito en un paso: la bitácora no debe retroceder.
	now := t0
	for i, st := range steps {
		if i == 7 {
			now = now.Add(-30 * time.Minute)
		} else {
			now = now.Add(time.Hour)
		}
		prev := l.AuditTrail()
		require.NoError(t, st.run(now), "paso %d (%s)", i, st.kind)
		trail := l.AuditTrail()
		require.Len(t, trail, len(prev)+1, "paso %d", i)
		last := trail[len(trail)-1]
		assert.Equal(t, st.kind, last.Action, "paso %d", i)
		assert.False(t, last.PerformedAt.Before(prev[len(prev)-1].PerformedAt), "paso %d retrocede en el tiempo", i)
	}
}

func TestLicense_RenovacionAprobadaExtiendeVencimiento(t *testing.T) {
	l := newActive(t, 30)
	oldExpiry := l.ExpiryDate
	proposed := oldExpiry.AddDate(1, 0, 0)

	require.NoError(t, l.InitiateRenewal(actor, "solicitud anual", &proposed, t0.Add(5*time.Hour)))
	assert.Equal(t, entity.LicenseStatusPendingRenewal, l.Status)
	assert.Equal(t, oldExpiry, l.ExpiryDate, "iniciar la renovación no cambia el vencimiento")
	pending, ok := l.PendingRenewal()
	require.True(t, ok)
	assert.Equal(t, 1, pending.Sequence)
	assert.Equal(t, oldExpiry, pending.PreviousExpiryDate)

	assertValidation(t, l.ApproveRenewal(actor, oldExpiry, "", t0.Add(6*time.Hour)), "new_expiry_date")

	require.NoError(t, l.ApproveRenewal(actor, proposed, "ok", t0.Add(6*time.Hour)))
	assert.Equal(t, entity.LicenseStatusActive, l.Status)
	assert.Equal(t, proposed, l.ExpiryDate)
	require.NotNil(t, l.NextRenewalDate)
	assert.Equal(t, proposed.AddDate(0, 0, -30), *l.NextRenewalDate)

	renewals := l.Renewals()
	require.Len(t, renewals, 1)
	assert.Equal(t, entity.RenewalApproved, renewals[0].Status)
	_, ok = l.PendingRenewal()
	assert.False(t, ok)
}

func TestLicense_RenovacionRechazada(t *testing.T) {
	t.Run("vigente vuelve a Active", func(t *testing.T) {
		l := newActive(t, 30)
		require.NoError(t, l.InitiateRenewal(actor, "", nil, t0.Add(5*time.Hour)))
		assertValidation(t, l.RejectRenewal(actor, "", t0.Add(6*time.Hour)), "reason")
		require.NoError(t, l.RejectRenewal(actor, "documentación incompleta", t0.Add(6*time.Hour)))
		assert.Equal(t, entity.LicenseStatusActive, l.Status)
		assert.Nil(t, l.ExpiredDate)
		assert.Equal(t, entity.RenewalRejected, l.Renewals()[0].Status)
	})
	t.Run("vencida pasa a Expired", func(t *testing.T) {
		l := newActive(t, 30)
		require.NoError(t, l.InitiateRenewal(actor, "", nil, t0.Add(5*time.Hour)))
		after := l.ExpiryDate.Add(24 * time.Hour)
		require.NoError(t, l.RejectRenewal(actor, "fuera de plazo", after))
		assert.Equal(t, entity.LicenseStatusExpired, l.Status)
		require.NotNil(t, l.ExpiredDate)
		last, _ := l.LastAuditEntry()
		assert.Equal(t, entity.AuditRenewalRejected, last.Action)
	})
}

func TestLicense_InitiateRenewalValidaFechaPropuesta(t *testing.T) {
	l := newActive(t, 30)
	bad := l.ExpiryDate.AddDate(0, 0, -1)
	assertValidation(t, l.InitiateRenewal(actor, "", &bad, t0.Add(5*time.Hour)), "proposed_expiry_date")
	assert.Equal(t, entity.LicenseStatusActive, l.Status)
	assert.Empty(t, l.Renewals())
}

func TestLicense_Expire(t *testing.T) {
	l := newActive(t, 30)
	assertValidation(t, l.Expire("sistema", l.ExpiryDate), "expiry_date")
	assert.Equal(t, entity.LicenseStatusActive, l.Status)

	require.NoError(t, l.InitiateRenewal(actor, "", nil, t0.Add(5*time.Hour)))
	require.NoError(t, l.Expire("sistema", l.ExpiryDate.Add(time.Minute)))
	assert.Equal(t, entity.LicenseStatusExpired, l.Status)
	require.NotNil(t, l.ExpiredDate)
	assert.Equal(t, entity.RenewalRejected, l.Renewals()[0].Status, "la renovación abierta se cierra")

	assert.True(t, domain.IsStateTransition(l.Revoke(actor, "tarde", l.ExpiryDate.Add(time.Hour))))
}

func TestLicense_ColeccionesSonCopias(t *testing.T) {
	l := newDraft(t, 30)
	due := t0.AddDate(0, 1, 0)
	_, err := l.AddCondition(entity.ConditionParams{ConditionType: "X", Description: "Y", DueDate: &due}, actor, t0.Add(time.Hour))
	require.NoError(t, err)

	conds := l.Conditions()
	conds[0].Status = entity.ConditionCompleted
	*conds[0].DueDate = t0
	trail := l.AuditTrail()
	trail[0].PerformedBy = "intruso"

	fresh := l.Conditions()
	assert.Equal(t, entity.ConditionPending, fresh[0].Status)
	assert.Equal(t, due, *fresh[0].DueDate)
	assert.Equal(t, actor, l.AuditTrail()[0].PerformedBy)
}

func TestLicense_ProyeccionesDeBitacora(t *testing.T) {
	l := newActive(t, 30)
	approved := l.AuditTrailByAction(entity.AuditApproved)
	require.Len(t, approved, 1)

	between := l.AuditTrailBetween(t0.Add(90*time.Minute), t0.Add(3*time.Hour))
	require.Len(t, between, 2)
	assert.Equal(t, entity.AuditApproved, between[0].Action)
	assert.Equal(t, entity.AuditActivated, between[1].Action)
}

// ─── Helpers de test ─────────────────────────────────────────────────────────

func validParams(periodDays int) entity.NewLicenseParams {
	return entity.NewLicenseParams{
		CompanyID:         "c1",
		LicenseNumber:     entity.FormatLicenseNumber(entity.LicenseTypeEnvironmental, 2026, 1),
		Type:              entity.LicenseTypeEnvironmental,
		Priority:          entity.PriorityHigh,
		Title:             "Licencia ambiental planta norte",
		IssuingAuthority:  "Autoridad Ambiental Regional",
		HolderName:        "Planta Norte S.A.",
		IssuedDate:        t0,
		ExpiryDate:        t0.AddDate(1, 0, 0),
		RenewalRequired:   periodDays > 0,
		RenewalPeriodDays: periodDays,
		LicenseFee:        decimal.RequireFromString("1250.50"),
	}
}

func newDraft(t *testing.T, periodDays int) *entity.License {
	t.Helper()
	l, err := entity.NewLicense(validParams(periodDays), actor, t0)
	require.NoError(t, err)
	return l
}

// newActive recorre Submit(+1h) → Approve(+2h) → Activate(+3h).
func newActive(t *testing.T, periodDays int) *entity.License {
	t.Helper()
	l := newDraft(t, periodDays)
	require.NoError(t, l.Submit(actor, t0.Add(time.Hour)))
	require.NoError(t, l.Approve(actor, "", t0.Add(2*time.Hour)))
	require.NoError(t, l.Activate(actor, t0.Add(3*time.Hour)))
	return l
}

func detailsOf(l *entity.License) entity.LicenseDetails {
	return entity.LicenseDetails{
		Title:            l.Title,
		Priority:         l.Priority,
		IssuingAuthority: l.IssuingAuthority,
		HolderName:       l.HolderName,
		IssuedDate:       l.IssuedDate,
		ExpiryDate:       l.ExpiryDate,
		LicenseFee:       l.LicenseFee,
		Currency:         l.Currency,
	}
}

type licenseSnapshot struct {
	Status     entity.LicenseStatus
	Fields     entity.License
	Conditions []entity.LicenseCondition
	Renewals   []entity.LicenseRenewal
	Audit      []entity.AuditEntry
}

func snapshot(l *entity.License) licenseSnapshot {
	fields := *l
	fields.Restore(nil, nil, nil, nil)
	return licenseSnapshot{
		Status:     l.Status,
		Fields:     fields,
		Conditions: l.Conditions(),
		Renewals:   l.Renewals(),
		Audit:      l.AuditTrail(),
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba ValidationError, se obtuvo %v", err)
	assert.Equal(t, field, ve.Field)
}

func assertActions(t *testing.T, l *entity.License, want ...entity.AuditAction) {
	t.Helper()
	trail := l.AuditTrail()
	got := make([]entity.AuditAction, len(trail))
	for i, e := range trail {
		got[i] = e.Action
	}
	assert.Equal(t, want, got)
}
