package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

func TestIsExpiring_DiezDiasConPeriodoTreinta(t *testing.T) {
	p := validParams(30)
	p.ExpiryDate = t0.AddDate(0, 0, 10)
	l, err := entity.NewLicense(p, actor, t0)
	require.NoError(t, err)
	require.NoError(t, l.Submit(actor, t0))
	require.NoError(t, l.Approve(actor, "", t0))
	require.NoError(t, l.Activate(actor, t0))

	assert.True(t, l.IsExpiring(t0))
	assert.False(t, l.IsExpired(t0))
	assert.Equal(t, 10, l.DaysUntilExpiry(t0))
}

func TestIsExpiring_SoloEnActive(t *testing.T) {
	p := validParams(30)
	p.ExpiryDate = t0.AddDate(0, 0, 10)
	l, err := entity.NewLicense(p, actor, t0)
	require.NoError(t, err)
	assert.False(t, l.IsExpiring(t0), "Draft nunca está por vencer")
}

func TestIsExpiring_SinPeriodoNuncaPorVencer(t *testing.T) {
	l := newActive(t, 0)
	assert.False(t, l.IsExpiring(l.ExpiryDate.AddDate(0, 0, -10)))
	assert.False(t, l.IsExpiring(l.ExpiryDate))
}

func TestIsExpiringSoon_VentanaDeAlertaPorDefecto(t *testing.T) {
	l := newActive(t, 0)
	assert.Equal(t, entity.DefaultExpiryWindowDays*24*time.Hour, l.AlertWindow())
	assert.False(t, l.IsExpiringSoon(l.ExpiryDate.AddDate(0, 0, -31)))
	assert.True(t, l.IsExpiringSoon(l.ExpiryDate.AddDate(0, 0, -29)))
	assert.True(t, l.IsExpiringSoon(l.ExpiryDate), "límite inferior inclusivo")
	assert.False(t, l.IsExpiringSoon(l.ExpiryDate.Add(time.Second)))
}

func TestIsExpiringSoon_ConPeriodoCoincideConIsExpiring(t *testing.T) {
	l := newActive(t, 60)
	for _, days := range []int{-61, -59, -10, 0} {
		now := l.ExpiryDate.AddDate(0, 0, days)
		assert.Equal(t, l.IsExpiring(now), l.IsExpiringSoon(now), "días %d", days)
	}
	assert.True(t, l.IsExpiring(l.ExpiryDate.AddDate(0, 0, -45)))
}

func TestIsExpired_RevocadaNoVence(t *testing.T) {
	l := newActive(t, 30)
	after := l.ExpiryDate.Add(time.Hour)
	assert.True(t, l.IsExpired(after))
	assert.Negative(t, l.DaysUntilExpiry(after.Add(24*time.Hour)))

	require.NoError(t, l.Revoke(actor, "cierre", t0.Add(5*time.Hour)))
	assert.False(t, l.IsExpired(after))
}

func TestComputeNextRenewalDate(t *testing.T) {
	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, entity.ComputeNextRenewalDate(expiry, 0))
	assert.Nil(t, entity.ComputeNextRenewalDate(expiry, -1))
	got := entity.ComputeNextRenewalDate(expiry, 31)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *got)
}

func TestComplianceWarnings(t *testing.T) {
	l := newDraft(t, 30)
	assert.Empty(t, l.ComplianceWarnings())

	require.NoError(t, l.SetRiskAndCompliance(entity.RiskCritical, true, false, decimal.Zero, actor, t0.Add(time.Hour)))
	assert.Equal(t, []string{entity.WarningCriticalWithoutInsurance}, l.ComplianceWarnings())

	require.NoError(t, l.SetRiskAndCompliance(entity.RiskCritical, true, true, decimal.Zero, actor, t0.Add(2*time.Hour)))
	assert.Equal(t, []string{entity.WarningInsuranceAmountMissing}, l.ComplianceWarnings())

	require.NoError(t, l.SetRiskAndCompliance(entity.RiskCritical, true, true, decimal.NewFromInt(50000), actor, t0.Add(3*time.Hour)))
	assert.Empty(t, l.ComplianceWarnings())

	due := t0.Add(24 * time.Hour)
	_, err := l.AddCondition(entity.ConditionParams{ConditionType: "SEGURO", Description: "Póliza", IsMandatory: true, DueDate: &due}, actor, t0.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{entity.WarningOverdueMandatory}, l.ComplianceWarningsAt(due.Add(time.Hour)))
}

func TestFormatLicenseNumber(t *testing.T) {
	assert.Equal(t, "ENV-26-0001", entity.FormatLicenseNumber(entity.LicenseTypeEnvironmental, 2026, 1))
	assert.Equal(t, "CHM-30-0123", entity.FormatLicenseNumber(entity.LicenseTypeChemical, 2030, 123))
	assert.Equal(t, "OTH-26-10000", entity.FormatLicenseNumber(entity.LicenseTypeOther, 2026, 10000))
}

func TestAuditFilter(t *testing.T) {
	entries := []entity.AuditEntry{
		{Action: entity.AuditCreated, PerformedAt: t0},
		{Action: entity.AuditSubmitted, PerformedAt: t0.Add(time.Hour)},
		{Action: entity.AuditApproved, PerformedAt: t0.Add(2 * time.Hour)},
	}
	from := t0.Add(time.Hour)
	got := entity.FilterAuditTrail(entries, entity.AuditFilter{From: &from})
	require.Len(t, got, 2)

	got = entity.FilterAuditTrail(entries, entity.AuditFilter{Actions: []entity.AuditAction{entity.AuditCreated, entity.AuditApproved}})
	require.Len(t, got, 2)
	assert.Equal(t, entity.AuditApproved, got[1].Action)

	assert.Len(t, entity.FilterAuditTrail(entries, entity.AuditFilter{}), 3)
}
