package entity

import (
	"math"
	"time"
)

// DefaultExpiryWindowDays ventana de alerta del tablero cuando no hay período de renovación configurado.
const DefaultExpiryWindowDays = 30

// Códigos de advertencia de cumplimiento (no bloquean operaciones).
const (
	WarningCriticalWithoutInsurance = "CRITICAL_WITHOUT_INSURANCE"
	WarningInsuranceAmountMissing   = "INSURANCE_AMOUNT_MISSING"
	WarningOverdueMandatory         = "OVERDUE_MANDATORY_CONDITIONS"
)

// ComputeNextRenewalDate = expiry − periodDays; nil cuando no hay período.
func ComputeNextRenewalDate(expiry time.Time, periodDays int) *time.Time {
	if periodDays <= 0 || expiry.IsZero() {
		return nil
	}
	t := expiry.AddDate(0, 0, -periodDays)
	return &t
}

// IsExpiring licencia Active con now ≤ ExpiryDate < now + RenewalPeriodDays.
// Sin período de renovación nunca está por vencer.
func (l *License) IsExpiring(now time.Time) bool {
	return l.activeWithin(now, l.RenewalPeriodDays)
}

// AlertWindow ventana de IsExpiringSoon: el período de renovación o DefaultExpiryWindowDays.
func (l *License) AlertWindow() time.Duration {
	days := l.RenewalPeriodDays
	if days <= 0 {
		days = DefaultExpiryWindowDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// IsExpiringSoon alerta del tablero: como IsExpiring, pero las licencias sin período de
// renovación también avisan dentro de DefaultExpiryWindowDays.
func (l *License) IsExpiringSoon(now time.Time) bool {
	return l.activeWithin(now, int(l.AlertWindow()/(24*time.Hour)))
}

func (l *License) activeWithin(now time.Time, days int) bool {
	if l.Status != LicenseStatusActive || days <= 0 {
		return false
	}
	window := time.Duration(days) * 24 * time.Hour
	return !l.ExpiryDate.Before(now) && l.ExpiryDate.Before(now.Add(window))
}

// IsExpired now > ExpiryDate en cualquier estado salvo Revoked.
func (l *License) IsExpired(now time.Time) bool {
	if l.Status == LicenseStatusRevoked {
		return false
	}
	return now.After(l.ExpiryDate)
}

// DaysUntilExpiry días completos hasta el vencimiento; negativo si ya venció.
func (l *License) DaysUntilExpiry(now time.Time) int {
	return int(math.Floor(l.ExpiryDate.Sub(now).Hours() / 24))
}

// OverdueConditions condiciones vencidas (cualquier obligatoriedad).
func (l *License) OverdueConditions(now time.Time) []LicenseCondition {
	var out []LicenseCondition
	for _, c := range l.Conditions() {
		if c.IsOverdue(now) {
			out = append(out, c)
		}
	}
	return out
}

// OverdueMandatoryConditions condiciones obligatorias vencidas: señal de incumplimiento.
func (l *License) OverdueMandatoryConditions(now time.Time) []LicenseCondition {
	var out []LicenseCondition
	for _, c := range l.OverdueConditions(now) {
		if c.IsMandatory {
			out = append(out, c)
		}
	}
	return out
}

// ComplianceWarnings advertencias de configuración que el agregado admite pero reporta.
func (l *License) ComplianceWarnings() []string {
	var out []string
	if l.IsCriticalLicense && !l.RequiresInsurance {
		out = append(out, WarningCriticalWithoutInsurance)
	}
	if l.RequiresInsurance && !l.RequiredInsuranceAmount.IsPositive() {
		out = append(out, WarningInsuranceAmountMissing)
	}
	return out
}

// ComplianceWarningsAt agrega a ComplianceWarnings las señales que dependen del tiempo.
func (l *License) ComplianceWarningsAt(now time.Time) []string {
	out := l.ComplianceWarnings()
	if len(l.OverdueMandatoryConditions(now)) > 0 {
		out = append(out, WarningOverdueMandatory)
	}
	return out
}
