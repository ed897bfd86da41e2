package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/application/analytics"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeCompliance struct {
	counts    map[entity.LicenseStatus]int
	monitored []*entity.License
	err       error
}

func (f *fakeCompliance) CountByStatus(context.Context, string) (map[entity.LicenseStatus]int, error) {
	return f.counts, f.err
}

func (f *fakeCompliance) ListMonitored(context.Context, string) ([]*entity.License, error) {
	return f.monitored, nil
}

// activeLicense crea una licencia Active con vencimiento en expiryIn y, si dueIn != 0,
// una condición obligatoria con esa fecha límite.
func activeLicense(t *testing.T, id int64, expiryIn, dueIn time.Duration, critical bool) *entity.License {
	t.Helper()
	start := now.AddDate(-1, 0, 0)
	l, err := entity.NewLicense(entity.NewLicenseParams{
		CompanyID:         "c1",
		LicenseNumber:     entity.FormatLicenseNumber(entity.LicenseTypeEnvironmental, 2026, int(id)),
		Type:              entity.LicenseTypeEnvironmental,
		Title:             "Permiso",
		IssuedDate:        start,
		ExpiryDate:        now.Add(expiryIn),
		IsCriticalLicense: critical,
	}, "ana", start)
	require.NoError(t, err)
	if dueIn != 0 {
		due := now.Add(dueIn)
		_, err = l.AddCondition(entity.ConditionParams{ConditionType: "MONITOREO", Description: "Informe", IsMandatory: true, DueDate: &due}, "ana", start)
		require.NoError(t, err)
	}
	require.NoError(t, l.Submit("ana", start))
	require.NoError(t, l.Approve("jefe", "", start))
	require.NoError(t, l.Activate("jefe", start))
	l.AssignID(id)
	return l
}

func TestGetCompliance_CalculaAlertasConElAgregado(t *testing.T) {
	repo := &fakeCompliance{
		counts: map[entity.LicenseStatus]int{
			entity.LicenseStatusActive: 4,
			entity.LicenseStatusDraft:  2,
		},
		monitored: []*entity.License{
			// al día
			activeLicense(t, 1, 200*24*time.Hour, 0, false),
			// por vencer
			activeLicense(t, 2, 10*24*time.Hour, 0, false),
			// vencida sin barrer, crítica sin seguro
			activeLicense(t, 3, -2*24*time.Hour, 0, true),
			// condición obligatoria vencida
			activeLicense(t, 4, 200*24*time.Hour, -5*24*time.Hour, false),
		},
	}
	uc := analytics.NewDashboardUseCase(repo, func() time.Time { return now })

	out, err := uc.GetCompliance(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 6, out.TotalLicenses)
	assert.Equal(t, 4, out.CountsByStatus["ACTIVE"])
	assert.Equal(t, 0, out.CountsByStatus["REVOKED"])

	require.Len(t, out.ExpiringSoon, 1)
	assert.Equal(t, int64(2), out.ExpiringSoon[0].LicenseID)
	assert.Equal(t, 10, out.ExpiringSoon[0].DaysUntilExpiry)

	require.Len(t, out.PastExpiry, 1)
	assert.Equal(t, int64(3), out.PastExpiry[0].LicenseID)

	require.Len(t, out.OverdueConditions, 1)
	assert.Equal(t, int64(4), out.OverdueConditions[0].LicenseID)
	assert.Equal(t, 5, out.OverdueConditions[0].DaysOverdue)

	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Warnings, entity.WarningCriticalWithoutInsurance)

	assert.True(t, decimal.NewFromInt(75).Equal(out.ComplianceRate))
	assert.Equal(t, "Marzo 2026", out.DateLabel)
}

func TestGetCompliance_SinLicenciasVigentes(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeCompliance{}, func() time.Time { return now })

	out, err := uc.GetCompliance(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, out.TotalLicenses)
	assert.NotNil(t, out.ExpiringSoon)
	assert.True(t, decimal.NewFromInt(100).Equal(out.ComplianceRate))
}

func TestGetCompliance_PropagaError(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeCompliance{err: errors.New("db caída")}, nil)

	_, err := uc.GetCompliance(context.Background(), "c1")
	assert.ErrorContains(t, err, "conteo por estado")
}
