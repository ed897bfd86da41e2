// Package analytics contiene los casos de uso del Tablero de Cumplimiento HSE.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de cumplimiento de una empresa.
//
// Fuente de datos: ComplianceRepository (consultas read-only). Las banderas
// (por vencer, vencida, condiciones vencidas) se evalúan con las funciones del agregado,
// nunca con SQL propio, para que tablero y detalle coincidan.
type DashboardUseCase struct {
	repo repository.ComplianceRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso. clock nil usa la hora del sistema.
func NewDashboardUseCase(repo repository.ComplianceRepository, clock func() time.Time) *DashboardUseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &DashboardUseCase{repo: repo, now: clock}
}

// GetCompliance construye el ComplianceDashboardDTO para la empresa indicada.
//
// Dos consultas en paralelo:
//  1. CountByStatus   → conteos por estado
//  2. ListMonitored   → licencias vigentes con condiciones
func (uc *DashboardUseCase) GetCompliance(ctx context.Context, companyID string) (*dto.ComplianceDashboardDTO, error) {
	now := uc.now()

	var (
		counts    map[entity.LicenseStatus]int
		monitored []*entity.License
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.repo.CountByStatus(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: conteo por estado: %w", err)
		}
		counts = c
		return nil
	})
	g.Go(func() error {
		m, err := uc.repo.ListMonitored(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: licencias vigentes: %w", err)
		}
		monitored = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ComplianceDashboardDTO{
		CountsByStatus:    make(map[string]int, len(entity.AllLicenseStatuses())),
		ExpiringSoon:      []dto.LicenseAlertDTO{},
		PastExpiry:        []dto.LicenseAlertDTO{},
		OverdueConditions: []dto.ConditionAlertDTO{},
		Warnings:          []dto.LicenseAlertDTO{},
		GeneratedAt:       now,
		DateLabel:         monthLabel(now),
	}
	for _, s := range entity.AllLicenseStatuses() {
		n := counts[s]
		out.CountsByStatus[string(s)] = n
		out.TotalLicenses += n
	}

	compliant := 0
	for _, l := range monitored {
		overdue := l.OverdueMandatoryConditions(now)
		if len(overdue) == 0 {
			compliant++
		}
		for _, c := range overdue {
			out.OverdueConditions = append(out.OverdueConditions, dto.ConditionAlertDTO{
				LicenseID:         l.ID,
				LicenseNumber:     l.LicenseNumber,
				ConditionID:       c.ID,
				Description:       c.Description,
				DueDate:           *c.DueDate,
				DaysOverdue:       int(math.Floor(now.Sub(*c.DueDate).Hours() / 24)),
				ResponsiblePerson: c.ResponsiblePerson,
			})
		}
		switch {
		case l.IsExpired(now):
			out.PastExpiry = append(out.PastExpiry, alertOf(l, now, nil))
		case l.IsExpiringSoon(now):
			out.ExpiringSoon = append(out.ExpiringSoon, alertOf(l, now, nil))
		}
		if w := l.ComplianceWarnings(); len(w) > 0 {
			out.Warnings = append(out.Warnings, alertOf(l, now, w))
		}
	}

	// Más urgentes primero.
	sort.SliceStable(out.ExpiringSoon, func(i, j int) bool {
		return out.ExpiringSoon[i].ExpiryDate.Before(out.ExpiringSoon[j].ExpiryDate)
	})
	sort.SliceStable(out.PastExpiry, func(i, j int) bool {
		return out.PastExpiry[i].ExpiryDate.Before(out.PastExpiry[j].ExpiryDate)
	})
	sort.SliceStable(out.OverdueConditions, func(i, j int) bool {
		return out.OverdueConditions[i].DaysOverdue > out.OverdueConditions[j].DaysOverdue
	})

	out.ComplianceRate = complianceRate(compliant, len(monitored))
	return out, nil
}

func alertOf(l *entity.License, now time.Time, warnings []string) dto.LicenseAlertDTO {
	return dto.LicenseAlertDTO{
		LicenseID:       l.ID,
		LicenseNumber:   l.LicenseNumber,
		Title:           l.Title,
		Status:          string(l.Status),
		ExpiryDate:      l.ExpiryDate,
		DaysUntilExpiry: l.DaysUntilExpiry(now),
		Warnings:        warnings,
	}
}

// complianceRate porcentaje con 2 decimales; sin licencias vigentes se reporta 100.
func complianceRate(compliant, total int) decimal.Decimal {
	if total == 0 {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(int64(compliant)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
