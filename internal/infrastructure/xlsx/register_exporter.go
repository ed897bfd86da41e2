// Package xlsx exporta el registro de licencias a una hoja de cálculo (excelize).
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

const (
	sheetLicenses  = "Licencias"
	sheetOverdue   = "Condiciones vencidas"
	dateFormatCell = "yyyy-mm-dd"
)

var licenseHeaders = []string{
	"Número", "Tipo", "Título", "Estado", "Prioridad", "Riesgo", "Autoridad emisora",
	"Titular", "Emisión", "Vencimiento", "Días al vencimiento", "Por vencer", "Vencida",
	"Crítica", "Tarifa", "Moneda", "Condiciones obligatorias vencidas", "Advertencias",
}

var overdueHeaders = []string{
	"Licencia", "Tipo de condición", "Descripción", "Fecha límite", "Responsable", "Días de atraso",
}

// RegisterExporter implementa report.RegisterExporter.
type RegisterExporter struct{}

// NewRegisterExporter construye el exportador.
func NewRegisterExporter() *RegisterExporter { return &RegisterExporter{} }

var _ report.RegisterExporter = (*RegisterExporter)(nil)

// ExportRegister genera el libro con una hoja de licencias y otra de condiciones obligatorias vencidas.
func (e *RegisterExporter) ExportRegister(_ context.Context, company *entity.Company, licenses []*entity.License, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetLicenses); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(sheetOverdue); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"006644"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	dateFmt := dateFormatCell
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	// Título en la fila 1, cabeceras en la 3.
	if err := f.SetCellValue(sheetLicenses, "A1", fmt.Sprintf("Registro de licencias HSE · %s · %s", company.Name, now.Format("2006-01-02"))); err != nil {
		return nil, err
	}
	if err := writeHeader(f, sheetLicenses, 3, licenseHeaders, bold); err != nil {
		return nil, err
	}
	if err := writeHeader(f, sheetOverdue, 1, overdueHeaders, bold); err != nil {
		return nil, err
	}

	overdueRow := 2
	for i, l := range licenses {
		r := i + 4
		values := []any{
			l.LicenseNumber,
			string(l.Type),
			l.Title,
			string(l.Status),
			string(l.Priority),
			string(l.RiskLevel),
			l.IssuingAuthority,
			l.HolderName,
			l.IssuedDate,
			l.ExpiryDate,
			l.DaysUntilExpiry(now),
			yesNo(l.IsExpiring(now)),
			yesNo(l.IsExpired(now)),
			yesNo(l.IsCriticalLicense),
			l.LicenseFee.InexactFloat64(),
			l.Currency,
			len(l.OverdueMandatoryConditions(now)),
			strings.Join(l.ComplianceWarningsAt(now), ", "),
		}
		if err := writeRow(f, sheetLicenses, r, values); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetLicenses, cell(9, r), cell(10, r), dateStyle); err != nil {
			return nil, err
		}

		for _, c := range l.OverdueMandatoryConditions(now) {
			if err := writeRow(f, sheetOverdue, overdueRow, []any{
				l.LicenseNumber,
				c.ConditionType,
				c.Description,
				*c.DueDate,
				c.ResponsiblePerson,
				int(now.Sub(*c.DueDate).Hours() / 24),
			}); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheetOverdue, cell(4, overdueRow), cell(4, overdueRow), dateStyle); err != nil {
				return nil, err
			}
			overdueRow++
		}
	}

	if err := f.SetColWidth(sheetLicenses, "A", "R", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetLicenses, "C", "C", 40); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetLicenses, &excelize.Panes{Freeze: true, YSplit: 3, TopLeftCell: "A4", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, r int, headers []string, style int) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(i+1, r), h); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, r), cell(len(headers), r), style)
}

func writeRow(f *excelize.File, sheet string, r int, values []any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, r), v); err != nil {
			return err
		}
	}
	return nil
}

// cell convierte (columna 1-based, fila) en referencia A1.
func cell(colIdx, r int) string {
	name, _ := excelize.CoordinatesToCellName(colIdx, r)
	return name
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
