// Package pdf implementa la generación del Certificado de Licencia HSE.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + Id. tributaria │ N° Licencia + Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TÍTULO + AUTORIDAD EMISORA + TITULAR                        │
//	│  VIGENCIA: Emisión / Vencimiento / Próxima renovación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Condición | Fecha límite | Estado             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RIESGO / TARIFA / SEGURO                                    │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 68}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 178, Green: 34, Blue: 34}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.CertificateRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. locale (ej. "es-CO") define el formato de montos.
func NewMarotoPDFGenerator(locale string) *MarotoPDFGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

var _ report.CertificateRenderer = (*MarotoPDFGenerator)(nil)

// RenderCertificate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderCertificate(
	_ context.Context,
	l *entity.License,
	company *entity.Company,
	now time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de licencia "+l.LicenseNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(l, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(subjectRows(l)...)
	m.AddRows(validityRow(l, now))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	conds := l.Conditions()
	if len(conds) > 0 {
		m.AddRows(tableHeaderRow())
		m.AddRows(conditionRows(conds, now)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(g.riskRow(l))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(l, company, now)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + id. tributaria (izq) y número de licencia + estado (der).
func headerRow(l *entity.License, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Id. tributaria: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CERTIFICADO DE LICENCIA HSE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(l.LicenseNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+string(l.Status), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// subjectRows: título, autoridad emisora y titular.
func subjectRows(l *entity.License) []core.Row {
	return []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New(l.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
		)),
		row.New(14).Add(
			col.New(6).Add(
				text.New("AUTORIDAD EMISORA", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(nonEmpty(l.IssuingAuthority, "—"), props.Text{Size: 9, Top: 6}),
			),
			col.New(6).Add(
				text.New("TITULAR", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(fmt.Sprintf("%s   |   %s",
					nonEmpty(l.HolderName, "—"),
					nonEmpty(l.Department, "—"),
				), props.Text{Size: 9, Top: 6}),
			),
		),
	}
}

// validityRow: fechas de vigencia.
func validityRow(l *entity.License, now time.Time) core.Row {
	next := "—"
	if l.NextRenewalDate != nil {
		next = l.NextRenewalDate.Format(dateLayout)
	}
	expiryColor := colorGray
	if l.IsExpiring(now) {
		expiryColor = colorAlert
	}
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 9, Top: 6, Color: c}),
		)
	}
	return row.New(14).Add(
		cell("EMISIÓN", l.IssuedDate.Format(dateLayout), colorGray),
		cell("VENCIMIENTO", fmt.Sprintf("%s (%d días)", l.ExpiryDate.Format(dateLayout), l.DaysUntilExpiry(now)), expiryColor),
		cell("PRÓXIMA RENOVACIÓN", next, colorGray),
	)
}

// tableHeaderRow: cabecera de la tabla de condiciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Tipo", 2, align.Left),
		h("Condición", 6, align.Left),
		h("Fecha límite", 2, align.Center),
		h("Estado", 2, align.Center),
	)
}

// conditionRows: una fila por condición; el estado mostrado incluye OVERDUE.
func conditionRows(conds []entity.LicenseCondition, now time.Time) []core.Row {
	result := make([]core.Row, 0, len(conds))
	for _, c := range conds {
		due := "—"
		if c.DueDate != nil {
			due = c.DueDate.Format(dateLayout)
		}
		desc := c.Description
		if c.IsMandatory {
			desc = "* " + desc
		}
		statusColor := colorGray
		if c.IsOverdue(now) {
			statusColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(c.ConditionType, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(due, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(string(c.DisplayStatus(now)), props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: statusColor,
			})),
		))
	}
	return result
}

// riskRow: riesgo, criticidad, tarifa y seguro.
func (g *MarotoPDFGenerator) riskRow(l *entity.License) core.Row {
	critical := "No"
	if l.IsCriticalLicense {
		critical = "Sí"
	}
	insurance := "No requerido"
	if l.RequiresInsurance {
		insurance = g.money(l.RequiredInsuranceAmount, l.Currency)
	}
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 9, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("NIVEL DE RIESGO", string(l.RiskLevel)),
		cell("LICENCIA CRÍTICA", critical),
		cell("TARIFA", g.money(l.LicenseFee, l.Currency)),
		cell("SEGURO", insurance),
	)
}

// footerRows: QR de verificación + leyenda.
func footerRows(l *entity.License, company *entity.Company, now time.Time) []core.Row {
	qr := fmt.Sprintf("LIC=%s;EMP=%s;VENCE=%s;ESTADO=%s",
		l.LicenseNumber, company.TaxID, l.ExpiryDate.Format("2006-01-02"), l.Status)
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Escanea el código QR para verificar los datos de la licencia.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("* Condición obligatoria", props.Text{
					Size: 7, Top: 12, Left: 3, Color: colorGray,
				}),
				text.New("Generado el "+now.Format("02/01/2006 15:04")+" UTC", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 22, Left: 3, Color: colorPrimary,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Este certificado refleja el estado registrado de la licencia al momento de su emisión. "+
					"Verifique la vigencia ante la autoridad emisora.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea el monto con separadores de miles del locale. Ej: "COP 1.250.000".
func (g *MarotoPDFGenerator) money(v decimal.Decimal, currency string) string {
	return g.printer.Sprintf("%s %d", currency, v.Round(0).IntPart())
}
