// Package pdf implementa la exportación del reporte de pipeline con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Pipeline Report + fecha de generación              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Total | Conversion | Revenue | Avg Deal | Avg Days   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Distribución por etapa (count + %)                  │
//	│  TABLA: Tendencia mensual (altas + revenue cerrado)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Clientes (nombre, empresa, etapa, valor)            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/prism-crm/prism-api/internal/application/analytics"
	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ analytics.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GeneratePipelineReport genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GeneratePipelineReport(
	_ context.Context,
	metrics crm.Metrics,
	customers []entity.Customer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pipeline Report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(metrics))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Stage distribution"))
	m.AddRows(distributionHeaderRow())
	for _, r := range distributionRows(metrics.Distribution[:]) {
		m.AddRows(r)
	}

	if len(metrics.MonthlyTrend) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitle("Monthly trend"))
		m.AddRows(trendHeaderRow())
		for _, r := range trendRows(metrics.MonthlyTrend) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitle("Customers"))
	m.AddRows(customerHeaderRow())
	for _, r := range customerRows(customers) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow() core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New("PIPELINE REPORT", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// kpiRow: las cinco métricas de cabecera en una sola fila.
func kpiRow(m crm.Metrics) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		col.New(1),
		kpi("Total customers", fmt.Sprintf("%d", m.TotalCustomers)),
		kpi("Conversion rate", fmt.Sprintf("%.1f%%", m.ConversionRate)),
		kpi("Total revenue", "$"+m.TotalRevenue.StringFixed(0)),
		kpi("Avg deal size", "$"+m.AverageDealSize.StringFixed(0)),
		kpi("Avg days in pipeline", fmt.Sprintf("%.1f", m.AverageTimeInPipeline)),
		col.New(1),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func distributionHeaderRow() core.Row {
	return row.New(7).Add(
		tableHeader("Stage", 6, align.Left),
		tableHeader("Customers", 3, align.Right),
		tableHeader("Share", 3, align.Right),
	)
}

func distributionRows(slices []crm.StageSlice) []core.Row {
	result := make([]core.Row, 0, len(slices))
	for _, s := range slices {
		result = append(result, row.New(6).Add(
			tableCell(s.Stage.Label(), 6, align.Left),
			tableCell(fmt.Sprintf("%d", s.Count), 3, align.Right),
			tableCell(fmt.Sprintf("%.1f%%", s.Percentage), 3, align.Right),
		))
	}
	return result
}

func trendHeaderRow() core.Row {
	return row.New(7).Add(
		tableHeader("Month", 6, align.Left),
		tableHeader("New customers", 3, align.Right),
		tableHeader("Closed revenue", 3, align.Right),
	)
}

func trendRows(cohorts []crm.MonthlyCohort) []core.Row {
	result := make([]core.Row, 0, len(cohorts))
	for _, c := range cohorts {
		result = append(result, row.New(6).Add(
			tableCell(c.Month.Format("January 2006"), 6, align.Left),
			tableCell(fmt.Sprintf("%d", c.NewCustomers), 3, align.Right),
			tableCell("$"+c.ClosedRevenue.StringFixed(0), 3, align.Right),
		))
	}
	return result
}

func customerHeaderRow() core.Row {
	return row.New(7).Add(
		tableHeader("Name", 4, align.Left),
		tableHeader("Company", 3, align.Left),
		tableHeader("Stage", 2, align.Left),
		tableHeader("Value", 3, align.Right),
	)
}

func customerRows(customers []entity.Customer) []core.Row {
	result := make([]core.Row, 0, len(customers))
	for _, c := range customers {
		value := "—"
		if c.OpportunityValue.Valid {
			value = "$" + c.OpportunityValue.Decimal.StringFixed(0)
		}
		company := "—"
		if c.Company != nil {
			company = *c.Company
		}
		result = append(result, row.New(6).Add(
			tableCell(c.Name, 4, align.Left),
			tableCell(company, 3, align.Left),
			tableCell(c.PipelineStage.Label(), 2, align.Left),
			tableCell(value, 3, align.Right),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tableHeader(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
	}))
}

func tableCell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1,
	}))
}
