package crm

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// StageSlice conteo y participación porcentual de una etapa del pipeline.
type StageSlice struct {
	Stage      entity.PipelineStage
	Count      int
	Percentage float64 // 100 * count / total; 0 si la colección está vacía
}

// MonthlyCohort cohorte mensual: clientes creados en ese mes calendario y
// el revenue de los que hoy están en etapa closed (no etapa-en-ese-mes).
type MonthlyCohort struct {
	Month         time.Time // primer día del mes, UTC
	NewCustomers  int
	ClosedRevenue decimal.Decimal
}

// Metrics resumen agregado del pipeline, recalculado siempre desde cero
// sobre la colección completa (escaneos lineales; sin caché ni incremental,
// la colección es pequeña por diseño).
type Metrics struct {
	TotalCustomers        int
	ConversionRate        float64 // % de clientes en closed; 0 si no hay clientes
	TotalRevenue          decimal.Decimal
	AverageDealSize       decimal.Decimal
	AverageTimeInPipeline float64 // media de días en pipeline; 0 si no hay clientes
	Distribution          [3]StageSlice
	MonthlyTrend          []MonthlyCohort // meses con datos, orden ascendente
}

// ComputeMetrics calcula las métricas del pipeline sobre la colección:
//
//   - conversionRate = 100 * closed / total (0 si total = 0)
//   - totalRevenue   = suma de opportunity_value de clientes closed
//   - averageDealSize = totalRevenue / closed (0 si no hay closed)
//   - averageTimeInPipeline = media de ceil(|stage_updated_at - created_at|
//     en días); el valor absoluto evita que un desfase de reloj invierta el
//     signo del delta
func ComputeMetrics(customers []entity.Customer) Metrics {
	m := Metrics{
		TotalCustomers:  len(customers),
		TotalRevenue:    decimal.Zero,
		AverageDealSize: decimal.Zero,
	}
	for i, stage := range entity.Stages {
		m.Distribution[i] = StageSlice{Stage: stage, Count: 0, Percentage: 0}
	}

	closedCount := 0
	totalDays := 0.0
	cohorts := map[time.Time]*MonthlyCohort{}

	for _, c := range customers {
		if c.PipelineStage == entity.StageClosed {
			closedCount++
			m.TotalRevenue = m.TotalRevenue.Add(c.OpportunityOrZero())
		}
		for i := range m.Distribution {
			if m.Distribution[i].Stage == c.PipelineStage {
				m.Distribution[i].Count++
			}
		}
		totalDays += dwellDays(c)

		month := time.Date(c.CreatedAt.Year(), c.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		cohort, ok := cohorts[month]
		if !ok {
			cohort = &MonthlyCohort{Month: month, ClosedRevenue: decimal.Zero}
			cohorts[month] = cohort
		}
		cohort.NewCustomers++
		if c.PipelineStage == entity.StageClosed {
			cohort.ClosedRevenue = cohort.ClosedRevenue.Add(c.OpportunityOrZero())
		}
	}

	if m.TotalCustomers > 0 {
		m.ConversionRate = 100 * float64(closedCount) / float64(m.TotalCustomers)
		m.AverageTimeInPipeline = totalDays / float64(m.TotalCustomers)
		for i := range m.Distribution {
			m.Distribution[i].Percentage = 100 * float64(m.Distribution[i].Count) / float64(m.TotalCustomers)
		}
	}
	if closedCount > 0 {
		m.AverageDealSize = m.TotalRevenue.Div(decimal.NewFromInt(int64(closedCount)))
	}

	m.MonthlyTrend = make([]MonthlyCohort, 0, len(cohorts))
	for _, cohort := range cohorts {
		m.MonthlyTrend = append(m.MonthlyTrend, *cohort)
	}
	sort.Slice(m.MonthlyTrend, func(i, j int) bool {
		return m.MonthlyTrend[i].Month.Before(m.MonthlyTrend[j].Month)
	})

	return m
}

// dwellDays días en pipeline del cliente: ceil(|stage_updated_at - created_at|).
func dwellDays(c entity.Customer) float64 {
	delta := c.StageUpdatedAt.Sub(c.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return math.Ceil(delta.Hours() / 24)
}
