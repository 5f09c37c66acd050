// Package analytics contiene los casos de uso del dashboard de métricas del
// pipeline de ventas.
package analytics

import (
	"context"
	"fmt"

	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
	"github.com/prism-crm/prism-api/internal/domain/repository"
)

// ReportGenerator puerto para la representación PDF del reporte de pipeline.
type ReportGenerator interface {
	GeneratePipelineReport(ctx context.Context, metrics crm.Metrics, customers []entity.Customer) ([]byte, error)
}

// MetricsUseCase calcula el resumen de métricas del usuario. Sin caché: cada
// llamada recarga la colección y recalcula desde cero (la colección es
// pequeña, escaneo lineal).
type MetricsUseCase struct {
	repo    repository.CustomerRepository
	reports ReportGenerator
}

// NewMetricsUseCase construye el caso de uso. reports puede ser nil si la
// exportación PDF no está habilitada.
func NewMetricsUseCase(repo repository.CustomerRepository, reports ReportGenerator) *MetricsUseCase {
	return &MetricsUseCase{repo: repo, reports: reports}
}

// GetSummary construye el MetricsSummaryDTO del usuario.
func (uc *MetricsUseCase) GetSummary(ctx context.Context, ownerID string) (*dto.MetricsSummaryDTO, error) {
	customers, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("metrics: cargar clientes: %w", err)
	}
	return toSummaryDTO(crm.ComputeMetrics(customers)), nil
}

// GetReportPDF genera el reporte PDF del pipeline del usuario.
func (uc *MetricsUseCase) GetReportPDF(ctx context.Context, ownerID string) ([]byte, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("metrics: generador de reportes no configurado")
	}
	customers, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("metrics: cargar clientes: %w", err)
	}
	pdf, err := uc.reports.GeneratePipelineReport(ctx, crm.ComputeMetrics(customers), customers)
	if err != nil {
		return nil, fmt.Errorf("metrics: generar reporte: %w", err)
	}
	return pdf, nil
}

func toSummaryDTO(m crm.Metrics) *dto.MetricsSummaryDTO {
	out := &dto.MetricsSummaryDTO{
		TotalCustomers:        m.TotalCustomers,
		ConversionRate:        m.ConversionRate,
		TotalRevenue:          m.TotalRevenue,
		AverageDealSize:       m.AverageDealSize,
		AverageTimeInPipeline: m.AverageTimeInPipeline,
		Distribution:          make([]dto.StageSliceDTO, 0, len(m.Distribution)),
		MonthlyTrend:          make([]dto.MonthlyTrendDTO, 0, len(m.MonthlyTrend)),
	}
	for _, slice := range m.Distribution {
		out.Distribution = append(out.Distribution, dto.StageSliceDTO{
			Stage:      string(slice.Stage),
			Label:      slice.Stage.Label(),
			Count:      slice.Count,
			Percentage: slice.Percentage,
		})
	}
	for _, cohort := range m.MonthlyTrend {
		out.MonthlyTrend = append(out.MonthlyTrend, dto.MonthlyTrendDTO{
			Month:        cohort.Month.Format("2006-01"),
			NewCustomers: cohort.NewCustomers,
			Revenue:      cohort.ClosedRevenue,
		})
	}
	return out
}
