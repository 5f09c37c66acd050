package dto

import "github.com/shopspring/decimal"

// StageSliceDTO distribución de una etapa del pipeline.
type StageSliceDTO struct {
	Stage      string  `json:"stage"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrendDTO cohorte mensual: clientes nuevos y revenue de cerrados.
type MonthlyTrendDTO struct {
	Month        string          `json:"month"` // YYYY-MM
	NewCustomers int             `json:"new_customers"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// MetricsSummaryDTO respuesta de GET /api/analytics/summary.
type MetricsSummaryDTO struct {
	TotalCustomers        int               `json:"total_customers"`
	ConversionRate        float64           `json:"conversion_rate"`
	TotalRevenue          decimal.Decimal   `json:"total_revenue"`
	AverageDealSize       decimal.Decimal   `json:"average_deal_size"`
	AverageTimeInPipeline float64           `json:"average_time_in_pipeline"` // días
	Distribution          []StageSliceDTO   `json:"pipeline_distribution"`
	MonthlyTrend          []MonthlyTrendDTO `json:"monthly_trend"`
}
