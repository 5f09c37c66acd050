package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/prism-crm/prism-api/internal/application/analytics"
)

// AnalyticsHandler expone el resumen de métricas y el reporte PDF.
type AnalyticsHandler struct {
	uc *analytics.MetricsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.MetricsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de métricas del pipeline
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  dto.MetricsSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetReportPDF godoc
// @Summary      Descargar reporte del pipeline en PDF
// @Tags         analytics
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analytics/report/pdf [get]
func (h *AnalyticsHandler) GetReportPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.GetReportPDF(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	filename := "pipeline-report-" + time.Now().Format("20060102") + ".pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
