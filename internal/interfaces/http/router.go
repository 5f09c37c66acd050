package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prism-crm/prism-api/internal/application/analytics"
	"github.com/prism-crm/prism-api/internal/application/auth"
	appcrm "github.com/prism-crm/prism-api/internal/application/crm"
	"github.com/prism-crm/prism-api/internal/application/pipeline"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *appcrm.CustomerUseCase
	PipelineUC  *pipeline.UseCase
	AnalyticsUC *analytics.MetricsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Pipeline Kanban (protegido)
	pipelineGroup := protected.Group("/pipeline")
	pipelineHandler := NewPipelineHandler(deps.PipelineUC)
	pipelineGroup.Get("/board", pipelineHandler.GetBoard)
	pipelineGroup.Patch("/customers/:id/stage", pipelineHandler.MoveStage)

	// Analytics (protegido)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup.Get("/summary", analyticsHandler.GetSummary)
	analyticsGroup.Get("/report/pdf", analyticsHandler.GetReportPDF)
}
