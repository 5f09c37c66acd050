package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// CustomerRequest entrada para crear o editar un cliente. Los campos llegan
// crudos del formulario; el use case sanea y valida antes de persistir.
type CustomerRequest struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Company          string           `json:"company"`
	PipelineStage    string           `json:"pipeline_stage"` // vacío = new al crear
	OpportunityValue *decimal.Decimal `json:"opportunity_value"`
	Notes            string           `json:"notes"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            *string          `json:"phone,omitempty"`
	Company          *string          `json:"company,omitempty"`
	PipelineStage    string           `json:"pipeline_stage"`
	StageLabel       string           `json:"stage_label"`
	OpportunityValue *decimal.Decimal `json:"opportunity_value,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	StageUpdatedAt   time.Time        `json:"stage_updated_at"`
	CreatedBy        string           `json:"created_by"`
}

// NewCustomerResponse mapea la entidad a su DTO de salida.
func NewCustomerResponse(c entity.Customer) CustomerResponse {
	out := CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Company:        c.Company,
		PipelineStage:  string(c.PipelineStage),
		StageLabel:     c.PipelineStage.Label(),
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		StageUpdatedAt: c.StageUpdatedAt,
		CreatedBy:      c.CreatedBy,
	}
	if c.OpportunityValue.Valid {
		v := c.OpportunityValue.Decimal
		out.OpportunityValue = &v
	}
	return out
}

// NewCustomerResponses mapea una colección completa.
func NewCustomerResponses(customers []entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}

// ListCustomersRequest parámetros de GET /api/customers.
type ListCustomersRequest struct {
	Search string `query:"search"` // substring case-insensitive en name/email/company
	Stage  string `query:"stage"`  // all (default) | new | in_talks | closed
}

// MoveStageRequest entrada de PATCH /api/pipeline/customers/:id/stage.
type MoveStageRequest struct {
	Stage string `json:"stage"`
}

// MoveStageResponse notificación de un movimiento confirmado.
type MoveStageResponse struct {
	ID             string    `json:"id"`
	Stage          string    `json:"stage"`
	StageLabel     string    `json:"stage_label"`
	StageUpdatedAt time.Time `json:"stage_updated_at"`
	Message        string    `json:"message"`
}

// BoardColumnDTO una columna del tablero Kanban.
type BoardColumnDTO struct {
	Stage     string             `json:"stage"`
	Label     string             `json:"label"`
	Color     string             `json:"color"`
	Customers []CustomerResponse `json:"customers"`
}

// BoardResponse las tres columnas del tablero en orden.
type BoardResponse struct {
	Columns []BoardColumnDTO `json:"columns"`
	Total   int              `json:"total"`
}
