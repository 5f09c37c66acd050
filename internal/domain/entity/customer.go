package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PipelineStage etapa del pipeline de ventas. Enumeración cerrada de tres
// valores; cualquier otro string es inválido (ver Valid y ParsePipelineStage).
type PipelineStage string

// Etapas válidas del pipeline.
const (
	StageNew     PipelineStage = "new"
	StageInTalks PipelineStage = "in_talks"
	StageClosed  PipelineStage = "closed"
)

// Stages las tres etapas en el orden del tablero Kanban.
var Stages = [3]PipelineStage{StageNew, StageInTalks, StageClosed}

// Valid indica si la etapa es una de las tres enumeradas.
func (s PipelineStage) Valid() bool {
	switch s {
	case StageNew, StageInTalks, StageClosed:
		return true
	}
	return false
}

// Label etiqueta legible de la etapa. Switch exhaustivo: agregar una etapa
// obliga a tocar este método.
func (s PipelineStage) Label() string {
	switch s {
	case StageNew:
		return "New Leads"
	case StageInTalks:
		return "In Talks"
	case StageClosed:
		return "Closed"
	}
	return string(s)
}

// Color color asociado a la etapa en el tablero Kanban.
func (s PipelineStage) Color() string {
	switch s {
	case StageNew:
		return "blue"
	case StageInTalks:
		return "yellow"
	case StageClosed:
		return "green"
	}
	return "gray"
}

// ParsePipelineStage convierte un string en PipelineStage; ok=false si no es
// una de las tres etapas.
func ParsePipelineStage(s string) (PipelineStage, bool) {
	stage := PipelineStage(s)
	return stage, stage.Valid()
}

// Customer representa un cliente del pipeline de ventas.
//
// Invariantes: PipelineStage siempre es una etapa válida;
// StageUpdatedAt >= CreatedAt (se actualiza en cada cambio de etapa);
// OpportunityValue, si está presente, es no negativo.
type Customer struct {
	ID               string
	Name             string
	Email            string              // normalizado a minúsculas
	Phone            *string             // opcional
	Company          *string             // opcional
	PipelineStage    PipelineStage       // new por defecto al crear
	OpportunityValue decimal.NullDecimal // opcional; ausente o cero = "sin valor"
	Notes            *string             // opcional
	CreatedAt        time.Time           // inmutable desde la creación
	StageUpdatedAt   time.Time           // se actualiza con cada cambio de etapa
	CreatedBy        string              // usuario que creó el registro
}

// OpportunityOrZero devuelve el valor de oportunidad o cero si está ausente.
func (c Customer) OpportunityOrZero() decimal.Decimal {
	if !c.OpportunityValue.Valid {
		return decimal.Zero
	}
	return c.OpportunityValue.Decimal
}
