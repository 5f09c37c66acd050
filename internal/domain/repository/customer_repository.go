package repository

import (
	"context"
	"time"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// ListByOwner devuelve los registros ordenados por created_at descendente
// (más reciente primero); el resto de la aplicación depende de ese orden.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// UpdateStage cambia solo pipeline_stage y stage_updated_at (movimiento Kanban).
	UpdateStage(ctx context.Context, id string, stage entity.PipelineStage, at time.Time) error
	Delete(ctx context.Context, id string) error
}
