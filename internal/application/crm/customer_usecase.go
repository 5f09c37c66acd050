// Package crm contiene los casos de uso de gestión de clientes del pipeline.
package crm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/application/pipeline"
	"github.com/prism-crm/prism-api/internal/domain"
	domaincrm "github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
	"github.com/prism-crm/prism-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD de clientes. Cada mutación confirmada se
// propaga al tablero Kanban del usuario como parche local con los campos
// confirmados (nunca un refetch completo).
type CustomerUseCase struct {
	repo   repository.CustomerRepository
	boards *pipeline.Manager
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, boards *pipeline.Manager) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, boards: boards}
}

// List devuelve los clientes del usuario con búsqueda libre y filtro de
// etapa aplicados en memoria (orden created_at descendente preservado).
func (uc *CustomerUseCase) List(ctx context.Context, ownerID string, in dto.ListCustomersRequest) ([]dto.CustomerResponse, error) {
	customers, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stage := in.Stage
	if stage == "" {
		stage = domaincrm.StageFilterAll
	}
	filtered := domaincrm.FilterCustomers(customers, in.Search, stage)
	return dto.NewCustomerResponses(filtered), nil
}

// GetByID devuelve un cliente del usuario.
func (uc *CustomerUseCase) GetByID(ctx context.Context, ownerID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(*customer)
	return &out, nil
}

// Create sanea, valida y persiste un cliente nuevo. La etapa por defecto es
// new; stage_updated_at arranca igual a created_at.
func (uc *CustomerUseCase) Create(ctx context.Context, ownerID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	valid, verr := validate(in, entity.StageNew)
	if verr != nil {
		return nil, verr
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:               uuid.New().String(),
		Name:             valid.Name,
		Email:            valid.Email,
		Phone:            valid.Phone,
		Company:          valid.Company,
		PipelineStage:    valid.PipelineStage,
		OpportunityValue: valid.OpportunityValue,
		Notes:            valid.Notes,
		CreatedAt:        now,
		StageUpdatedAt:   now,
		CreatedBy:        ownerID,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	uc.patchBoard(ownerID, *customer)
	out := dto.NewCustomerResponse(*customer)
	return &out, nil
}

// Update re-valida todos los campos y persiste la edición. Si la edición
// cambió la etapa, stage_updated_at avanza; si no, se conserva.
func (uc *CustomerUseCase) Update(ctx context.Context, ownerID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	existing, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	valid, verr := validate(in, existing.PipelineStage)
	if verr != nil {
		return nil, verr
	}
	updated := *existing
	updated.Name = valid.Name
	updated.Email = valid.Email
	updated.Phone = valid.Phone
	updated.Company = valid.Company
	updated.OpportunityValue = valid.OpportunityValue
	updated.Notes = valid.Notes
	if valid.PipelineStage != existing.PipelineStage {
		updated.PipelineStage = valid.PipelineStage
		updated.StageUpdatedAt = time.Now()
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	uc.patchBoard(ownerID, updated)
	out := dto.NewCustomerResponse(updated)
	return &out, nil
}

// Delete elimina un cliente del usuario.
func (uc *CustomerUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uc.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if board := uc.boards.Board(ownerID); board.Loaded() {
		board.Remove(id)
	}
	return nil
}

// owned obtiene el cliente y verifica que pertenezca al usuario.
func (uc *CustomerUseCase) owned(ctx context.Context, ownerID, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CreatedBy != ownerID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

// patchBoard aplica el registro confirmado al tablero del usuario si ya está
// cargado; un tablero sin cargar se poblará en su primer Refresh.
func (uc *CustomerUseCase) patchBoard(ownerID string, c entity.Customer) {
	if board := uc.boards.Board(ownerID); board.Loaded() {
		board.Apply(c)
	}
}

// validate aplica saneamiento + validación con la etapa por defecto indicada
// cuando el formulario no trae pipeline_stage.
func validate(in dto.CustomerRequest, defaultStage entity.PipelineStage) (*domaincrm.ValidCustomer, *domaincrm.ValidationError) {
	stage := in.PipelineStage
	if stage == "" {
		stage = string(defaultStage)
	}
	return domaincrm.ValidateCustomer(domaincrm.CustomerInput{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Company:          in.Company,
		OpportunityValue: in.OpportunityValue,
		Notes:            in.Notes,
		PipelineStage:    stage,
	})
}
