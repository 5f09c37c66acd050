package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/entity"
	"github.com/prism-crm/prism-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, email, phone, company, pipeline_stage, opportunity_value, notes, created_at, stage_updated_at, created_by`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.Company,
		string(customer.PipelineStage), customer.OpportunityValue, customer.Notes,
		customer.CreatedAt, customer.StageUpdatedAt, customer.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByOwner lista los clientes de un usuario, el más reciente primero.
func (r *CustomerRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers WHERE created_by = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := []entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// Update reemplaza todos los campos editables de un cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, company = $5, pipeline_stage = $6,
		    opportunity_value = $7, notes = $8, stage_updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.Company,
		string(customer.PipelineStage), customer.OpportunityValue, customer.Notes,
		customer.StageUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStage actualiza solo la etapa del pipeline y su timestamp. Es la
// escritura del movimiento Kanban: no toca el resto de campos.
func (r *CustomerRepo) UpdateStage(ctx context.Context, id string, stage entity.PipelineStage, at time.Time) error {
	query := `UPDATE customers SET pipeline_stage = $2, stage_updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(stage), at)
	if err != nil {
		return fmt.Errorf("update customer stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var stage string
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &stage,
		&c.OpportunityValue, &c.Notes, &c.CreatedAt, &c.StageUpdatedAt, &c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	c.PipelineStage = entity.PipelineStage(stage)
	return &c, nil
}
