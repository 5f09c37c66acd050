// Package pipeline implementa el motor de etapas del pipeline de ventas: un
// conjunto de trabajo en memoria por usuario (el tablero Kanban) que se
// reemplaza completo en cada Refresh y se parchea in situ en cada mutación.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// Store puerto mínimo que el tablero necesita del almacén remoto de clientes.
// repository.CustomerRepository lo satisface.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Customer, error)
	UpdateStage(ctx context.Context, id string, stage entity.PipelineStage, at time.Time) error
}

// MoveObserver callback de notificación de un movimiento de etapa confirmado.
type MoveObserver func(customer entity.Customer, from, to entity.PipelineStage)

// Board tablero Kanban de un usuario. El estado local es propiedad exclusiva
// del tablero; a diferencia del event loop de una UI, aquí se comparte entre
// requests y por eso va protegido con RWMutex. Entre movimientos concurrentes
// sobre el mismo registro gana la última escritura, sin reconciliación.
type Board struct {
	ownerID string
	store   Store
	now     func() time.Time

	mu        sync.RWMutex
	customers []entity.Customer // orden created_at desc, como lo devuelve el store
	loaded    bool

	subMu     sync.Mutex
	observers map[int]MoveObserver
	nextSub   int
}

// NewBoard construye el tablero de un usuario.
func NewBoard(store Store, ownerID string) *Board {
	return &Board{
		ownerID:   ownerID,
		store:     store,
		now:       time.Now,
		observers: map[int]MoveObserver{},
	}
}

// Refresh reemplaza el estado local completo con el resultado del store.
func (b *Board) Refresh(ctx context.Context) error {
	customers, err := b.store.ListByOwner(ctx, b.ownerID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.customers = customers
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Loaded indica si el tablero ya hizo al menos un Refresh.
func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Customers devuelve una copia del estado local.
func (b *Board) Customers() []entity.Customer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Customer, len(b.customers))
	copy(out, b.customers)
	return out
}

// ByStage devuelve, en el orden del estado local, los registros de la etapa.
// Materializa una columna del tablero; no reordena.
func (b *Board) ByStage(stage entity.PipelineStage) []entity.Customer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Customer, 0)
	for _, c := range b.customers {
		if c.PipelineStage == stage {
			out = append(out, c)
		}
	}
	return out
}

// Filter aplica el motor de búsqueda/filtrado sobre el estado local.
func (b *Board) Filter(term, stageFilter string) []entity.Customer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return crm.FilterCustomers(b.customers, term, stageFilter)
}

// Subscribe registra un observador de movimientos y devuelve la función para
// darlo de baja. El ciclo de vida es explícito: quien se suscribe debe
// desuscribirse en su teardown.
func (b *Board) Subscribe(fn MoveObserver) (unsubscribe func()) {
	b.subMu.Lock()
	id := b.nextSub
	b.nextSub++
	b.observers[id] = fn
	b.subMu.Unlock()
	return func() {
		b.subMu.Lock()
		delete(b.observers, id)
		b.subMu.Unlock()
	}
}

// MoveToStage mueve un registro a la etapa destino.
//
// Si la etapa actual ya es la destino no hace nada (ni llamada remota ni
// mutación local). En otro caso parchea optimistamente el estado local
// (pipeline_stage y stage_updated_at) antes de la confirmación remota, para
// que el tablero responda durante la latencia de red; si la escritura remota
// falla, un parche compensatorio restaura la etapa anterior y el error se
// devuelve al llamador. En éxito se notifica a los observadores.
func (b *Board) MoveToStage(ctx context.Context, id string, target entity.PipelineStage) error {
	if !target.Valid() {
		return domain.ErrInvalidStage
	}

	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return domain.ErrNotFound
	}
	prior := b.customers[idx]
	if prior.PipelineStage == target {
		b.mu.Unlock()
		return nil // soltado en la misma columna
	}
	movedAt := b.now()
	b.customers[idx].PipelineStage = target
	b.customers[idx].StageUpdatedAt = movedAt
	moved := b.customers[idx]
	b.mu.Unlock()

	if err := b.store.UpdateStage(ctx, id, target, movedAt); err != nil {
		// Rollback compensatorio. Solo si otro gesto no movió ya la tarjeta:
		// entre movimientos que compiten gana el más reciente.
		b.mu.Lock()
		if i := b.indexLocked(id); i >= 0 && b.customers[i].StageUpdatedAt.Equal(movedAt) {
			b.customers[i].PipelineStage = prior.PipelineStage
			b.customers[i].StageUpdatedAt = prior.StageUpdatedAt
		}
		b.mu.Unlock()
		return err
	}

	b.notify(moved, prior.PipelineStage, target)
	return nil
}

// Apply parchea el estado local con los campos confirmados por el servidor
// tras crear o editar un registro. Si el registro no está en el tablero se
// inserta al frente (los más recientes primero). Disciplina única de
// mutación: nunca un refetch completo a ciegas.
func (b *Board) Apply(c entity.Customer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexLocked(c.ID); idx >= 0 {
		b.customers[idx] = c
		return
	}
	b.customers = append([]entity.Customer{c}, b.customers...)
}

// Remove quita un registro del estado local tras un borrado confirmado.
func (b *Board) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexLocked(id); idx >= 0 {
		b.customers = append(b.customers[:idx], b.customers[idx+1:]...)
	}
}

// indexLocked busca el índice del registro; requiere lock tomado.
func (b *Board) indexLocked(id string) int {
	for i, c := range b.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) notify(c entity.Customer, from, to entity.PipelineStage) {
	b.subMu.Lock()
	fns := make([]MoveObserver, 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()
	for _, fn := range fns {
		fn(c, from, to)
	}
}
