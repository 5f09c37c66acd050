package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-crm/prism-api/internal/application/pipeline"
	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// fakeStore implementación en memoria del puerto Store para los tests.
type fakeStore struct {
	customers []entity.Customer

	updateCalls int
	updateErr   error
	// onUpdate permite observar el tablero en el momento exacto de la
	// llamada remota (antes de que resuelva).
	onUpdate func()
}

func (s *fakeStore) ListByOwner(_ context.Context, _ string) ([]entity.Customer, error) {
	out := make([]entity.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

func (s *fakeStore) UpdateStage(_ context.Context, id string, stage entity.PipelineStage, at time.Time) error {
	s.updateCalls++
	if s.onUpdate != nil {
		s.onUpdate()
	}
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].PipelineStage = stage
			s.customers[i].StageUpdatedAt = at
		}
	}
	return nil
}

func boardFixture(t *testing.T) (*pipeline.Board, *fakeStore) {
	t.Helper()
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{customers: []entity.Customer{
		{ID: "c1", Name: "Uno", Email: "uno@example.com", PipelineStage: entity.StageNew, CreatedAt: created.Add(2 * time.Hour), StageUpdatedAt: created.Add(2 * time.Hour)},
		{ID: "c2", Name: "Dos", Email: "dos@example.com", PipelineStage: entity.StageInTalks, CreatedAt: created.Add(time.Hour), StageUpdatedAt: created.Add(time.Hour)},
		{ID: "c3", Name: "Tres", Email: "tres@example.com", PipelineStage: entity.StageNew, CreatedAt: created, StageUpdatedAt: created},
	}}
	board := pipeline.NewBoard(store, "user-1")
	require.NoError(t, board.Refresh(context.Background()))
	return board, store
}

func stageOf(t *testing.T, b *pipeline.Board, id string) entity.PipelineStage {
	t.Helper()
	for _, c := range b.Customers() {
		if c.ID == id {
			return c.PipelineStage
		}
	}
	t.Fatalf("cliente %s no está en el tablero", id)
	return ""
}

func TestBoard_ByStageAgrupaEnOrden(t *testing.T) {
	board, _ := boardFixture(t)

	news := board.ByStage(entity.StageNew)
	require.Len(t, news, 2)
	assert.Equal(t, "c1", news[0].ID, "se preserva el orden del estado local")
	assert.Equal(t, "c3", news[1].ID)

	assert.Len(t, board.ByStage(entity.StageInTalks), 1)
	assert.Empty(t, board.ByStage(entity.StageClosed))
}

// Escenario 3: el parche optimista es visible antes de que la llamada remota
// resuelva.
func TestBoard_MoveToStage_ParcheOptimista(t *testing.T) {
	board, store := boardFixture(t)

	var duringCall entity.PipelineStage
	store.onUpdate = func() {
		duringCall = stageOf(t, board, "c1")
	}

	require.NoError(t, board.MoveToStage(context.Background(), "c1", entity.StageClosed))

	assert.Equal(t, entity.StageClosed, duringCall,
		"el estado local ya debe mostrar closed durante la llamada remota")
	assert.Equal(t, entity.StageClosed, stageOf(t, board, "c1"))
	assert.Equal(t, 1, store.updateCalls)
}

// Idempotencia: mover a la etapa actual no llama al store ni muta estado.
func TestBoard_MoveToStage_MismaEtapaEsNoOp(t *testing.T) {
	board, store := boardFixture(t)
	before := board.Customers()

	require.NoError(t, board.MoveToStage(context.Background(), "c1", entity.StageNew))

	assert.Zero(t, store.updateCalls, "no debe haber llamada remota")
	assert.Equal(t, before, board.Customers(), "el estado local debe quedar idéntico")
}

// Si la escritura remota falla, el parche compensatorio restaura la etapa y
// el timestamp anteriores.
func TestBoard_MoveToStage_RollbackEnFallo(t *testing.T) {
	board, store := boardFixture(t)
	store.updateErr = errors.New("conexión perdida")
	before := board.Customers()

	err := board.MoveToStage(context.Background(), "c2", entity.StageClosed)

	require.Error(t, err)
	assert.Equal(t, before, board.Customers(), "el rollback debe dejar el tablero como estaba")
}

func TestBoard_MoveToStage_ActualizaStageUpdatedAt(t *testing.T) {
	board, _ := boardFixture(t)
	var prev time.Time
	for _, c := range board.Customers() {
		if c.ID == "c3" {
			prev = c.StageUpdatedAt
		}
	}

	require.NoError(t, board.MoveToStage(context.Background(), "c3", entity.StageInTalks))

	for _, c := range board.Customers() {
		if c.ID == "c3" {
			assert.True(t, c.StageUpdatedAt.After(prev),
				"stage_updated_at debe avanzar junto con la etapa")
		}
	}
}

func TestBoard_MoveToStage_Errores(t *testing.T) {
	board, store := boardFixture(t)

	err := board.MoveToStage(context.Background(), "no-existe", entity.StageClosed)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = board.MoveToStage(context.Background(), "c1", entity.PipelineStage("won"))
	assert.ErrorIs(t, err, domain.ErrInvalidStage)

	assert.Zero(t, store.updateCalls)
}

func TestBoard_ObservadoresConAltaYBaja(t *testing.T) {
	board, _ := boardFixture(t)

	var got []string
	unsubscribe := board.Subscribe(func(c entity.Customer, from, to entity.PipelineStage) {
		got = append(got, c.ID+":"+string(from)+"->"+to.Label())
	})

	require.NoError(t, board.MoveToStage(context.Background(), "c1", entity.StageInTalks))
	require.Len(t, got, 1)
	assert.Equal(t, "c1:new->In Talks", got[0])

	// Tras darse de baja no llegan más notificaciones.
	unsubscribe()
	require.NoError(t, board.MoveToStage(context.Background(), "c1", entity.StageClosed))
	assert.Len(t, got, 1)
}

func TestBoard_ObservadorNoSeNotificaEnFallo(t *testing.T) {
	board, store := boardFixture(t)
	store.updateErr = errors.New("boom")

	notified := false
	board.Subscribe(func(entity.Customer, entity.PipelineStage, entity.PipelineStage) {
		notified = true
	})

	_ = board.MoveToStage(context.Background(), "c1", entity.StageClosed)
	assert.False(t, notified)
}

// Apply upserta con los campos confirmados por el servidor: edición parchea
// in situ, creación inserta al frente.
func TestBoard_ApplyYRemove(t *testing.T) {
	board, _ := boardFixture(t)

	edited := board.Customers()[1]
	edited.Name = "Dos Editado"
	board.Apply(edited)
	assert.Equal(t, "Dos Editado", board.Customers()[1].Name)

	nuevo := entity.Customer{ID: "c9", Name: "Nuevo", Email: "nuevo@example.com", PipelineStage: entity.StageNew}
	board.Apply(nuevo)
	require.Len(t, board.Customers(), 4)
	assert.Equal(t, "c9", board.Customers()[0].ID, "los más recientes van primero")

	board.Remove("c9")
	assert.Len(t, board.Customers(), 3)
	board.Remove("no-existe") // no-op silencioso
	assert.Len(t, board.Customers(), 3)
}

func TestBoard_FilterSobreEstadoLocal(t *testing.T) {
	board, _ := boardFixture(t)

	out := board.Filter("uno", "all")
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].ID)

	out = board.Filter("", "new")
	assert.Len(t, out, 2)
}

func TestManager_UnTableroPorUsuario(t *testing.T) {
	store := &fakeStore{}
	manager := pipeline.NewManager(store)

	b1 := manager.Board("user-1")
	b2 := manager.Board("user-2")
	assert.NotSame(t, b1, b2)
	assert.Same(t, b1, manager.Board("user-1"), "mismo usuario, mismo tablero")
	assert.False(t, b1.Loaded(), "el tablero nuevo se entrega sin cargar")
}
