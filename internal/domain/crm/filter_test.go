package crm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

// colección de prueba en orden created_at descendente.
func sampleCustomers() []entity.Customer {
	return []entity.Customer{
		{ID: "c1", Name: "Jane Acme", Email: "jane@personal.io", PipelineStage: entity.StageNew},
		{ID: "c2", Name: "Bob Smith", Email: "bob@acme.com", Company: strPtr("Acme Corp"), PipelineStage: entity.StageInTalks},
		{ID: "c3", Name: "Carla Ruiz", Email: "carla@globex.com", Company: strPtr("Globex"), PipelineStage: entity.StageClosed},
		{ID: "c4", Name: "Dana Lee", Email: "dana@initech.com", PipelineStage: entity.StageNew},
	}
}

// Escenario 4: "acme" matchea por company y por name; quien no contiene el
// término en ningún campo queda fuera.
func TestFilterCustomers_BusquedaPorNombreYCompany(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "acme", crm.StageFilterAll)
	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].ID, "Jane Acme matchea por nombre")
	assert.Equal(t, "c2", out[1].ID, "Acme Corp matchea por company")
}

func TestFilterCustomers_CaseInsensitive(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "ACME", crm.StageFilterAll)
	assert.Len(t, out, 2)
}

func TestFilterCustomers_CompanyAusenteNoMatchea(t *testing.T) {
	// "initech" solo está en el email de c4; un término que solo existiría en
	// company de registros sin company no debe matchear nada.
	out := crm.FilterCustomers(sampleCustomers(), "globex", crm.StageFilterAll)
	require.Len(t, out, 1)
	assert.Equal(t, "c3", out[0].ID)
}

func TestFilterCustomers_FiltroDeEtapa(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "", "new")
	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].ID)
	assert.Equal(t, "c4", out[1].ID)
}

func TestFilterCustomers_AllDesactivaElFiltro(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "", crm.StageFilterAll)
	assert.Len(t, out, 4)
}

func TestFilterCustomers_PreservaOrdenRelativo(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "", crm.StageFilterAll)
	ids := []string{}
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, ids)
}

// Propiedad: los dos predicados componen por AND —
// filter(C, term, stage) == filter(filter(C, term, all), "", stage).
func TestFilterCustomers_ComposicionAND(t *testing.T) {
	customers := sampleCustomers()
	terms := []string{"", "acme", "a", "zzz"}
	stages := []string{crm.StageFilterAll, "new", "in_talks", "closed"}
	for _, term := range terms {
		for _, stage := range stages {
			combined := crm.FilterCustomers(customers, term, stage)
			chained := crm.FilterCustomers(crm.FilterCustomers(customers, term, crm.StageFilterAll), "", stage)
			assert.Equal(t, chained, combined, "term=%q stage=%q", term, stage)
		}
	}
}

func TestFilterCustomers_SinResultados(t *testing.T) {
	out := crm.FilterCustomers(sampleCustomers(), "no-existe", crm.StageFilterAll)
	assert.Empty(t, out)
}
