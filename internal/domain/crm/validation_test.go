package crm_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// validInput entrada base válida; cada test muta el campo que le interesa.
func validInput() crm.CustomerInput {
	value := decimal.NewFromInt(5000)
	return crm.CustomerInput{
		Name:             "Jane Acme",
		Email:            "Jane@Example.COM",
		Phone:            "+1 (555) 123-4567",
		Company:          "Acme Corp",
		OpportunityValue: &value,
		Notes:            "Primer contacto en la feria",
		PipelineStage:    "new",
	}
}

func TestValidateCustomer_EntradaValidaNormaliza(t *testing.T) {
	out, verr := crm.ValidateCustomer(validInput())
	require.Nil(t, verr)
	require.NotNil(t, out)

	assert.Equal(t, "Jane Acme", out.Name)
	assert.Equal(t, "jane@example.com", out.Email, "el email debe quedar en minúsculas")
	require.NotNil(t, out.Phone)
	assert.Equal(t, "+1 (555) 123-4567", *out.Phone)
	require.NotNil(t, out.Company)
	assert.Equal(t, "Acme Corp", *out.Company)
	assert.True(t, out.OpportunityValue.Valid)
	assert.True(t, out.OpportunityValue.Decimal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, entity.StageNew, out.PipelineStage)
}

func TestValidateCustomer_NombreRequerido(t *testing.T) {
	in := validInput()
	in.Name = "   "
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "name", verr.Field)
}

func TestValidateCustomer_NombreDemasiadoLargo(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("a", 101)
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "name", verr.Field)
}

func TestValidateCustomer_EmailInvalido(t *testing.T) {
	for _, email := range []string{"", "no-es-email", "a@b", "a @b.com"} {
		in := validInput()
		in.Email = email
		_, verr := crm.ValidateCustomer(in)
		require.NotNil(t, verr, "email %q debe ser rechazado", email)
		assert.Equal(t, "email", verr.Field)
	}
}

// Escenario 5 de la especificación de producto: el teléfono se valida tras
// quitar espacios, guiones y paréntesis.
func TestValidateCustomer_Telefono(t *testing.T) {
	in := validInput()
	in.Phone = "+1 (555) 123-4567"
	_, verr := crm.ValidateCustomer(in)
	assert.Nil(t, verr, "teléfono con formato debe pasar")

	in.Phone = "abc"
	_, verr = crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "phone", verr.Field)

	// Cero inicial no es E.164
	in.Phone = "0555123"
	_, verr = crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "phone", verr.Field)

	// Vacío es opcional
	in.Phone = ""
	out, verr := crm.ValidateCustomer(in)
	require.Nil(t, verr)
	assert.Nil(t, out.Phone)
}

func TestValidateCustomer_ValorDeOportunidad(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	in := validInput()
	in.OpportunityValue = &neg
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "opportunity_value", verr.Field)

	tooBig := decimal.NewFromInt(1_000_000_000)
	in.OpportunityValue = &tooBig
	_, verr = crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "opportunity_value", verr.Field)

	in.OpportunityValue = nil
	out, verr := crm.ValidateCustomer(in)
	require.Nil(t, verr)
	assert.False(t, out.OpportunityValue.Valid, "valor ausente queda NullDecimal inválido")
}

func TestValidateCustomer_NotasDemasiadoLargas(t *testing.T) {
	in := validInput()
	in.Notes = strings.Repeat("n", 2001)
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "notes", verr.Field)
}

func TestValidateCustomer_EtapaInvalida(t *testing.T) {
	in := validInput()
	in.PipelineStage = "won"
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "pipeline_stage", verr.Field)
}

// La primera regla violada gana: con nombre y email inválidos a la vez debe
// reportarse name.
func TestValidateCustomer_PrecedenciaPrimerError(t *testing.T) {
	in := validInput()
	in.Name = ""
	in.Email = "invalido"
	_, verr := crm.ValidateCustomer(in)
	require.NotNil(t, verr)
	assert.Equal(t, "name", verr.Field)
}

// Propiedad: un registro que pasa la validación vuelve a pasarla sin cambios
// al re-enviarse (no hay drift de normalización).
func TestValidateCustomer_RoundTripEstable(t *testing.T) {
	first, verr := crm.ValidateCustomer(validInput())
	require.Nil(t, verr)

	resubmit := crm.CustomerInput{
		Name:          first.Name,
		Email:         first.Email,
		PipelineStage: string(first.PipelineStage),
	}
	if first.Phone != nil {
		resubmit.Phone = *first.Phone
	}
	if first.Company != nil {
		resubmit.Company = *first.Company
	}
	if first.OpportunityValue.Valid {
		v := first.OpportunityValue.Decimal
		resubmit.OpportunityValue = &v
	}
	if first.Notes != nil {
		resubmit.Notes = *first.Notes
	}

	second, verr := crm.ValidateCustomer(resubmit)
	require.Nil(t, verr)
	assert.Equal(t, first, second)
}

func TestValidateSignUp(t *testing.T) {
	assert.Nil(t, crm.ValidateSignUp("jane@example.com", "Secreto123", "Jane Doe"))

	verr := crm.ValidateSignUp("no-email", "Secreto123", "Jane")
	require.NotNil(t, verr)
	assert.Equal(t, "email", verr.Field)

	verr = crm.ValidateSignUp("jane@example.com", "corta1A", "Jane")
	require.NotNil(t, verr)
	assert.Equal(t, "password", verr.Field)

	verr = crm.ValidateSignUp("jane@example.com", "sinmayusculas1", "Jane")
	require.NotNil(t, verr)
	assert.Equal(t, "password", verr.Field)

	verr = crm.ValidateSignUp("jane@example.com", "Secreto123", "  ")
	require.NotNil(t, verr)
	assert.Equal(t, "full_name", verr.Field)
}
