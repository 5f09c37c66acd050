package crm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prism-crm/prism-api/internal/domain/crm"
)

func TestSanitize_EliminaScriptTags(t *testing.T) {
	in := `Hola <script>alert("xss")</script>mundo`
	assert.Equal(t, "Hola mundo", crm.Sanitize(in))
}

func TestSanitize_EliminaScriptConAtributos(t *testing.T) {
	in := `<script type="text/javascript">document.cookie</script>Acme`
	assert.Equal(t, "Acme", crm.Sanitize(in))
}

func TestSanitize_EliminaEsquemaJavascript(t *testing.T) {
	assert.Equal(t, "alert(1)", crm.Sanitize("javascript:alert(1)"))
	// Case-insensitive
	assert.Equal(t, "x", crm.Sanitize("JaVaScRiPt:x"))
}

func TestSanitize_EliminaEventHandlers(t *testing.T) {
	assert.Equal(t, `<img src=x "1">`, crm.Sanitize(`<img src=x onerror="1">`))
	assert.Equal(t, "foo", crm.Sanitize("onclick= foo"))
}

func TestSanitize_RecortaEspacios(t *testing.T) {
	assert.Equal(t, "Jane Doe", crm.Sanitize("  Jane Doe  "))
}

func TestSanitize_TextoLimpioQuedaIgual(t *testing.T) {
	assert.Equal(t, "Acme Corp", crm.Sanitize("Acme Corp"))
}

// La eliminación se aplica hasta punto fijo: quitar una secuencia no debe
// dejar otra peligrosa recién formada.
func TestSanitize_SecuenciasAnidadas(t *testing.T) {
	out := crm.Sanitize("java<script>x</script>script:alert(1)")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<script")
}

// Propiedad: Sanitize es idempotente para cualquier entrada.
func TestSanitize_Idempotente(t *testing.T) {
	inputs := []string{
		"",
		"texto normal",
		`<script>a</script>`,
		"javascript:javascript:x",
		"java<script>y</script>script:z",
		`  <img onerror=alert(1) src=x>  `,
		"onon click=click=",
	}
	for _, in := range inputs {
		once := crm.Sanitize(in)
		twice := crm.Sanitize(once)
		assert.Equal(t, once, twice, "Sanitize debe ser idempotente para %q", in)
	}
}
