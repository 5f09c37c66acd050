// Package crm contiene la lógica pura del dominio CRM: saneamiento y
// validación de clientes, filtrado/búsqueda en memoria y agregación de
// métricas del pipeline. Ninguna función de este paquete tiene efectos
// secundarios ni toca persistencia.
package crm

import (
	"regexp"
	"strings"
)

// Patrones de saneamiento. Defensa en profundidad contra inyección de markup
// almacenado cuando el valor se renderiza después; basado en patrones, no es
// un parser HTML completo.
var (
	scriptTagRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	jsSchemeRe  = regexp.MustCompile(`(?i)javascript:`)
	eventAttrRe = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// Sanitize elimina secuencias tipo <script>, el esquema javascript: y
// atributos de event handlers inline, y recorta espacios. Se aplica hasta
// punto fijo para que la eliminación no deje nuevas secuencias peligrosas
// (p. ej. "java<script></script>script:"), lo que además garantiza
// idempotencia: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(input string) string {
	out := input
	for {
		next := scriptTagRe.ReplaceAllString(out, "")
		next = jsSchemeRe.ReplaceAllString(next, "")
		next = eventAttrRe.ReplaceAllString(next, "")
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
