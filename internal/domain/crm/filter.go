package crm

import (
	"strings"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// StageFilterAll valor del filtro de etapa que desactiva el filtrado.
const StageFilterAll = "all"

// FilterCustomers aplica búsqueda de texto libre y filtro de etapa sobre la
// colección en memoria. La búsqueda es substring case-insensitive contra
// name, email y company (company ausente nunca matchea); el filtro de etapa
// es igualdad exacta, desactivado con "all". Ambos predicados se combinan
// con AND. El orden relativo de la entrada se preserva (la colección llega
// ordenada por created_at descendente). Función pura de sus tres entradas.
func FilterCustomers(customers []entity.Customer, term, stageFilter string) []entity.Customer {
	needle := strings.ToLower(strings.TrimSpace(term))
	filtered := make([]entity.Customer, 0, len(customers))
	for _, c := range customers {
		if needle != "" && !matchesTerm(c, needle) {
			continue
		}
		if stageFilter != StageFilterAll && stageFilter != "" && string(c.PipelineStage) != stageFilter {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func matchesTerm(c entity.Customer, needle string) bool {
	if strings.Contains(strings.ToLower(c.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Email), needle) {
		return true
	}
	if c.Company != nil && strings.Contains(strings.ToLower(*c.Company), needle) {
		return true
	}
	return false
}
