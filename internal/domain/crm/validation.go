package crm

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// Límites de campos del Customer.
const (
	maxNameLen    = 100
	maxEmailLen   = 255
	maxCompanyLen = 100
	maxNotesLen   = 2000
)

// maxOpportunityValue tope del valor de oportunidad.
var maxOpportunityValue = decimal.NewFromInt(999_999_999)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// phoneRe se aplica después de quitar espacios, guiones y paréntesis.
	phoneRe      = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)
	phoneStripRe = regexp.MustCompile(`[\s\-()]`)

	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// ValidationError error de validación a nivel de campo: la primera regla
// violada gana (orden fijo de precedencia) y nunca llega a la capa remota.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CustomerInput campos crudos de un cliente tal como llegan del formulario,
// antes de sanear y validar.
type CustomerInput struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	OpportunityValue *decimal.Decimal
	Notes            string
	PipelineStage    string
}

// ValidCustomer registro normalizado y tipado, resultado de ValidateCustomer.
type ValidCustomer struct {
	Name             string
	Email            string
	Phone            *string
	Company          *string
	OpportunityValue decimal.NullDecimal
	Notes            *string
	PipelineStage    entity.PipelineStage
}

// ValidateCustomer sanea los campos de texto libre y valida en orden fijo de
// precedencia (la primera regla violada gana):
//
//	1. name     requerido, recortado, 1–100
//	2. email    requerido, sintaxis RFC, ≤255, en minúsculas
//	3. phone    opcional, patrón E.164 tras quitar espacios/guiones/paréntesis
//	4. company  opcional, recortado, ≤100
//	5. opportunity_value opcional, en [0, 999999999]
//	6. notes    opcional, recortado, ≤2000
//	7. pipeline_stage   una de las tres etapas
func ValidateCustomer(in CustomerInput) (*ValidCustomer, *ValidationError) {
	name := Sanitize(in.Name)
	phone := Sanitize(in.Phone)
	company := Sanitize(in.Company)
	notes := Sanitize(in.Notes)

	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if len(name) > maxNameLen {
		return nil, &ValidationError{Field: "name", Message: "Name must be less than 100 characters"}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !emailRe.MatchString(email) {
		return nil, &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if len(email) > maxEmailLen {
		return nil, &ValidationError{Field: "email", Message: "Email must be less than 255 characters"}
	}

	if phone != "" {
		stripped := phoneStripRe.ReplaceAllString(phone, "")
		if !phoneRe.MatchString(stripped) {
			return nil, &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
		}
	}

	if len(company) > maxCompanyLen {
		return nil, &ValidationError{Field: "company", Message: "Company name must be less than 100 characters"}
	}

	value := decimal.NullDecimal{}
	if in.OpportunityValue != nil {
		if in.OpportunityValue.IsNegative() {
			return nil, &ValidationError{Field: "opportunity_value", Message: "Opportunity value cannot be negative"}
		}
		if in.OpportunityValue.GreaterThan(maxOpportunityValue) {
			return nil, &ValidationError{Field: "opportunity_value", Message: "Opportunity value is too large"}
		}
		value = decimal.NullDecimal{Decimal: *in.OpportunityValue, Valid: true}
	}

	if len(notes) > maxNotesLen {
		return nil, &ValidationError{Field: "notes", Message: "Notes must be less than 2000 characters"}
	}

	stage, ok := entity.ParsePipelineStage(in.PipelineStage)
	if !ok {
		return nil, &ValidationError{Field: "pipeline_stage", Message: "Pipeline stage must be new, in_talks or closed"}
	}

	return &ValidCustomer{
		Name:             name,
		Email:            email,
		Phone:            optional(phone),
		Company:          optional(company),
		OpportunityValue: value,
		Notes:            optional(notes),
		PipelineStage:    stage,
	}, nil
}

// ValidateSignUp valida los datos de registro de usuario: email con sintaxis
// válida, password con política mínima (8+ caracteres, mayúscula, minúscula y
// dígito) y nombre completo de 1–100 caracteres.
func ValidateSignUp(email, password, fullName string) *ValidationError {
	if !emailRe.MatchString(strings.ToLower(strings.TrimSpace(email))) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if len(password) < 8 {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if !lowerRe.MatchString(password) || !upperRe.MatchString(password) || !digitRe.MatchString(password) {
		return &ValidationError{Field: "password", Message: "Password must contain uppercase, lowercase, and number"}
	}
	name := strings.TrimSpace(fullName)
	if name == "" {
		return &ValidationError{Field: "full_name", Message: "Full name is required"}
	}
	if len(name) > maxNameLen {
		return &ValidationError{Field: "full_name", Message: "Full name must be less than 100 characters"}
	}
	return nil
}

// optional devuelve nil para strings vacíos (campos opcionales ausentes).
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
