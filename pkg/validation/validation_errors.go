package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the Spanish labels the website
// visitor sees in validation messages.
var FieldLabels = map[string]string{
	"FullName": "El nombre completo",
	"Email":    "El correo electrónico",
	"Phone":    "El teléfono",
	"Subject":  "El asunto",
	"Message":  "El mensaje",
}

// FormatValidationErrors converts validator.ValidationErrors to
// user-friendly Spanish messages, one per violated rule, in field order.
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{"Los datos enviados no son válidos"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", label)
	case "email":
		return fmt.Sprintf("%s no tiene un formato válido", label)
	case "valid_phone":
		return fmt.Sprintf("%s no tiene un formato válido", label)
	case "max":
		return fmt.Sprintf("%s no puede superar los %s caracteres", label, e.Param())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", label, e.Param())
	default:
		return fmt.Sprintf("%s no es válido", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
