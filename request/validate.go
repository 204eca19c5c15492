package request

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// ValidateStruct checks the `validate` tags of s, the way Endpoint.Validate does. It is
// exported for descriptors that implement Validator on their own structs.
func ValidateStruct(s any) error {
	if err := structValidator().Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError lists the descriptor fields that failed validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is the validation failure of a single field.
type FieldError struct {
	Field   string
	Message string
}

// NewValidationError converts go-playground/validator errors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Namespace(),
			Message: fieldErrorMessage(err),
		})
	}
	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	default:
		return fmt.Sprintf("validation failed: %d errors, first: %s", len(ve.Errors), ve.Errors[0].Message)
	}
}

// HasField reports whether field (the struct field name) failed validation.
func (ve *ValidationError) HasField(field string) bool {
	for _, fe := range ve.Errors {
		if fe.Field == field || fieldName(fe.Field) == field {
			return true
		}
	}
	return false
}

// fieldName strips the struct namespace and any index from a validator namespace,
// e.g. "Endpoint[int].Header[]" becomes "Header".
func fieldName(namespace string) string {
	name := namespace
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
