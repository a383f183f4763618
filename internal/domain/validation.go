package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match what clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name[:1]) + fld.Name[1:]
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of v and converts the first failure
// into a *ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	return NewValidationError(fe.Field(), constraintMessage(fe), sentinelFor(fe))
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed the %q constraint", fe.Tag())
	}
}

func sentinelFor(fe validator.FieldError) error {
	switch fe.Field() {
	case "status":
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidStatus)
	case "role":
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidRole)
	default:
		return ErrValidation
	}
}
