// Package validate wraps go-playground/validator with the project rules:
// json tag names in error fields, the "notblank" tag and user-friendly messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/nkiryanov/identity/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// Struct validates value using its `validate` struct tags.
// Returns *apperrors.ValidationError if value is not valid.
func Struct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		// Not a struct passed: programming error, not user input problem
		return fmt.Errorf("can't validate value. Err: %w", err)
	}

	return apperrors.NewValidationError(Messages(errs))
}

// Messages converts validator errors to field -> message map
func Messages(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))

	for _, fieldError := range errs {
		fields[fieldError.Field()] = message(fieldError)
	}

	return fields
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Value is too short (minimum %s)", fe.Param())
		}
		return fmt.Sprintf("Value is too small (minimum %s)", fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Value is too long (maximum %s)", fe.Param())
		}
		return fmt.Sprintf("Value is too big (maximum %s)", fe.Param())
	case "email":
		return "Must be a valid email address"
	default:
		return "Invalid value"
	}
}
