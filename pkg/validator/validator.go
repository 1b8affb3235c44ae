package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) ([]ValidationError, bool) {
	if err := v.validate.Struct(i); err != nil {
		return toValidationErrors(err), false
	}

	return nil, true
}

// ValidateVar checks a single value against tag, reporting failures under
// the given field name.
func (v *Validator) ValidateVar(field string, value any, tag string) ([]ValidationError, bool) {
	if err := v.validate.Var(value, tag); err != nil {
		errors := toValidationErrors(err)
		for i := range errors {
			errors[i].Field = field
			errors[i].Message = strings.Replace(errors[i].Message, "value", field, 1)
		}
		return errors, false
	}

	return nil, true
}

func toValidationErrors(err error) []ValidationError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Code: "INVALID", Message: err.Error()}}
	}

	errors := make([]ValidationError, 0, len(validationErrors))
	for _, err := range validationErrors {
		field := err.Field()
		if field == "" {
			field = "value"
		}

		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must not exceed %s characters", field, err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		default:
			message = fmt.Sprintf("%s failed on %s", field, err.Tag())
		}

		errors = append(errors, ValidationError{
			Field:   field,
			Code:    strings.ToUpper(err.Tag()),
			Message: message,
		})
	}

	return errors
}
