// internal/utils/validator.go
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Israeli mobile numbers: 05 followed by eight digits.
var ilPhoneRegex = regexp.MustCompile(`^05\d{8}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("il_phone", validateILPhone)
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateStruct(s interface{}) []ValidationError {
	var errors []ValidationError

	if err := validate.Struct(s); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   strings.ToLower(err.Field()),
				Message: getValidationMessage(err),
			})
		}
	}

	return errors
}

func validateILPhone(fl validator.FieldLevel) bool {
	return ilPhoneRegex.MatchString(fl.Field().String())
}

func getValidationMessage(err validator.FieldError) string {
	field := strings.ToLower(err.Field())

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "il_phone":
		return fmt.Sprintf("%s must be a valid Israeli mobile number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
