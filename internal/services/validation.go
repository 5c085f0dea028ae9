package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/learncamera/backend/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks struct tags and turns the first violation into a validation error
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fieldErr := validationErrors[0]
	switch fieldErr.Tag() {
	case "required":
		return apperrors.Validation(fmt.Sprintf("%s is required", fieldErr.Field()))
	case "email":
		return apperrors.Validation(fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
	case "url":
		return apperrors.Validation(fmt.Sprintf("%s must be a valid URL", fieldErr.Field()))
	case "oneof":
		return apperrors.Validation(fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
	case "min":
		return apperrors.Validation(fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
	case "max":
		return apperrors.Validation(fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param()))
	default:
		return apperrors.Validation(fmt.Sprintf("%s is invalid", fieldErr.Field()))
	}
}
