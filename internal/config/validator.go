package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"vaspio/internal/source"
	"vaspio/internal/theme"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("configuration validation failed")

// Validator checks a Config against its struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the charset and theme rules registered
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("charset", func(fl validator.FieldLevel) bool {
		_, err := source.New("", fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return slices.Contains(theme.GetThemeManager().Available(), fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns one error listing every invalid field
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalid)
	}

	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, formatValidationError(e))
	}
	return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(messages, "\n  - "))
}

func formatValidationError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	case "charset":
		return fmt.Sprintf("%s is not a known character encoding (got: %v)", field, e.Value())
	case "theme":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field,
			strings.Join(theme.GetThemeManager().Available(), " "), e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", field, e.Tag(), e.Value())
	}
}

// formatFieldPath turns "Config.Plot.LineWidth" into "plot.line_width"
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) <= 1 {
		return namespace
	}

	result := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		result = append(result, camelToSnake(part))
	}
	return strings.Join(result, ".")
}

func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
