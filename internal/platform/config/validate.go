// internal/platform/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"reconflow/internal/platform/errors"
	inputs "reconflow/internal/platform/validator"
)

// Validate comprueba la configuración ya normalizada. Los errores envuelven
// ErrInvalidInput para que main salga con código 2.
func Validate(cfg Config) error {
	validate := validator.New()

	// host:port o URL completa
	_ = validate.RegisterValidation("proxy", func(fl validator.FieldLevel) bool {
		return inputs.IsProxyEndpoint(fl.Field().String())
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "debug", "info", "warn", "warning", "error":
			return true
		default:
			return false
		}
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.Wrap(errors.ErrInvalidInput, strings.Join(msgs, "; "))
}

// describe traduce un FieldError a un mensaje para el operador, nombrando el flag.
func describe(fe validator.FieldError) string {
	field := fieldName(fe.Namespace())

	switch fe.Tag() {
	case "required_without":
		return "one of --target/-d or --input-file/-f is required"
	case "excluded_with":
		return "--target/-d and --input-file/-f are mutually exclusive"
	case "proxy":
		return fmt.Sprintf("%s: %q is not host:port or a URL", field, fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s: %q is not one of debug, info, warn, error", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s: %q is not a valid URL", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

var flagNames = map[string]string{
	"Config.Proxy":        "--proxy",
	"Config.Parallel":     "--parallel",
	"Config.StageTimeout": "--stage-timeout",
	"Config.LogLevel":     "--log-level",
	"Config.UI":           "--ui",
}

// fieldName nombre del flag si existe; si no, la ruta del campo sin "Config.".
func fieldName(namespace string) string {
	if name, ok := flagNames[namespace]; ok {
		return name
	}
	return strings.TrimPrefix(namespace, "Config.")
}
