// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	ErrEmptyTarget      = errors.New("target cannot be empty")
	ErrInvalidDomain    = errors.New("invalid domain format")
	ErrAmbiguousTargets = errors.New("use either a single target or a target file, not both")
)
