// internal/core/domain/target.go
package domain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"reconflow/internal/platform/validator"
)

// Target representa un dominio a reconocer. Inmutable tras la carga.
type Target struct {
	// Root es el dominio tal como lo pidió el operador (normalizado)
	Root string

	// Registrable es el eTLD+1 de Root, solo informativo
	Registrable string
}

// NewTarget normaliza y valida un dominio.
func NewTarget(raw string) (*Target, error) {
	t := &Target{Root: raw}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate verifica que el target sea válido y lo normaliza.
func (t *Target) Validate() error {
	t.Root = validator.NormalizeDomain(t.Root)
	if t.Root == "" {
		return ErrEmptyTarget
	}

	if !validator.IsDomain(t.Root) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Root)
	}

	t.Registrable = validator.RegistrableDomain(t.Root)
	return nil
}

// DirName convierte el dominio en un nombre de carpeta/fichero válido.
// Ejemplo: "example.com" -> "example_com"
func (t Target) DirName() string {
	sanitized := strings.ReplaceAll(t.Root, ".", "_")
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
}

// String retorna una representación legible del target.
func (t Target) String() string {
	return t.Root
}

// ParseTargets lee un dominio por línea. Ignora líneas vacías y comentarios (#),
// descarta duplicados conservando el primer orden de aparición y devuelve los
// errores de las líneas inválidas sin abortar la lectura.
func ParseTargets(r io.Reader) ([]Target, []error, error) {
	var (
		targets []Target
		invalid []error
		seen    = make(map[string]struct{})
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		t, err := NewTarget(line)
		if err != nil {
			invalid = append(invalid, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		if _, dup := seen[t.Root]; dup {
			continue
		}
		seen[t.Root] = struct{}{}
		targets = append(targets, *t)
	}

	if err := sc.Err(); err != nil {
		return nil, invalid, fmt.Errorf("read targets: %w", err)
	}
	return targets, invalid, nil
}

// LoadTargets resuelve la lista de targets a partir de un dominio único o de
// un fichero; exactamente uno de los dos debe venir informado. Con fichero,
// la lista puede quedar vacía.
func LoadTargets(single, file string) ([]Target, []error, error) {
	switch {
	case single != "" && file != "":
		return nil, nil, ErrAmbiguousTargets
	case single != "":
		t, err := NewTarget(single)
		if err != nil {
			return nil, nil, err
		}
		return []Target{*t}, nil, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open target file: %w", err)
		}
		defer f.Close()

		// Un fichero sin líneas válidas no es un error: la ejecución sigue
		// y deja un urls_for_burp.txt vacío.
		return ParseTargets(f)
	default:
		return nil, nil, ErrEmptyTarget
	}
}
