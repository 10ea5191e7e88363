// internal/core/ports/runner.go
package ports

import (
	"context"
	"strings"
	"time"

	"reconflow/internal/core/domain"
)

// CommandRunner es el port para ejecutar las herramientas externas.
// Cualquier implementación (proceso real, fake de tests) debe respetar el mismo
// contrato: un binario ausente es el único error fatal; un exit code distinto
// de cero se devuelve en Result con error nil.
type CommandRunner interface {
	// Execute lanza el comando, o solo lo anuncia si dryRun es true
	Execute(ctx context.Context, cmd Command, dryRun bool) (Result, error)
}

// Command describe una invocación de herramienta externa.
type Command struct {
	// Stage al que pertenece la invocación
	Stage domain.Stage

	// Name binario a ejecutar (ej: "subfinder")
	Name string

	// Args argumentos en orden
	Args []string

	// Stdin contenido a escribir en la entrada estándar (vacío = sin stdin)
	Stdin string

	// Description texto legible para el operador
	Description string
}

// CommandLine devuelve el comando como se escribiría en una shell.
func (c Command) CommandLine() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result es el resultado de una invocación.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration

	// DryRun el proceso no se lanzó
	DryRun bool

	// TimedOut el proceso fue terminado por el deadline del stage
	TimedOut bool
}

// Success indica exit code cero sin timeout.
func (r Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}
