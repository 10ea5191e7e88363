// internal/testutil/fake_runner.go
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
)

// Call registra una invocación recibida por FakeRunner.
type Call struct {
	Command ports.Command
	DryRun  bool
}

// FakeRunner emula las herramientas externas: en lugar de lanzar procesos
// escribe el contenido configurado en la ruta que sigue a "-o".
//
// Búsqueda del contenido: primero TargetOutputs[<dir del target>][stage],
// después Outputs[stage]. Si no hay entrada la herramienta "no escribe nada"
// y el fichero no se crea.
type FakeRunner struct {
	mu sync.Mutex

	Outputs       map[domain.Stage]string
	TargetOutputs map[string]map[domain.Stage]string

	// ExitCodes exit code por stage (0 por defecto)
	ExitCodes map[domain.Stage]int

	// Missing binarios que se comportan como no instalados
	Missing map[string]bool

	// Err error genérico a devolver en todas las llamadas (ej: cancelación)
	Err error

	calls []Call
}

var _ ports.CommandRunner = (*FakeRunner)(nil)

// NewFakeRunner crea un FakeRunner con salidas por stage.
func NewFakeRunner(outputs map[domain.Stage]string) *FakeRunner {
	if outputs == nil {
		outputs = make(map[domain.Stage]string)
	}
	return &FakeRunner{
		Outputs:       outputs,
		TargetOutputs: make(map[string]map[domain.Stage]string),
		ExitCodes:     make(map[domain.Stage]int),
		Missing:       make(map[string]bool),
	}
}

// Execute implementa ports.CommandRunner.
func (f *FakeRunner) Execute(ctx context.Context, cmd ports.Command, dryRun bool) (ports.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Command: cmd, DryRun: dryRun})
	f.mu.Unlock()

	if dryRun {
		return ports.Result{DryRun: true}, nil
	}
	if f.Err != nil {
		return ports.Result{}, f.Err
	}
	if err := ctx.Err(); err != nil {
		return ports.Result{}, err
	}
	if f.Missing[cmd.Name] {
		return ports.Result{}, errors.NewMissingBinaryError(cmd.Name, os.ErrNotExist)
	}

	out := OutputPath(cmd)
	if content, ok := f.lookup(cmd.Stage, out); ok && out != "" {
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return ports.Result{}, err
		}
	}

	return ports.Result{ExitCode: f.ExitCodes[cmd.Stage]}, nil
}

func (f *FakeRunner) lookup(stage domain.Stage, out string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if byStage, ok := f.TargetOutputs[filepath.Base(filepath.Dir(out))]; ok {
		content, ok := byStage[stage]
		return content, ok
	}
	content, ok := f.Outputs[stage]
	return content, ok
}

// Calls devuelve una copia de las invocaciones registradas.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor devuelve las invocaciones de un stage.
func (f *FakeRunner) CallsFor(stage domain.Stage) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Command.Stage == stage {
			out = append(out, c)
		}
	}
	return out
}

// Stages devuelve los stages invocados, en orden.
func (f *FakeRunner) Stages() []domain.Stage {
	var out []domain.Stage
	for _, c := range f.Calls() {
		out = append(out, c.Command.Stage)
	}
	return out
}

// OutputPath devuelve el argumento que sigue a "-o".
func OutputPath(cmd ports.Command) string {
	for i := 0; i < len(cmd.Args)-1; i++ {
		if cmd.Args[i] == "-o" {
			return cmd.Args[i+1]
		}
	}
	return ""
}
