// internal/platform/ui/presenter.go
package ui

import (
	"time"
)

// UIMode define el modo de visualización
type UIMode string

const (
	UIModePretty UIMode = "pretty" // Headers, spinners y tablas con pterm (default)
	UIModeRaw    UIMode = "raw"    // Una línea logfmt por evento, apto para CI
	UIModeQuiet  UIMode = "quiet"  // Sin UI visual
)

// Presenter define la interfaz para presentar el progreso de la ejecución
// del pipeline de reconocimiento al operador.
type Presenter interface {
	// Start muestra la cabecera con la configuración de la ejecución
	Start(info RunInfo)

	// StartTarget notifica el inicio del pipeline de un target
	StartTarget(target string, index, total int)

	// StartStage notifica que un stage va a ejecutarse
	StartStage(target, stage, description string)

	// Command muestra la línea de comando que se ejecuta (o se ejecutaría en dry-run)
	Command(target, cmdline string, dryRun bool)

	// FinishStage notifica el resultado de un stage
	FinishStage(target, stage string, status Status, detail string)

	// FinishTarget notifica el final del pipeline de un target
	FinishTarget(summary TargetSummary)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con estadísticas finales
	Finish(stats RunStats)

	// Close limpia recursos del presenter
	Close() error
}

// RunInfo contiene información inicial de la ejecución
type RunInfo struct {
	Targets   []string
	OutputDir string
	Proxy     string
	DryRun    bool
	Force     bool
	Triage    bool
	Parallel  int
}

// TargetSummary resultado de un target para la UI
type TargetSummary struct {
	Target   string
	URLs     int
	Halted   string
	Failed   string
	Duration time.Duration
}

// RunStats contiene estadísticas finales de la ejecución
type RunStats struct {
	TotalDuration time.Duration
	Targets       []TargetSummary
	TotalURLs     int
	URLFile       string
	SummaryFile   string
	ReportFile    string
}
