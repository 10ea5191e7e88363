// internal/core/domain/result.go
package domain

import "time"

// StageOutcome registra lo ocurrido con un stage de un target.
type StageOutcome struct {
	Stage    Stage         `json:"stage"`
	Status   StageStatus   `json:"status"`
	Artifact string        `json:"artifact,omitempty"`
	ExitCode int           `json:"exit_code,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
	Message  string        `json:"message,omitempty"`

	// Lines líneas no vacías del artifact (subdominios, hosts, puertos...)
	Lines int `json:"lines"`
}

// TargetResult es el resultado del pipeline para un target.
type TargetResult struct {
	Target Target
	URLs   *URLSet

	// Outcomes en orden de ejecución
	Outcomes []StageOutcome

	// HaltedAt es el stage cuyo artifact no tenía datos; vacío si llegó a DONE
	HaltedAt Stage

	// ProbeURLs URLs extraídas del probe (semilla del crawl)
	ProbeURLs int

	// CrawlURLs líneas no vacías aportadas por el crawl
	CrawlURLs int

	Duration time.Duration
}

// NewTargetResult crea un resultado vacío para el target.
func NewTargetResult(target Target) *TargetResult {
	return &TargetResult{
		Target:   target,
		URLs:     NewURLSet(),
		Outcomes: make([]StageOutcome, 0, len(Stages())),
	}
}

// Record añade el outcome de un stage.
func (r *TargetResult) Record(o StageOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Halt marca el target como detenido en el stage dado.
func (r *TargetResult) Halt(stage Stage) {
	r.HaltedAt = stage
}

// Halted indica si el pipeline se detuvo antes de DONE.
func (r *TargetResult) Halted() bool {
	return r.HaltedAt != ""
}

// RunSummary resume una ejecución completa sobre todos los targets.
type RunSummary struct {
	OutputDir  string
	URLFile    string
	ReportFile string

	Targets   []*TargetResult
	TotalURLs int

	// Failed targets aislados por un error no fatal
	Failed map[string]string

	StartTime time.Time
	EndTime   time.Time
}

// Duration tiempo total de la ejecución.
func (s *RunSummary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
