// internal/core/usecases/stage_gate.go
package usecases

import "reconflow/internal/core/domain"

// Decision resultado de consultar el gate antes de un stage.
type Decision int

const (
	// DecisionRun la herramienta debe ejecutarse (o anunciarse en dry-run)
	DecisionRun Decision = iota

	// DecisionReuse el artifact ya existe y se reutiliza
	DecisionReuse
)

// String retorna la representación string de la decisión.
func (d Decision) String() string {
	if d == DecisionReuse {
		return "reuse"
	}
	return "run"
}

// StageGate decide si un stage se ejecuta y si el pipeline puede seguir.
// Solo mira el fichero en disco; no guarda estado.
type StageGate struct{}

// NewStageGate crea un StageGate.
func NewStageGate() StageGate {
	return StageGate{}
}

// ShouldRun reutiliza el artifact si ya existe, salvo en dry-run o con force.
// Un fichero vacío también se reutiliza: es lo que dejó la ejecución anterior.
func (StageGate) ShouldRun(artifact domain.StageArtifact, dryRun, force bool) Decision {
	if dryRun || force {
		return DecisionRun
	}
	if artifact.Exists() {
		return DecisionReuse
	}
	return DecisionRun
}

// CanProceed exige que el artifact exista y tenga al menos un byte.
func (StageGate) CanProceed(artifact domain.StageArtifact) bool {
	return artifact.HasData()
}
