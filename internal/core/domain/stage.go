// internal/core/domain/stage.go
package domain

// Stage identifica un paso del pipeline por target.
type Stage string

const (
	// StageEnumerate descubre subdominios (subfinder)
	StageEnumerate Stage = "enumerate"

	// StageResolve resuelve los subdominios (dnsx)
	StageResolve Stage = "resolve"

	// StageScan busca puertos web abiertos (naabu)
	StageScan Stage = "scan"

	// StageProbe comprueba qué servicios HTTP responden (httpx)
	StageProbe Stage = "probe"

	// StageCrawl rastrea las URLs vivas (katana)
	StageCrawl Stage = "crawl"
)

// Stages devuelve los stages en orden de ejecución.
func Stages() []Stage {
	return []Stage{StageEnumerate, StageResolve, StageScan, StageProbe, StageCrawl}
}

// String retorna la representación string del stage.
func (s Stage) String() string {
	return string(s)
}

// StageStatus describe qué ocurrió con un stage para un target.
type StageStatus string

const (
	// StageStatusRan la herramienta se ejecutó y dejó datos
	StageStatusRan StageStatus = "ran"

	// StageStatusReused se reutilizó un artifact existente
	StageStatusReused StageStatus = "reused"

	// StageStatusDryRun solo se mostró el comando
	StageStatusDryRun StageStatus = "dry-run"

	// StageStatusFailed la herramienta terminó con código distinto de cero
	StageStatusFailed StageStatus = "failed"

	// StageStatusEmpty el artifact no existe o está vacío
	StageStatusEmpty StageStatus = "empty"

	// StageStatusSkipped no hubo entrada para este stage
	StageStatusSkipped StageStatus = "skipped"
)
