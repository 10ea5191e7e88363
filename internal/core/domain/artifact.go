// internal/core/domain/artifact.go
package domain

import (
	"os"
)

// StageArtifact es el fichero que produce un stage. La herramienta externa lo
// escribe por sí misma (flag -o); aquí solo se inspecciona.
type StageArtifact struct {
	Stage Stage
	Path  string
}

// ArtifactInfo resultado de inspeccionar el fichero en disco.
type ArtifactInfo struct {
	Exists bool
	Size   int64
}

// NewStageArtifact crea un artifact para el stage y la ruta dados.
func NewStageArtifact(stage Stage, path string) StageArtifact {
	return StageArtifact{Stage: stage, Path: path}
}

// Stat inspecciona el fichero. Cualquier error de stat (no solo "no existe")
// cuenta como ausencia: un artifact ilegible nunca rompe el pipeline.
func (a StageArtifact) Stat() ArtifactInfo {
	if a.Path == "" {
		return ArtifactInfo{}
	}
	fi, err := os.Stat(a.Path)
	if err != nil || fi.IsDir() {
		return ArtifactInfo{}
	}
	return ArtifactInfo{Exists: true, Size: fi.Size()}
}

// Exists indica si el fichero está en disco.
func (a StageArtifact) Exists() bool {
	return a.Stat().Exists
}

// HasData indica si el fichero existe y no está vacío.
func (a StageArtifact) HasData() bool {
	info := a.Stat()
	return info.Exists && info.Size > 0
}

// Read devuelve el contenido del artifact.
func (a StageArtifact) Read() (string, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
