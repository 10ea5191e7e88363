// internal/core/ports/exporter.go
package ports

import "reconflow/internal/core/domain"

// Exporter es el port para persistir el resumen de una ejecución en
// diferentes formatos.
type Exporter interface {
	// Name retorna el nombre del exporter (ej: "json")
	Name() string

	// Export escribe el resumen y retorna la ruta del fichero generado
	Export(summary *domain.RunSummary) (string, error)
}

// URLListWriter persiste la lista final de URLs (una por línea).
type URLListWriter interface {
	// WriteURLs sobrescribe el fichero con las URLs dadas y retorna su ruta
	WriteURLs(sortedURLs []string) (string, error)
}
