// internal/core/ports/triage.go
package ports

import (
	"context"
	"time"
)

// TriageProvider es un servicio de modelos de lenguaje capaz de devolver texto
// a partir de un prompt.
type TriageProvider interface {
	// Name retorna el nombre del proveedor (ej: "gemini", "openai")
	Name() string

	// Generate envía el prompt y retorna el texto generado
	Generate(ctx context.Context, prompt string) (string, error)
}

// TriageReporter genera el informe de priorización a partir de la lista
// ordenada de URLs.
type TriageReporter interface {
	// Report escribe el informe y retorna su ruta
	Report(ctx context.Context, sortedURLs []string) (string, error)
}

// ProviderConfig configuración de un proveedor concreto.
type ProviderConfig struct {
	// APIKey credencial leída del entorno
	APIKey string

	// Model modelo a usar (vacío = el del proveedor)
	Model string

	// BaseURL endpoint base de la API (vacío = el público)
	BaseURL string

	// Timeout timeout por petición (0 = el del cliente HTTP)
	Timeout time.Duration
}

// ProviderMetadata describe un proveedor registrado.
type ProviderMetadata struct {
	Name        string
	Description string

	// EnvKey variable de entorno que habilita el proveedor
	EnvKey string

	DefaultModel   string
	DefaultBaseURL string

	// Priority mayor = se prueba antes
	Priority int
}
