// internal/platform/registry/provider_registry.go
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// ProviderRegistry gestiona el registro y la selección de proveedores de triage.
// Cada proveedor se registra desde el init() de su fichero; en el arranque se
// elige el de mayor prioridad cuya API key está presente en el entorno.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	metadata  map[string]ports.ProviderMetadata
	logger    logx.Logger
}

// ProviderFactory crea una instancia de proveedor.
type ProviderFactory func(cfg ports.ProviderConfig, logger logx.Logger) (ports.TriageProvider, error)

// LookupEnv firma de os.LookupEnv (inyectable en tests).
type LookupEnv func(key string) (string, bool)

var (
	globalRegistry *ProviderRegistry
	once           sync.Once
)

// Global retorna la instancia global del registry.
func Global() *ProviderRegistry {
	once.Do(func() {
		globalRegistry = NewProviderRegistry(logx.NewNop())
	})
	return globalRegistry
}

// NewProviderRegistry crea un nuevo registry de proveedores.
func NewProviderRegistry(logger logx.Logger) *ProviderRegistry {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
		metadata:  make(map[string]ports.ProviderMetadata),
		logger:    logger.With("component", "provider-registry"),
	}
}

// Register registra un proveedor con su metadata.
func (r *ProviderRegistry) Register(name string, factory ProviderFactory, meta ports.ProviderMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for provider %s", name)
	}
	if meta.EnvKey == "" {
		return fmt.Errorf("provider %s must declare an env key", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider %s is already registered", name)
	}

	meta.Name = name
	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("provider registered", "name", name, "env", meta.EnvKey, "priority", meta.Priority)

	return nil
}

// Select construye el primer proveedor, por prioridad, cuya API key exista.
// overrides permite fijar modelo, base URL o timeout por proveedor.
// Sin ninguna key retorna ErrNoProvider.
func (r *ProviderRegistry) Select(lookup LookupEnv, overrides map[string]ports.ProviderConfig, logger logx.Logger) (ports.TriageProvider, error) {
	if logger == nil {
		logger = logx.NewNop()
	}

	for _, meta := range r.ordered() {
		key, ok := lookup(meta.EnvKey)
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}

		cfg := overrides[meta.Name]
		cfg.APIKey = strings.TrimSpace(key)
		if cfg.Model == "" {
			cfg.Model = meta.DefaultModel
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = meta.DefaultBaseURL
		}
		cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

		r.mu.RLock()
		factory := r.factories[meta.Name]
		r.mu.RUnlock()

		provider, err := factory(cfg, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "build provider %s", meta.Name)
		}

		logger.Info("triage provider selected", "provider", meta.Name, "model", cfg.Model)
		return provider, nil
	}

	return nil, errors.Wrapf(errors.ErrNoProvider, "none of %s is set", strings.Join(r.EnvKeys(), ", "))
}

// ordered metadata de mayor a menor prioridad (nombre como desempate).
func (r *ProviderRegistry) ordered() []ports.ProviderMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.ProviderMetadata, 0, len(r.metadata))
	for _, meta := range r.metadata {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// EnvKeys variables de entorno de los proveedores, en orden de prioridad.
func (r *ProviderRegistry) EnvKeys() []string {
	var keys []string
	for _, meta := range r.ordered() {
		keys = append(keys, meta.EnvKey)
	}
	return keys
}
