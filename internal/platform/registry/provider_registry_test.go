// internal/platform/registry/provider_registry_test.go
package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

type fakeProvider struct {
	name string
	cfg  ports.ProviderConfig
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Generate(context.Context, string) (string, error) {
	return "ok", nil
}

func fakeFactory(name string) ProviderFactory {
	return func(cfg ports.ProviderConfig, _ logx.Logger) (ports.TriageProvider, error) {
		return &fakeProvider{name: name, cfg: cfg}, nil
	}
}

func env(vars map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func newTestRegistry(t *testing.T) *ProviderRegistry {
	t.Helper()
	r := NewProviderRegistry(logx.NewNop())
	require.NoError(t, r.Register("primary", fakeFactory("primary"), ports.ProviderMetadata{
		EnvKey:         "PRIMARY_KEY",
		DefaultModel:   "p-1",
		DefaultBaseURL: "https://primary.example/",
		Priority:       20,
	}))
	require.NoError(t, r.Register("secondary", fakeFactory("secondary"), ports.ProviderMetadata{
		EnvKey:       "SECONDARY_KEY",
		DefaultModel: "s-1",
		Priority:     10,
	}))
	return r
}

func TestProviderRegistry_Register(t *testing.T) {
	r := NewProviderRegistry(nil)

	require.NoError(t, r.Register("x", fakeFactory("x"), ports.ProviderMetadata{EnvKey: "X_KEY"}))
	assert.Equal(t, []string{"X_KEY"}, r.EnvKeys())

	assert.Error(t, r.Register("x", fakeFactory("x"), ports.ProviderMetadata{EnvKey: "X_KEY"}), "duplicate")
	assert.Error(t, r.Register("", fakeFactory("y"), ports.ProviderMetadata{EnvKey: "Y"}), "empty name")
	assert.Error(t, r.Register("y", nil, ports.ProviderMetadata{EnvKey: "Y"}), "nil factory")
	assert.Error(t, r.Register("z", fakeFactory("z"), ports.ProviderMetadata{}), "missing env key")
}

func TestProviderRegistry_Order(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"PRIMARY_KEY", "SECONDARY_KEY"}, r.EnvKeys())
}

func TestProviderRegistry_Select(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    string
		wantErr error
	}{
		{name: "both keys prefers primary", vars: map[string]string{"PRIMARY_KEY": "a", "SECONDARY_KEY": "b"}, want: "primary"},
		{name: "only secondary", vars: map[string]string{"SECONDARY_KEY": "b"}, want: "secondary"},
		{name: "blank key is ignored", vars: map[string]string{"PRIMARY_KEY": "  ", "SECONDARY_KEY": "b"}, want: "secondary"},
		{name: "no keys", vars: map[string]string{}, wantErr: errors.ErrNoProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newTestRegistry(t).Select(env(tt.vars), nil, nil)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestProviderRegistry_SelectAppliesDefaultsAndOverrides(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.Select(env(map[string]string{"PRIMARY_KEY": " k "}), nil, nil)
	require.NoError(t, err)
	cfg := p.(*fakeProvider).cfg
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "p-1", cfg.Model)
	assert.Equal(t, "https://primary.example", cfg.BaseURL)

	p, err = r.Select(env(map[string]string{"PRIMARY_KEY": "k"}), map[string]ports.ProviderConfig{
		"primary": {Model: "p-2", BaseURL: "http://127.0.0.1:9999"},
	}, nil)
	require.NoError(t, err)
	cfg = p.(*fakeProvider).cfg
	assert.Equal(t, "p-2", cfg.Model)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
}

func TestProviderRegistry_NoProviderMessageNamesKeys(t *testing.T) {
	_, err := newTestRegistry(t).Select(env(nil), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_KEY, SECONDARY_KEY")
}
