// internal/core/domain/target_test.go
package domain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTarget(t *testing.T) {
	target, err := NewTarget("  Shop.Example.CO.UK. ")
	require.NoError(t, err)

	assert.Equal(t, "shop.example.co.uk", target.Root)
	assert.Equal(t, "example.co.uk", target.Registrable)
	assert.Equal(t, "shop.example.co.uk", target.String())
}

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{name: "valid domain", root: "example.com"},
		{name: "valid subdomain", root: "test.example.com"},
		{name: "www is kept", root: "www.example.com"},
		{name: "valid domain with hyphen", root: "my-domain.com"},
		{name: "empty domain", root: "", wantErr: ErrEmptyTarget},
		{name: "blank domain", root: "   ", wantErr: ErrEmptyTarget},
		{name: "IP address should fail", root: "192.168.1.1", wantErr: ErrInvalidDomain},
		{name: "IPv6 address should fail", root: "2001:db8::1", wantErr: ErrInvalidDomain},
		{name: "invalid characters", root: "invalid_domain.com", wantErr: ErrInvalidDomain},
		{name: "url is not a domain", root: "https://example.com", wantErr: ErrInvalidDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &Target{Root: tt.root}
			err := target.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTarget_DirName(t *testing.T) {
	tests := map[string]string{
		"example.com":           "example_com",
		"api.test-1.example.io": "api_test-1_example_io",
		"www.example.com":       "www_example_com",
	}
	for root, want := range tests {
		assert.Equal(t, want, Target{Root: root}.DirName(), root)
	}
}

func TestParseTargets(t *testing.T) {
	input := strings.Join([]string{
		"# scope",
		"example.com",
		"",
		"  api.example.com  ",
		"EXAMPLE.com",
		"not a domain",
		"other.org",
	}, "\n")

	targets, invalid, err := ParseTargets(strings.NewReader(input))
	require.NoError(t, err)

	var roots []string
	for _, tg := range targets {
		roots = append(roots, tg.Root)
	}
	if diff := cmp.Diff([]string{"example.com", "api.example.com", "other.org"}, roots); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, invalid, 1)
	assert.ErrorIs(t, invalid[0], ErrInvalidDomain)
	assert.Contains(t, invalid[0].Error(), "line 6")
}

func TestLoadTargets(t *testing.T) {
	t.Run("single target", func(t *testing.T) {
		targets, invalid, err := LoadTargets("example.com", "")
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, targets, 1)
		assert.Equal(t, "example.com", targets[0].Root)
	})

	t.Run("single invalid target", func(t *testing.T) {
		_, _, err := LoadTargets("bad_domain", "")
		assert.ErrorIs(t, err, ErrInvalidDomain)
	})

	t.Run("both sources", func(t *testing.T) {
		_, _, err := LoadTargets("example.com", "targets.txt")
		assert.ErrorIs(t, err, ErrAmbiguousTargets)
	})

	t.Run("no source", func(t *testing.T) {
		_, _, err := LoadTargets("", "")
		assert.ErrorIs(t, err, ErrEmptyTarget)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "targets.txt")
		require.NoError(t, os.WriteFile(path, []byte("a.com\nb.com\n\na.com\n"), 0o644))

		targets, invalid, err := LoadTargets("", path)
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, targets, 2)
		assert.Equal(t, "a.com", targets[0].Root)
		assert.Equal(t, "b.com", targets[1].Root)
	})

	t.Run("file without valid targets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "targets.txt")
		require.NoError(t, os.WriteFile(path, []byte("# nothing\n\n10.0.0.1\n*.example.com\n"), 0o644))

		targets, invalid, err := LoadTargets("", path)
		require.NoError(t, err)
		assert.Empty(t, targets)
		assert.Len(t, invalid, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadTargets("", filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
