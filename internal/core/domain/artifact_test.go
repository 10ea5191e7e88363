// internal/core/domain/artifact_test.go
package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageArtifact_Stat(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "subfinder.txt")
	require.NoError(t, os.WriteFile(full, []byte("a.example.com\n"), 0o644))

	empty := filepath.Join(dir, "dnsx.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name    string
		path    string
		exists  bool
		hasData bool
	}{
		{name: "with data", path: full, exists: true, hasData: true},
		{name: "zero size", path: empty, exists: true, hasData: false},
		{name: "missing", path: filepath.Join(dir, "naabu.txt")},
		{name: "directory", path: dir},
		{name: "empty path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStageArtifact(StageEnumerate, tt.path)
			assert.Equal(t, tt.exists, a.Exists())
			assert.Equal(t, tt.hasData, a.HasData())
		})
	}
}

func TestStageArtifact_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "httpx.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.example.com [200]\n"), 0o644))

	content, err := NewStageArtifact(StageProbe, path).Read()
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com [200]\n", content)

	_, err = NewStageArtifact(StageProbe, path+".missing").Read()
	assert.Error(t, err)
}

func TestStages_Order(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 5)
	assert.Equal(t, StageEnumerate, stages[0])
	assert.Equal(t, StageCrawl, stages[4])
	assert.Equal(t, "probe", stages[3].String())
}
