// internal/testutil/helpers.go
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile crea el fichero (y sus directorios) con el contenido dado.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile devuelve el contenido del fichero o falla el test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ReadLines devuelve las líneas no vacías del fichero.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	var lines []string
	for _, l := range strings.Split(ReadFile(t, path), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// FileExists indica si la ruta existe.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
