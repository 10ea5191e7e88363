// internal/adapters/output/files.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Nombres de los ficheros de la raíz de la ejecución.
const (
	URLListFile = "urls_for_burp.txt"
	SummaryFile = "summary.json"
	ReportFile  = "llm_analysis.md"
	RunLogFile  = "reconflow.log"
)

// URLList escribe la lista final de URLs para importar en Burp.
type URLList struct {
	path string
}

// NewURLList crea el writer de <dir>/urls_for_burp.txt.
func NewURLList(dir string) *URLList {
	return &URLList{path: filepath.Join(dir, URLListFile)}
}

// Path ruta del fichero.
func (u *URLList) Path() string {
	return u.path
}

// WriteURLs sobrescribe el fichero con una URL por línea. Con cero URLs el
// fichero queda vacío pero existe.
func (u *URLList) WriteURLs(sortedURLs []string) (string, error) {
	var b strings.Builder
	for _, url := range sortedURLs {
		b.WriteString(url)
		b.WriteByte('\n')
	}
	if err := WriteFileAtomic(u.path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write url list: %w", err)
	}
	return u.path, nil
}

// WriteFileAtomic escribe en un temporal del mismo directorio y lo renombra,
// de forma que el destino nunca queda a medias.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op tras el rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
