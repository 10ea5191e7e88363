// internal/adapters/output/markdown.go
package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ReportHeader cabecera del informe de triage.
const ReportHeader = "# LLM Prioritization Analysis\n\nGenerated: %s\n\n"

// MarkdownReport escribe <dir>/llm_analysis.md.
type MarkdownReport struct {
	path string
	now  func() time.Time
}

// NewMarkdownReport crea el writer del informe.
func NewMarkdownReport(dir string) *MarkdownReport {
	return &MarkdownReport{
		path: filepath.Join(dir, ReportFile),
		now:  time.Now,
	}
}

// Path ruta del informe.
func (m *MarkdownReport) Path() string {
	return m.path
}

// Write escribe cabecera + análisis de forma atómica y retorna la ruta.
func (m *MarkdownReport) Write(analysis string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, ReportHeader, m.now().Format("2006-01-02 15:04:05"))
	b.WriteString(analysis)
	if !strings.HasSuffix(analysis, "\n") {
		b.WriteByte('\n')
	}
	if err := WriteFileAtomic(m.path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return m.path, nil
}
