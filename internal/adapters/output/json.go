// internal/adapters/output/json.go
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// SummaryExporter escribe <dir>/summary.json.
type SummaryExporter struct {
	dir string
}

var _ ports.Exporter = (*SummaryExporter)(nil)

// NewSummaryExporter crea el exporter JSON.
func NewSummaryExporter(dir string) *SummaryExporter {
	return &SummaryExporter{dir: dir}
}

// Name implementa ports.Exporter.
func (e *SummaryExporter) Name() string {
	return "json"
}

// Export implementa ports.Exporter.
func (e *SummaryExporter) Export(summary *domain.RunSummary) (string, error) {
	var buf bytes.Buffer
	if err := EncodeSummary(&buf, summary); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, SummaryFile)
	if err := WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SummaryDocument es la forma serializada del resumen.
type SummaryDocument struct {
	OutputDir  string            `json:"output_dir"`
	URLFile    string            `json:"url_file"`
	ReportFile string            `json:"report_file,omitempty"`
	TotalURLs  int               `json:"total_urls"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Duration   string            `json:"duration"`
	Targets    []TargetDocument  `json:"targets"`
	Failed     map[string]string `json:"failed,omitempty"`
}

// TargetDocument resumen serializado de un target.
type TargetDocument struct {
	Target      string                `json:"target"`
	Registrable string                `json:"registrable_domain,omitempty"`
	URLs        int                   `json:"urls"`
	ProbeURLs   int                   `json:"probe_urls"`
	CrawlURLs   int                   `json:"crawl_urls"`
	HaltedAt    string                `json:"halted_at,omitempty"`
	Duration    string                `json:"duration"`
	Stages      []domain.StageOutcome `json:"stages"`
}

// BuildSummaryDocument construye el documento desde un RunSummary.
func BuildSummaryDocument(summary *domain.RunSummary) SummaryDocument {
	doc := SummaryDocument{
		OutputDir:  summary.OutputDir,
		URLFile:    summary.URLFile,
		ReportFile: summary.ReportFile,
		TotalURLs:  summary.TotalURLs,
		StartedAt:  summary.StartTime,
		FinishedAt: summary.EndTime,
		Duration:   summary.Duration().Round(time.Millisecond).String(),
		Targets:    make([]TargetDocument, 0, len(summary.Targets)),
	}
	if len(summary.Failed) > 0 {
		doc.Failed = summary.Failed
	}

	for _, t := range summary.Targets {
		if t == nil {
			continue
		}
		stages := t.Outcomes
		if stages == nil {
			stages = []domain.StageOutcome{}
		}
		doc.Targets = append(doc.Targets, TargetDocument{
			Target:      t.Target.Root,
			Registrable: t.Target.Registrable,
			URLs:        t.URLs.Len(),
			ProbeURLs:   t.ProbeURLs,
			CrawlURLs:   t.CrawlURLs,
			HaltedAt:    t.HaltedAt.String(),
			Duration:    t.Duration.Round(time.Millisecond).String(),
			Stages:      stages,
		})
	}
	return doc
}

// EncodeSummary codifica el resumen como JSON indentado.
func EncodeSummary(w io.Writer, summary *domain.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildSummaryDocument(summary)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
