// internal/triage/reporter.go

// Package triage pregunta a un modelo de lenguaje qué endpoints descubiertos
// conviene probar antes a mano y guarda la respuesta como informe Markdown.
package triage

import (
	"context"
	"fmt"
	"strings"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// SampleSize número máximo de URLs incluidas en el prompt.
const SampleSize = 50

const promptTemplate = `You are a senior web application security expert.
Here are up to 50 discovered endpoints from a target:

%s

Highlight any endpoints that are particularly interesting for manual testing (e.g. admin panels, login, upload, API, backup files, etc.).
Return in Markdown format with brief reasoning.`

// ReportWriter persiste el análisis (output.MarkdownReport).
type ReportWriter interface {
	Write(analysis string) (string, error)
}

// Reporter implementa ports.TriageReporter.
type Reporter struct {
	provider ports.TriageProvider
	writer   ReportWriter
	logger   logx.Logger
}

var _ ports.TriageReporter = (*Reporter)(nil)

// NewReporter crea el reporter. provider puede ser nil: en ese caso Report
// devuelve ErrNoProvider y la ejecución sigue sin informe.
func NewReporter(provider ports.TriageProvider, writer ReportWriter, logger logx.Logger) *Reporter {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Reporter{
		provider: provider,
		writer:   writer,
		logger:   logger.With("component", "triage"),
	}
}

// Report envía las primeras SampleSize URLs al proveedor y escribe el informe.
// Si el proveedor falla no se escribe nada.
func (r *Reporter) Report(ctx context.Context, sortedURLs []string) (string, error) {
	if r.provider == nil {
		return "", errors.ErrNoProvider
	}
	if r.writer == nil {
		return "", errors.Wrap(errors.ErrInvalidInput, "triage: no report writer")
	}

	sample := Sample(sortedURLs)
	r.logger.Info("requesting triage", "provider", r.provider.Name(), "urls", len(sample))

	analysis, err := r.provider.Generate(ctx, BuildPrompt(sample))
	if err != nil {
		return "", err
	}

	path, err := r.writer.Write(analysis)
	if err != nil {
		return "", errors.Wrap(err, "write triage report")
	}

	r.logger.Info("triage report written", "path", path, "bytes", len(analysis))
	return path, nil
}

// Sample primeras SampleSize URLs de la lista (ya ordenada).
func Sample(sortedURLs []string) []string {
	if len(sortedURLs) > SampleSize {
		return sortedURLs[:SampleSize]
	}
	return sortedURLs
}

// BuildPrompt arma el prompt con una URL por línea.
func BuildPrompt(sample []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(sample, "\n"))
}
