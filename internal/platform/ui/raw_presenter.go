// internal/platform/ui/raw_presenter.go
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (una línea por evento,
// sin colores ni spinners)
type RawPresenter struct {
	format LogFormat
	out    io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewRawPresenter crea un nuevo RawPresenter que escribe en stdout
func NewRawPresenter(format LogFormat) *RawPresenter {
	return NewRawPresenterWithWriter(format, os.Stdout)
}

// NewRawPresenterWithWriter crea un RawPresenter sobre un writer arbitrario
func NewRawPresenterWithWriter(format LogFormat, out io.Writer) *RawPresenter {
	return &RawPresenter{
		format: format,
		out:    out,
		now:    time.Now,
	}
}

// log escribe un evento en el formato configurado
func (r *RawPresenter) log(level, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields map[string]interface{}) {
	parts := []string{timestamp, fmt.Sprintf("%-5s", level), message}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r.formatValue(fields[k])))
	}

	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}
	if len(fields) > 0 {
		entry["data"] = fields
	}

	jsonBytes, _ := json.Marshal(entry)
	fmt.Fprintln(r.out, string(jsonBytes))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios)
func (r *RawPresenter) formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Start registra la configuración de la ejecución
func (r *RawPresenter) Start(info RunInfo) {
	r.log("INFO", "run_started", map[string]interface{}{
		"targets":  strings.Join(info.Targets, ","),
		"output":   info.OutputDir,
		"proxy":    info.Proxy,
		"dry_run":  info.DryRun,
		"force":    info.Force,
		"triage":   info.Triage,
		"parallel": info.Parallel,
	})
}

// StartTarget registra el inicio de un target
func (r *RawPresenter) StartTarget(target string, index, total int) {
	r.log("INFO", "target_started", map[string]interface{}{
		"target": target,
		"index":  index,
		"total":  total,
	})
}

// StartStage registra el inicio de un stage
func (r *RawPresenter) StartStage(target, stage, description string) {
	r.log("INFO", "stage_started", map[string]interface{}{
		"target":      target,
		"stage":       stage,
		"description": description,
	})
}

// Command registra la línea de comando
func (r *RawPresenter) Command(target, cmdline string, dryRun bool) {
	r.log("INFO", "command", map[string]interface{}{
		"target":  target,
		"cmdline": cmdline,
		"dry_run": dryRun,
	})
}

// FinishStage registra el resultado de un stage
func (r *RawPresenter) FinishStage(target, stage string, status Status, detail string) {
	level := "INFO"
	switch status {
	case StatusWarning:
		level = "WARN"
	case StatusError:
		level = "ERROR"
	}
	r.log(level, "stage_completed", map[string]interface{}{
		"target": target,
		"stage":  stage,
		"status": status.String(),
		"detail": detail,
	})
}

// FinishTarget registra el final de un target
func (r *RawPresenter) FinishTarget(summary TargetSummary) {
	fields := map[string]interface{}{
		"target":   summary.Target,
		"urls":     summary.URLs,
		"duration": summary.Duration,
	}
	if summary.Halted != "" {
		fields["halted"] = summary.Halted
	}
	if summary.Failed != "" {
		fields["failed"] = summary.Failed
	}
	r.log("INFO", "target_completed", fields)
}

// Info muestra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning muestra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error muestra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Finish registra las estadísticas finales
func (r *RawPresenter) Finish(stats RunStats) {
	r.log("INFO", "run_completed", map[string]interface{}{
		"duration":   stats.TotalDuration,
		"targets":    len(stats.Targets),
		"total_urls": stats.TotalURLs,
		"url_file":   stats.URLFile,
		"summary":    stats.SummaryFile,
		"report":     stats.ReportFile,
	})
}

// Close limpia recursos
func (r *RawPresenter) Close() error {
	return nil
}
