// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar spinners, colores y símbolos en la terminal.
type PTermPresenter struct {
	mu sync.Mutex

	// useSpinners solo con un target a la vez; con varios en paralelo las
	// líneas se intercalan y se imprime texto plano
	useSpinners bool

	// Spinners activos por target/stage
	spinners map[string]*pterm.SpinnerPrinter

	info      RunInfo
	startTime time.Time
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter(spinners bool) *PTermPresenter {
	return &PTermPresenter{
		useSpinners: spinners,
		spinners:    make(map[string]*pterm.SpinnerPrinter),
	}
}

// Start muestra el banner y la configuración de la ejecución
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info = info
	p.startTime = time.Now()

	pterm.Println(StylePrimary.Sprint(GetBanner(pterm.GetTerminalWidth())))
	pterm.Println()

	panel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgMagenta))

	targets := strings.Join(info.Targets, ", ")
	if len(info.Targets) > 5 {
		targets = fmt.Sprintf("%s, ... (%d total)", strings.Join(info.Targets[:5], ", "), len(info.Targets))
	}

	content := fmt.Sprintf("%s Target(s): %s\n", IconTarget, StyleAccent.Sprint(targets))
	content += fmt.Sprintf("%s Output Directory: %s\n", IconFolder, StyleAccent.Sprint(info.OutputDir))
	if info.Proxy != "" {
		content += fmt.Sprintf("%s Proxy: %s\n", IconProxy, StyleAccent.Sprint(info.Proxy))
	}
	content += fmt.Sprintf("   Parallel targets: %d\n", info.Parallel)
	content += fmt.Sprintf("   Dry-run: %s  Force: %s  LLM triage: %s",
		boolToString(info.DryRun), boolToString(info.Force), boolToString(info.Triage))

	panel.Println(content)
	pterm.Println()
}

// StartTarget muestra la cabecera de un target
func (p *PTermPresenter) StartTarget(target string, index, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println(StylePrimary.Sprintf("┌── [%d/%d] Starting reconnaissance on: %s", index, total, target))
}

// StartStage arranca el spinner del stage
func (p *PTermPresenter) StartStage(target, stage, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := fmt.Sprintf("  %s %s %s", IconStage, pterm.Cyan(stage), description)
	if !p.useSpinners {
		pterm.Println(text)
		return
	}

	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
		WithRemoveWhenDone(true).
		Start(text)

	p.spinners[spinnerKey(target, stage)] = spinner
}

// Command muestra la línea de comando
func (p *PTermPresenter) Command(target, cmdline string, dryRun bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefix := "    "
	if dryRun {
		prefix += StyleWarning.Sprint("[dry-run] ")
	}
	pterm.Println(prefix + StyleWarning.Sprint(cmdline))
}

// FinishStage detiene el spinner y muestra el resultado
func (p *PTermPresenter) FinishStage(target, stage string, status Status, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := spinnerKey(target, stage)
	if spinner, ok := p.spinners[key]; ok {
		_ = spinner.Stop()
		delete(p.spinners, key)
	}

	line := fmt.Sprintf("  %s %s", status.Symbol(), stage)
	if detail != "" {
		line += " " + detail
	}
	if !p.useSpinners {
		line = fmt.Sprintf("  %s [%s] %s", status.Symbol(), target, strings.TrimPrefix(line, "  "+status.Symbol()+" "))
	}
	status.Style().Println(line)
}

// FinishTarget muestra el cierre de un target
func (p *PTermPresenter) FinishTarget(summary TargetSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("└── Finished %s (%d URLs) in %s", summary.Target, summary.URLs, formatDuration(summary.Duration))
	switch {
	case summary.Failed != "":
		line += StyleError.Sprintf(" failed: %s", summary.Failed)
	case summary.Halted != "":
		line += StyleSecondary.Sprintf(" halted at %s", summary.Halted)
	}
	pterm.Println(StylePrimary.Sprint(line))
	pterm.Println()
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish muestra la tabla de targets y las rutas de salida
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinners()

	pterm.Println(pterm.LightMagenta(SeparatorHeavy))
	pterm.Println()

	if len(stats.Targets) > 0 {
		tableData := pterm.TableData{{"Target", "URLs", "Result", "Duration"}}
		for _, t := range stats.Targets {
			result := pterm.Green("done")
			switch {
			case t.Failed != "":
				result = pterm.Red("failed")
			case t.Halted != "":
				result = pterm.Gray("halted at " + t.Halted)
			}
			tableData = append(tableData, []string{
				t.Target,
				fmt.Sprintf("%d", t.URLs),
				result,
				formatDuration(t.Duration),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
		pterm.Println()
	}

	content := fmt.Sprintf("%s Total Duration: %s\n", IconTime, pterm.Green(formatDuration(stats.TotalDuration)))
	content += fmt.Sprintf("%s Unique URLs: %s", IconURLs, pterm.Cyan(fmt.Sprintf("%d", stats.TotalURLs)))
	if stats.URLFile != "" {
		content += fmt.Sprintf("\n%s URL list: %s", IconFolder, stats.URLFile)
	}
	if stats.SummaryFile != "" {
		content += fmt.Sprintf("\n%s Summary: %s", IconFolder, stats.SummaryFile)
	}
	if stats.ReportFile != "" {
		content += fmt.Sprintf("\n%s LLM analysis: %s", IconFolder, stats.ReportFile)
	}

	pterm.DefaultBox.
		WithTitle("Recon Complete").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen)).
		Println(content)

	if stats.URLFile != "" && stats.TotalURLs > 0 {
		pterm.Println()
		pterm.Success.Printf("Load '%s' into Burp Suite Site Map → 'Add to scope'.\n", stats.URLFile)
	}
	pterm.Println()
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinners()
	return nil
}

func (p *PTermPresenter) stopSpinners() {
	for key, spinner := range p.spinners {
		_ = spinner.Stop()
		delete(p.spinners, key)
	}
}

func spinnerKey(target, stage string) string {
	return target + "/" + stage
}
