// cmd/reconflow/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"reconflow/internal/adapters/output"
	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/core/usecases"
	"reconflow/internal/platform/config"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"
	"reconflow/internal/platform/runner"
	"reconflow/internal/platform/ui"
	"reconflow/internal/tools"
	"reconflow/internal/triage"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Códigos de salida
const (
	exitOK     = 0
	exitFatal  = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Config (flags > env > fichero > defaults)
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: reconflow -h for help")
		return exitConfig
	}
	if cfg.ShowHelp {
		config.PrintHelp(os.Stdout)
		return exitOK
	}
	if cfg.PrintVersion {
		config.PrintVersion(os.Stdout, version, commit, date)
		return exitOK
	}

	// 2. Targets. Un fichero sin líneas válidas no es un error de config:
	// la ejecución sigue y deja un urls_for_burp.txt vacío.
	targets, invalid, err := domain.LoadTargets(cfg.Target, cfg.TargetFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: create output directory: %v\n", err)
		return exitFatal
	}

	// 3. Logger: consola + log rotado de la ejecución
	consoleLevel := logx.ParseLevel(cfg.LogLevel)
	if cfg.UI == config.UIPretty && consoleLevel < logx.LevelWarn {
		// pterm ya cuenta el progreso; la consola solo recibe avisos
		consoleLevel = logx.LevelWarn
	}
	logger, logCloser := logx.NewWithOptions(logx.Options{
		Level:          consoleLevel,
		FilePath:       filepath.Join(cfg.OutputDir, output.RunLogFile),
		FileMaxSizeMB:  10,
		FileMaxBackups: 3,
	})
	defer logCloser.Close()

	logger.Info("reconflow starting",
		"version", version,
		"commit", commit,
		"date", date,
		"config", cfg.String(),
	)

	presenter := ui.New(ui.UIMode(cfg.UI), true)
	defer presenter.Close()

	for _, e := range invalid {
		logger.Warn("invalid target skipped", "error", e.Error())
		presenter.Warning(fmt.Sprintf("skipping invalid target: %v", e))
	}
	if len(targets) == 0 {
		logger.Warn("no valid targets", "file", cfg.TargetFile)
		presenter.Warning(fmt.Sprintf("no valid targets in %s", cfg.TargetFile))
	}

	// 4. Context y señales para un cierre limpio
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	if !cfg.DryRun {
		for _, name := range runner.Preflight(cfg.Tools.Binaries.Names()...) {
			logger.Warn("tool not found in PATH", "binary", name)
			presenter.Warning(fmt.Sprintf("%s not found in PATH; the run stops when it is needed", name))
		}
	}

	// 5. Pipeline por target
	pipeline := usecases.NewTargetPipeline(usecases.TargetPipelineOptions{
		Runner: runner.New(logger, runner.Options{
			Proxy:        cfg.Proxy,
			StageTimeout: cfg.StageTimeout,
		}),
		Builder:   tools.NewBuilder(cfg.Tools, cfg.Proxy),
		Logger:    logger,
		Presenter: presenter,
		DryRun:    cfg.DryRun,
		Force:     cfg.Force,
		SeedDir:   cfg.OutputDir,
	})

	// 6. Triage opcional
	var reporter ports.TriageReporter
	if cfg.LLM {
		reporter = buildReporter(cfg, logger)
	}

	aggregator := usecases.NewAggregator(usecases.AggregatorOptions{
		Pipeline:  pipeline,
		Logger:    logger,
		Presenter: presenter,
		OutputDir: cfg.OutputDir,
		Parallel:  cfg.Parallel,
		URLWriter: output.NewURLList(cfg.OutputDir),
		Exporters: []ports.Exporter{output.NewSummaryExporter(cfg.OutputDir)},
		Triage:    reporter,
	})

	presenter.Start(ui.RunInfo{
		Targets:   targetNames(targets),
		OutputDir: cfg.OutputDir,
		Proxy:     cfg.Proxy,
		DryRun:    cfg.DryRun,
		Force:     cfg.Force,
		Triage:    cfg.LLM,
		Parallel:  cfg.Parallel,
	})

	// 7. Ejecución
	start := time.Now()
	summary, runErr := aggregator.Run(ctx, targets)
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())

		var missing *errors.MissingBinaryError
		switch {
		case errors.As(runErr, &missing):
			presenter.Error(fmt.Sprintf("%s not found", missing.Binary))
			presenter.Info(missing.Hint())
		case errors.Is(runErr, context.Canceled):
			presenter.Warning("interrupted")
		default:
			presenter.Error(fmt.Sprintf("run aborted: %v", runErr))
		}
		return exitFatal
	}

	presenter.Finish(runStats(summary, elapsed))

	if cfg.UI == config.UIRaw {
		if err := output.OutputTable(os.Stdout, summary); err != nil {
			logger.Err(err, "phase", "output")
		}
	}

	logger.Info("reconflow finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"targets", len(targets),
		"urls", summary.TotalURLs,
		"failed", len(summary.Failed),
	)

	return exitOK
}

// buildReporter elige proveedor por variables de entorno. Sin API key se
// retorna un reporter sin proveedor: el aggregator avisa y sigue.
func buildReporter(cfg config.Config, logger logx.Logger) ports.TriageReporter {
	provider, err := registry.Global().Select(os.LookupEnv, cfg.Triage.Overrides(), logger)
	if err != nil {
		if !errors.IsNoProvider(err) {
			logger.Err(err, "phase", "triage-setup")
		}
		return triage.NewReporter(nil, output.NewMarkdownReport(cfg.OutputDir), logger)
	}

	logger.Info("triage provider selected", "provider", provider.Name())
	return triage.NewReporter(provider, output.NewMarkdownReport(cfg.OutputDir), logger)
}

func targetNames(targets []domain.Target) []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Root
	}
	return names
}

func runStats(summary *domain.RunSummary, elapsed time.Duration) ui.RunStats {
	stats := ui.RunStats{
		TotalDuration: elapsed,
		TotalURLs:     summary.TotalURLs,
		URLFile:       summary.URLFile,
		SummaryFile:   filepath.Join(summary.OutputDir, output.SummaryFile),
		ReportFile:    summary.ReportFile,
	}
	for _, res := range summary.Targets {
		if res == nil {
			continue
		}
		stats.Targets = append(stats.Targets, ui.TargetSummary{
			Target:   res.Target.Root,
			URLs:     res.URLs.Len(),
			Halted:   res.HaltedAt.String(),
			Failed:   summary.Failed[res.Target.Root],
			Duration: res.Duration,
		})
	}
	return stats
}

// rootContextWithSignals crea el context raíz cancelado por SIGINT/SIGTERM.
// La función de cancelación libera el handler de señales y la goroutine.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanup
}
