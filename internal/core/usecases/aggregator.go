// internal/core/usecases/aggregator.go
package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/ui"
)

// Aggregator recorre los targets, une sus URLs en un único conjunto y
// escribe los ficheros finales de la ejecución.
type Aggregator struct {
	pipeline  *TargetPipeline
	logger    logx.Logger
	presenter ui.Presenter

	outputDir string
	parallel  int

	urlWriter ports.URLListWriter
	exporters []ports.Exporter

	// triage nil = desactivado
	triage ports.TriageReporter
}

// AggregatorOptions configura el agregador.
type AggregatorOptions struct {
	Pipeline  *TargetPipeline
	Logger    logx.Logger
	Presenter ui.Presenter
	OutputDir string
	Parallel  int
	URLWriter ports.URLListWriter
	Exporters []ports.Exporter
	Triage    ports.TriageReporter
}

// NewAggregator crea una nueva instancia del agregador.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Presenter == nil {
		opts.Presenter = ui.NewNoopPresenter()
	}

	return &Aggregator{
		pipeline:  opts.Pipeline,
		logger:    opts.Logger.With("component", "aggregator"),
		presenter: opts.Presenter,
		outputDir: opts.OutputDir,
		parallel:  opts.Parallel,
		urlWriter: opts.URLWriter,
		exporters: opts.Exporters,
		triage:    opts.Triage,
	}
}

// Run procesa todos los targets y escribe la lista final de URLs una sola vez.
//
// Solo aborta ante un binario ausente o una cancelación; cualquier otro fallo
// de un target queda aislado en RunSummary.Failed.
func (a *Aggregator) Run(ctx context.Context, targets []domain.Target) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		OutputDir: a.outputDir,
		Targets:   make([]*domain.TargetResult, len(targets)),
		Failed:    make(map[string]string),
		StartTime: time.Now(),
	}

	a.logger.Info("run started", "targets", len(targets), "parallel", a.parallel, "output", a.outputDir)

	global := domain.NewURLSet()
	var failedMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallel)

	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			a.presenter.StartTarget(target.Root, i+1, len(targets))
			res, err := a.pipeline.Run(gctx, target, filepath.Join(a.outputDir, target.DirName()))
			if res == nil {
				res = domain.NewTargetResult(target)
			}
			summary.Targets[i] = res

			if err != nil {
				if isFatal(gctx, err) {
					a.presenter.FinishTarget(targetSummary(res, err.Error()))
					return err
				}
				a.logger.Err(err, "target", target.Root)
				a.presenter.Error(fmt.Sprintf("%s: %v", target.Root, err))
				failedMu.Lock()
				summary.Failed[target.Root] = err.Error()
				failedMu.Unlock()
				a.presenter.FinishTarget(targetSummary(res, err.Error()))
				return nil
			}

			added := global.Merge(res.URLs)
			a.logger.Info("target finished",
				"target", target.Root,
				"urls", res.URLs.Len(),
				"new_urls", added,
				"halted", res.HaltedAt.String(),
				"duration", res.Duration,
			)
			a.presenter.FinishTarget(targetSummary(res, ""))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		summary.EndTime = time.Now()
		return summary, err
	}

	sorted := global.Sorted()
	summary.TotalURLs = len(sorted)

	if a.urlWriter != nil {
		path, err := a.urlWriter.WriteURLs(sorted)
		if err != nil {
			summary.EndTime = time.Now()
			return summary, errors.Wrap(err, "write url list")
		}
		summary.URLFile = path
		a.presenter.Info(fmt.Sprintf("All discovered URLs saved to: %s (%d total)", path, len(sorted)))
		a.logger.Info("url list written", "path", path, "urls", len(sorted))
	}

	if a.triage != nil && len(sorted) > 0 {
		summary.ReportFile = a.runTriage(ctx, sorted)
	}

	summary.EndTime = time.Now()

	for _, exp := range a.exporters {
		path, err := exp.Export(summary)
		if err != nil {
			a.logger.Err(err, "exporter", exp.Name())
			a.presenter.Warning(fmt.Sprintf("could not write %s export: %v", exp.Name(), err))
			continue
		}
		a.logger.Debug("export written", "exporter", exp.Name(), "path", path)
	}

	return summary, nil
}

// runTriage invoca el reporter; sus fallos nunca hacen fallar la ejecución.
func (a *Aggregator) runTriage(ctx context.Context, sorted []string) string {
	a.presenter.Info(fmt.Sprintf("Sending %d URLs to LLM...", min(len(sorted), TriageSampleSize)))

	path, err := a.triage.Report(ctx, sorted)
	switch {
	case errors.IsNoProvider(err):
		a.logger.Warn("triage skipped", "reason", err.Error())
		a.presenter.Warning("LLM requested but no API key found (set GEMINI_API_KEY or OPENAI_API_KEY)")
		return ""
	case err != nil:
		a.logger.Err(err, "component", "triage")
		a.presenter.Error(fmt.Sprintf("LLM failed: %v", err))
		return ""
	}

	a.presenter.Info(fmt.Sprintf("LLM analysis saved: %s", path))
	return path
}

// TriageSampleSize número máximo de URLs que se envían al modelo.
const TriageSampleSize = 50

// isFatal errores que deben detener toda la ejecución.
func isFatal(ctx context.Context, err error) bool {
	return errors.IsMissingBinary(err) || ctx.Err() != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func targetSummary(res *domain.TargetResult, failed string) ui.TargetSummary {
	return ui.TargetSummary{
		Target:   res.Target.Root,
		URLs:     res.URLs.Len(),
		Halted:   res.HaltedAt.String(),
		Failed:   failed,
		Duration: res.Duration,
	}
}
