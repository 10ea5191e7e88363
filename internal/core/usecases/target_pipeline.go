// internal/core/usecases/target_pipeline.go
package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/ui"
	"reconflow/internal/tools"
)

// TargetPipeline ejecuta ENUMERATE → RESOLVE → SCAN → PROBE → CRAWL para un
// target. Cada stage consume el artifact del anterior; si ese artifact falta
// o está vacío el target se detiene sin afectar a los demás.
type TargetPipeline struct {
	runner    ports.CommandRunner
	builder   *tools.Builder
	gate      StageGate
	logger    logx.Logger
	presenter ui.Presenter

	dryRun bool
	force  bool

	// seedDir directorio donde se escribe httpx_input_<target>.txt
	seedDir string
}

// TargetPipelineOptions configura el pipeline por target.
type TargetPipelineOptions struct {
	Runner    ports.CommandRunner
	Builder   *tools.Builder
	Logger    logx.Logger
	Presenter ui.Presenter
	DryRun    bool
	Force     bool

	// SeedDir directorio de la semilla del crawl (vacío = directorio del target)
	SeedDir string
}

// NewTargetPipeline crea una nueva instancia del pipeline.
func NewTargetPipeline(opts TargetPipelineOptions) *TargetPipeline {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Presenter == nil {
		opts.Presenter = ui.NewNoopPresenter()
	}
	if opts.Builder == nil {
		opts.Builder = tools.NewBuilder(tools.DefaultSettings(), "")
	}

	return &TargetPipeline{
		runner:    opts.Runner,
		builder:   opts.Builder,
		gate:      NewStageGate(),
		logger:    opts.Logger.With("component", "target_pipeline"),
		presenter: opts.Presenter,
		dryRun:    opts.DryRun,
		force:     opts.Force,
		seedDir:   opts.SeedDir,
	}
}

// Run ejecuta el pipeline del target escribiendo sus artifacts en dir.
//
// Solo retorna error cuando la ejecución completa debe pararse (binario
// ausente, cancelación) o cuando no se puede escribir en dir. Un target
// detenido por falta de datos no es un error: se refleja en HaltedAt.
func (p *TargetPipeline) Run(ctx context.Context, target domain.Target, dir string) (*domain.TargetResult, error) {
	start := time.Now()
	res := domain.NewTargetResult(target)
	defer func() { res.Duration = time.Since(start) }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create target dir: %w", err)
	}

	logger := p.logger.With("target", target.Root)
	artifact := func(stage domain.Stage, name string) domain.StageArtifact {
		return domain.NewStageArtifact(stage, filepath.Join(dir, name))
	}

	// ENUMERATE
	enum := artifact(domain.StageEnumerate, tools.EnumerateFile)
	subdomains, ok, err := p.step(ctx, logger, res, enum, p.builder.Enumerate(target.Root, enum.Path))
	if err != nil || !ok {
		return res, err
	}

	// RESOLVE
	resolved := artifact(domain.StageResolve, tools.ResolveFile)
	hosts, ok, err := p.step(ctx, logger, res, resolved, p.builder.Resolve(resolved.Path, subdomains))
	if err != nil || !ok {
		return res, err
	}

	// SCAN
	scanned := artifact(domain.StageScan, tools.ScanFile)
	hostPorts, ok, err := p.step(ctx, logger, res, scanned, p.builder.Scan(scanned.Path, hosts))
	if err != nil || !ok {
		return res, err
	}

	// PROBE
	probed := artifact(domain.StageProbe, tools.ProbeFile)
	probeOutput, _, err := p.step(ctx, logger, res, probed, p.builder.Probe(probed.Path, hostPorts))
	if err != nil {
		return res, err
	}

	probeURLs := tools.ExtractProbeURLs(probeOutput)
	for _, u := range probeURLs {
		res.URLs.Add(u)
	}
	res.ProbeURLs = len(probeURLs)
	p.presenter.Info(fmt.Sprintf("Found %d live hosts for %s", len(probeURLs), target.Root))
	logger.Info("probe finished", "live_hosts", len(probeURLs))

	// CRAWL solo si el probe encontró algo
	if len(probeURLs) == 0 {
		res.Record(domain.StageOutcome{Stage: domain.StageCrawl, Status: domain.StageStatusSkipped, Message: "no live URLs to crawl"})
		return res, nil
	}

	seedDir := p.seedDir
	if seedDir == "" {
		seedDir = dir
	}
	seed := filepath.Join(seedDir, tools.SeedFileName(target))
	if err := os.WriteFile(seed, []byte(tools.SeedContent(probeURLs)), 0o644); err != nil {
		return res, fmt.Errorf("write crawl seed: %w", err)
	}

	crawled := artifact(domain.StageCrawl, tools.CrawlFile)
	cmd := p.builder.Crawl(seed, crawled.Path)
	cmd.Description = fmt.Sprintf("Crawling %d base URLs", len(probeURLs))
	crawlOutput, ok, err := p.step(ctx, logger, res, crawled, cmd)
	if err != nil {
		return res, err
	}

	if ok {
		lines := tools.CrawlLines(crawlOutput)
		for _, u := range lines {
			res.URLs.Add(u)
		}
		res.CrawlURLs = len(lines)
		p.presenter.Info(fmt.Sprintf("Katana added %d new paths", len(lines)))
		logger.Info("crawl finished", "paths", len(lines))
	}

	return res, nil
}

// step aplica el gate, ejecuta el stage si hace falta y comprueba que haya
// datos para el siguiente. Devuelve el contenido del artifact, o false cuando
// no hay datos con los que seguir.
func (p *TargetPipeline) step(
	ctx context.Context,
	logger logx.Logger,
	res *domain.TargetResult,
	artifact domain.StageArtifact,
	cmd ports.Command,
) (string, bool, error) {
	target := res.Target.Root
	stage := artifact.Stage
	outcome := domain.StageOutcome{Stage: stage, Artifact: artifact.Path}

	if p.gate.ShouldRun(artifact, p.dryRun, p.force) == DecisionReuse {
		outcome.Status = domain.StageStatusReused
		outcome.Message = "reusing existing " + artifact.Path
		p.presenter.FinishStage(target, stage.String(), ui.StatusReused, outcome.Message)
		logger.Info("reusing artifact", "stage", stage.String(), "path", artifact.Path)
	} else {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		p.presenter.StartStage(target, stage.String(), cmd.Description)
		p.presenter.Command(target, cmd.CommandLine(), p.dryRun)

		result, err := p.runner.Execute(ctx, cmd, p.dryRun)
		if err != nil {
			p.presenter.FinishStage(target, stage.String(), ui.StatusError, err.Error())
			return "", false, err
		}

		outcome.ExitCode = result.ExitCode
		outcome.Duration = result.Duration
		switch {
		case result.DryRun:
			outcome.Status = domain.StageStatusDryRun
		case result.TimedOut:
			outcome.Status = domain.StageStatusFailed
			outcome.Message = "timed out"
		case !result.Success():
			outcome.Status = domain.StageStatusFailed
			outcome.Message = fmt.Sprintf("exited with code %d", result.ExitCode)
		default:
			outcome.Status = domain.StageStatusRan
		}
	}

	if !p.gate.CanProceed(artifact) {
		switch outcome.Status {
		case domain.StageStatusFailed:
			// ya es un error; la línea visible lo dice así
			p.presenter.FinishStage(target, stage.String(), ui.StatusError, outcome.Message)
		case domain.StageStatusDryRun:
			outcome.Status = domain.StageStatusEmpty
			outcome.Message = "dry-run: no artifact to continue from"
			p.presenter.FinishStage(target, stage.String(), ui.StatusSkipped, outcome.Message)
		default:
			outcome.Status = domain.StageStatusEmpty
			outcome.Message = "stage produced no data"
			p.presenter.FinishStage(target, stage.String(), ui.StatusWarning, outcome.Message)
		}
		res.Record(outcome)

		// El probe y el crawl vacíos no detienen: el target llega a DONE sin URLs nuevas
		if stage == domain.StageProbe || stage == domain.StageCrawl {
			logger.Warn("stage without output", "stage", stage.String(), "reason", outcome.Message)
			return "", false, nil
		}
		res.Halt(stage)
		logger.Warn("halting target", "stage", stage.String(), "reason", outcome.Message)
		return "", false, nil
	}

	content, err := artifact.Read()
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", artifact.Path, err)
	}
	outcome.Lines = tools.CountLines(content)
	logger.Debug("stage output", "stage", stage.String(), "lines", outcome.Lines)

	switch outcome.Status {
	case domain.StageStatusRan:
		p.presenter.FinishStage(target, stage.String(), ui.StatusSuccess, formatDuration(outcome.Duration))
	case domain.StageStatusDryRun:
		p.presenter.FinishStage(target, stage.String(), ui.StatusSkipped, "dry-run, continuing with existing artifact")
	case domain.StageStatusFailed:
		p.presenter.FinishStage(target, stage.String(), ui.StatusError, outcome.Message+", continuing with partial output")
	}

	res.Record(outcome)
	return content, true, nil
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
