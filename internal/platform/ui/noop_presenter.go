// internal/platform/ui/noop_presenter.go
package ui

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

func (n *NoopPresenter) Start(info RunInfo) {}
func (n *NoopPresenter) StartTarget(target string, index, total int) {}
func (n *NoopPresenter) StartStage(target, stage, description string) {}
func (n *NoopPresenter) Command(target, cmdline string, dryRun bool) {}
func (n *NoopPresenter) FinishStage(target, stage string, status Status, detail string) {}
func (n *NoopPresenter) FinishTarget(summary TargetSummary) {}
func (n *NoopPresenter) Info(msg string) {}
func (n *NoopPresenter) Warning(msg string) {}
func (n *NoopPresenter) Error(msg string) {}
func (n *NoopPresenter) Finish(stats RunStats) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
