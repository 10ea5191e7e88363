// internal/core/usecases/aggregator_test.go
package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconflow/internal/adapters/output"
	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/testutil"
	"reconflow/internal/platform/registry"
	"reconflow/internal/tools"
	"reconflow/internal/triage"
)

// stubTriage reporter de triage controlado por el test.
type stubTriage struct {
	mu     sync.Mutex
	err    error
	path   string
	called [][]string
}

func (s *stubTriage) Report(_ context.Context, urls []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, urls)
	return s.path, s.err
}

// failingExporter exporter que siempre falla.
type failingExporter struct{}

func (failingExporter) Name() string { return "broken" }
func (failingExporter) Export(*domain.RunSummary) (string, error) {
	return "", errors.New("disk full")
}

func newTestAggregator(runner ports.CommandRunner, dir string, parallel int, reporter ports.TriageReporter) *Aggregator {
	pipeline := NewTargetPipeline(TargetPipelineOptions{
		Runner:  runner,
		Builder: tools.NewBuilder(tools.DefaultSettings(), ""),
		Logger:  logx.NewNop(),
		SeedDir: dir,
	})
	return NewAggregator(AggregatorOptions{
		Pipeline:  pipeline,
		Logger:    logx.NewNop(),
		OutputDir: dir,
		Parallel:  parallel,
		URLWriter: output.NewURLList(dir),
		Exporters: []ports.Exporter{output.NewSummaryExporter(dir)},
		Triage:    reporter,
	})
}

func targets(t *testing.T, roots ...string) []domain.Target {
	t.Helper()
	out := make([]domain.Target, 0, len(roots))
	for _, r := range roots {
		out = append(out, mustTarget(t, r))
	}
	return out
}

func TestAggregator_SingleTargetHappyPath(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(map[domain.Stage]string{
		domain.StageEnumerate: "www.example.com\napi.example.com\n",
		domain.StageResolve:   "93.184.216.34\n93.184.216.35\n",
		domain.StageScan:      "www.example.com:443\napi.example.com:443\n",
		domain.StageProbe:     "https://www.example.com 200 Home\nhttps://api.example.com 200 API\n",
		domain.StageCrawl:     "",
	})

	summary, err := newTestAggregator(runner, dir, 1, nil).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, output.URLListFile), summary.URLFile)
	assert.Equal(t, "https://api.example.com\nhttps://www.example.com\n", testutil.ReadFile(t, summary.URLFile))
	assert.Equal(t, 2, summary.TotalURLs)
	assert.Empty(t, summary.Failed)
	assert.True(t, testutil.FileExists(filepath.Join(dir, output.SummaryFile)))
	assert.False(t, summary.EndTime.Before(summary.StartTime))

	// artifacts por target
	for _, name := range []string{tools.EnumerateFile, tools.ResolveFile, tools.ScanFile, tools.ProbeFile} {
		assert.True(t, testutil.FileExists(filepath.Join(dir, "example_com", name)), name)
	}
}

func TestAggregator_EmptyEnumerationWritesEmptyURLFile(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(map[domain.Stage]string{domain.StageEnumerate: ""})

	summary, err := newTestAggregator(runner, dir, 1, nil).Run(context.Background(), targets(t, "empty.test"))
	require.NoError(t, err)

	assert.Equal(t, []domain.Stage{domain.StageEnumerate}, runner.Stages())
	assert.Equal(t, domain.StageEnumerate, summary.Targets[0].HaltedAt)
	assert.Equal(t, "", testutil.ReadFile(t, summary.URLFile))
	assert.Equal(t, 0, summary.TotalURLs)
}

func TestAggregator_ZeroSizeResolveIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(map[domain.Stage]string{
		domain.StageEnumerate: testutil.FixtureSubfinder,
		domain.StageResolve:   "",
	})

	summary, err := newTestAggregator(runner, dir, 1, nil).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Targets[0].URLs.Len())
	assert.Empty(t, summary.Failed)
}

func TestAggregator_MultiTargetUnion(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(nil)
	runner.TargetOutputs["a_com"] = map[domain.Stage]string{
		domain.StageEnumerate: "www.a.com\n",
		domain.StageResolve:   "1.1.1.1\n",
		domain.StageScan:      "www.a.com:443\n",
		domain.StageProbe:     "https://www.a.com [200]\nhttps://shared.example [200]\n",
		domain.StageCrawl:     "https://www.a.com/x\n",
	}
	runner.TargetOutputs["b_com"] = map[domain.Stage]string{
		domain.StageEnumerate: "www.b.com\n",
		domain.StageResolve:   "2.2.2.2\n",
		domain.StageScan:      "www.b.com:443\n",
		domain.StageProbe:     "https://www.b.com [200]\nhttps://shared.example [200]\n",
		domain.StageCrawl:     "https://www.a.com/x\nhttps://www.b.com/y\n",
	}

	for _, parallel := range []int{1, 2} {
		t.Run(map[int]string{1: "sequential", 2: "parallel"}[parallel], func(t *testing.T) {
			runDir := filepath.Join(dir, map[int]string{1: "seq", 2: "par"}[parallel])
			summary, err := newTestAggregator(runner, runDir, parallel, nil).Run(context.Background(), targets(t, "a.com", "b.com"))
			require.NoError(t, err)

			want := []string{
				"https://shared.example",
				"https://www.a.com",
				"https://www.a.com/x",
				"https://www.b.com",
				"https://www.b.com/y",
			}
			if diff := cmp.Diff(want, testutil.ReadLines(t, summary.URLFile)); diff != "" {
				t.Errorf("url file mismatch (-want +got):\n%s", diff)
			}
			require.Len(t, summary.Targets, 2)
			assert.Equal(t, "a.com", summary.Targets[0].Target.Root)
			assert.Equal(t, "b.com", summary.Targets[1].Target.Root)

			// Semillas en la raíz de la ejecución
			assert.True(t, testutil.FileExists(filepath.Join(runDir, "httpx_input_a_com.txt")))
			assert.True(t, testutil.FileExists(filepath.Join(runDir, "httpx_input_b_com.txt")))
		})
	}
}

func TestAggregator_SecondRunReusesArtifactsAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first := testutil.NewFakeRunner(testutil.FixtureFullRun())
	s1, err := newTestAggregator(first, dir, 1, nil).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	before := testutil.ReadFile(t, s1.URLFile)

	second := testutil.NewFakeRunner(testutil.FixtureFullRun())
	s2, err := newTestAggregator(second, dir, 1, nil).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)

	assert.Empty(t, second.CallsFor(domain.StageEnumerate))
	assert.Equal(t, before, testutil.ReadFile(t, s2.URLFile))
	assert.Equal(t, testutil.FixtureFullRunURLs, testutil.ReadLines(t, s2.URLFile))
}

func TestAggregator_MissingBinaryIsFatal(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	runner.Missing["subfinder"] = true

	_, err := newTestAggregator(runner, dir, 1, nil).Run(context.Background(), targets(t, "example.com", "example.org"))
	require.Error(t, err)

	var mbe *errors.MissingBinaryError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, "subfinder", mbe.Binary)

	_, statErr := os.Stat(filepath.Join(dir, output.URLListFile))
	assert.True(t, os.IsNotExist(statErr), "no url file is written after a fatal error")
}

func TestAggregator_CanceledRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	_, err := newTestAggregator(runner, t.TempDir(), 2, nil).Run(ctx, targets(t, "a.com", "b.com"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregator_TargetErrorsAreIsolated(t *testing.T) {
	dir := t.TempDir()

	// Un fichero donde debería ir el directorio del target rompe solo ese target
	testutil.WriteFile(t, filepath.Join(dir, "broken_com"), "not a dir")

	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	summary, err := newTestAggregator(runner, dir, 1, nil).Run(context.Background(), targets(t, "broken.com", "example.com"))
	require.NoError(t, err)

	assert.Contains(t, summary.Failed, "broken.com")
	assert.NotContains(t, summary.Failed, "example.com")
	assert.Equal(t, testutil.FixtureFullRunURLs, testutil.ReadLines(t, summary.URLFile))
}

func TestAggregator_DryRunStopsAfterEnumerate(t *testing.T) {
	dir := t.TempDir()
	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())

	pipeline := NewTargetPipeline(TargetPipelineOptions{
		Runner: runner,
		Logger: logx.NewNop(),
		DryRun: true,
	})
	agg := NewAggregator(AggregatorOptions{
		Pipeline:  pipeline,
		Logger:    logx.NewNop(),
		OutputDir: dir,
		URLWriter: output.NewURLList(dir),
	})

	summary, err := agg.Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)

	assert.Equal(t, []domain.Stage{domain.StageEnumerate}, runner.Stages())
	assert.Equal(t, 0, summary.TotalURLs)
}

func TestAggregator_TriageWithoutProviderStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	reporter := &stubTriage{err: errors.Wrap(errors.ErrNoProvider, "triage")}

	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	summary, err := newTestAggregator(runner, dir, 1, reporter).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)

	assert.Empty(t, summary.ReportFile)
	assert.Equal(t, testutil.FixtureFullRunURLs, testutil.ReadLines(t, summary.URLFile))
	require.Len(t, reporter.called, 1)
	assert.Equal(t, testutil.FixtureFullRunURLs, reporter.called[0])
}

func TestAggregator_TriageWithoutAPIKeyWritesNoReport(t *testing.T) {
	dir := t.TempDir()

	var probe strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&probe, "https://h%02d.example.com [200] [Home]\n", i)
	}
	runner := testutil.NewFakeRunner(map[domain.Stage]string{
		domain.StageEnumerate: "h00.example.com\n",
		domain.StageResolve:   "93.184.216.34\n",
		domain.StageScan:      "93.184.216.34:443\n",
		domain.StageProbe:     probe.String(),
		domain.StageCrawl:     "",
	})

	noEnv := func(string) (string, bool) { return "", false }
	provider, err := registry.Global().Select(noEnv, nil, logx.NewNop())
	require.True(t, errors.IsNoProvider(err))

	reporter := triage.NewReporter(provider, output.NewMarkdownReport(dir), logx.NewNop())
	summary, err := newTestAggregator(runner, dir, 1, reporter).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)

	assert.Equal(t, 80, summary.TotalURLs)
	assert.Len(t, testutil.ReadLines(t, summary.URLFile), 80)
	assert.Empty(t, summary.ReportFile)
	assert.False(t, testutil.FileExists(filepath.Join(dir, output.ReportFile)))
}

func TestAggregator_TriageFailureIsNotFatal(t *testing.T) {
	reporter := &stubTriage{err: errors.Wrap(errors.ErrProviderFailed, "gemini: status 500")}

	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	summary, err := newTestAggregator(runner, t.TempDir(), 1, reporter).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	assert.Empty(t, summary.ReportFile)
}

func TestAggregator_TriageReportPathIsRecorded(t *testing.T) {
	dir := t.TempDir()
	reporter := &stubTriage{path: filepath.Join(dir, output.ReportFile)}

	runner := testutil.NewFakeRunner(testutil.FixtureFullRun())
	summary, err := newTestAggregator(runner, dir, 1, reporter).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	assert.Equal(t, reporter.path, summary.ReportFile)
}

func TestAggregator_TriageSkippedWithoutURLs(t *testing.T) {
	reporter := &stubTriage{}
	runner := testutil.NewFakeRunner(map[domain.Stage]string{domain.StageEnumerate: ""})

	_, err := newTestAggregator(runner, t.TempDir(), 1, reporter).Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	assert.Empty(t, reporter.called)
}

func TestAggregator_ExporterFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	pipeline := NewTargetPipeline(TargetPipelineOptions{
		Runner: testutil.NewFakeRunner(testutil.FixtureFullRun()),
		Logger: logx.NewNop(),
	})
	agg := NewAggregator(AggregatorOptions{
		Pipeline:  pipeline,
		Logger:    logx.NewNop(),
		OutputDir: dir,
		URLWriter: output.NewURLList(dir),
		Exporters: []ports.Exporter{failingExporter{}, output.NewSummaryExporter(dir)},
	})

	_, err := agg.Run(context.Background(), targets(t, "example.com"))
	require.NoError(t, err)
	assert.True(t, testutil.FileExists(filepath.Join(dir, output.SummaryFile)))
}
