// internal/adapters/output/output_test.go
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconflow/internal/core/domain"
)

func sampleSummary(dir string) *domain.RunSummary {
	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	done := domain.NewTargetResult(domain.Target{Root: "example.com", Registrable: "example.com"})
	done.URLs.Add("https://example.com")
	done.URLs.Add("https://example.com/login")
	done.ProbeURLs = 1
	done.CrawlURLs = 1
	done.Record(domain.StageOutcome{Stage: domain.StageEnumerate, Status: domain.StageStatusRan, Lines: 3})

	halted := domain.NewTargetResult(domain.Target{Root: "empty.org"})
	halted.Record(domain.StageOutcome{Stage: domain.StageEnumerate, Status: domain.StageStatusEmpty, Message: "stage produced no data"})
	halted.Halt(domain.StageEnumerate)

	return &domain.RunSummary{
		OutputDir: dir,
		URLFile:   filepath.Join(dir, URLListFile),
		Targets:   []*domain.TargetResult{done, halted, nil},
		TotalURLs: 2,
		StartTime: start,
		EndTime:   start.Add(90 * time.Second),
	}
}

func TestURLList_WriteURLs(t *testing.T) {
	dir := t.TempDir()
	w := NewURLList(dir)

	path, err := w.WriteURLs([]string{"https://a.example.com", "https://b.example.com"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, URLListFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com\nhttps://b.example.com\n", string(data))

	// Se sobrescribe, no se añade
	_, err = w.WriteURLs([]string{"https://c.example.com"})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://c.example.com\n", string(data))
}

func TestURLList_EmptyListCreatesEmptyFile(t *testing.T) {
	path, err := NewURLList(t.TempDir()).WriteURLs(nil)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFileAtomic(filepath.Join(dir, "nested", "out.txt"), []byte("x"), 0o644))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestSummaryExporter_Export(t *testing.T) {
	dir := t.TempDir()
	exp := NewSummaryExporter(dir)
	assert.Equal(t, "json", exp.Name())

	path, err := exp.Export(sampleSummary(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SummaryFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc SummaryDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 2, doc.TotalURLs)
	assert.Equal(t, "1m30s", doc.Duration)
	require.Len(t, doc.Targets, 2, "nil results are skipped")
	assert.Equal(t, "example.com", doc.Targets[0].Target)
	assert.Equal(t, 2, doc.Targets[0].URLs)
	assert.Empty(t, doc.Targets[0].HaltedAt)
	assert.Equal(t, "enumerate", doc.Targets[1].HaltedAt)
	assert.Equal(t, domain.StageStatusEmpty, doc.Targets[1].Stages[0].Status)
	assert.Equal(t, 3, doc.Targets[0].Stages[0].Lines)
	assert.Contains(t, string(data), `"lines": 3`)
}

func TestMarkdownReport_Write(t *testing.T) {
	dir := t.TempDir()
	r := NewMarkdownReport(dir)
	r.now = func() time.Time { return time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC) }

	path, err := r.Write("## Interesting\n- /admin")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"# LLM Prioritization Analysis\n\nGenerated: 2025-11-03 10:30:00\n\n## Interesting\n- /admin\n",
		string(data))
}

func TestOutputTable(t *testing.T) {
	var buf bytes.Buffer
	summary := sampleSummary("out")
	summary.Failed = map[string]string{}

	require.NoError(t, OutputTable(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "Unique URLs:")
	assert.Contains(t, out, "halted at enumerate")

	var exampleLine string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "example.com") {
			exampleLine = l
		}
	}
	require.NotEmpty(t, exampleLine)
	assert.True(t, strings.HasSuffix(exampleLine, "done"))
}
