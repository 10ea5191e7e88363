// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"reconflow/internal/core/domain"
)

// OutputTable imprime un resumen por target legible en terminal.
func OutputTable(w io.Writer, summary *domain.RunSummary) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== reconflow results ===\n")
	fmt.Fprintf(tw, "Output:\t%s\n", summary.OutputDir)
	fmt.Fprintf(tw, "Duration:\t%s\n", summary.Duration().Round(time.Millisecond))
	fmt.Fprintf(tw, "Unique URLs:\t%d\n\n", summary.TotalURLs)

	fmt.Fprintln(tw, "TARGET\tURLS\tPROBE\tCRAWL\tRESULT")
	fmt.Fprintln(tw, "------\t----\t-----\t-----\t------")
	for _, t := range summary.Targets {
		if t == nil {
			continue
		}
		result := "done"
		if msg, failed := summary.Failed[t.Target.Root]; failed {
			result = "failed: " + msg
		} else if t.Halted() {
			result = "halted at " + t.HaltedAt.String()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", t.Target.Root, t.URLs.Len(), t.ProbeURLs, t.CrawlURLs, result)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}
