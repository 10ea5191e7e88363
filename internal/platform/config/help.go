// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
reconflow - Recon pipeline for Burp Suite

USAGE:
  reconflow -d <domain> [options]
  reconflow -f <targets.txt> [options]

PIPELINE:
  subfinder -> dnsx -> naabu -> httpx -> katana, per target.
  Every stage writes <out>/<target>/<tool>.txt; an existing file is reused
  on the next run (use --force to run the tool again).

TARGET OPTIONS:
  -d, --target string        Single target domain (e.g., example.com)
  -f, --input-file string    File with one domain per line (# for comments)

OUTPUT OPTIONS:
  -o, --output-dir string    Output directory (default: recon_YYYYMMDD_HHMMSS)
      --ui string            Console mode: pretty, raw, quiet (default: pretty)
      --quiet                Same as --ui quiet
      --log-level string     debug, info, warn, error (default: info)

EXECUTION OPTIONS:
      --proxy string         Send httpx and katana through a proxy (e.g., 127.0.0.1:8080)
      --dry-run              Print the commands without running them
      --force                Re-run stages even if their output already exists
      --parallel int         Targets processed at the same time (default: 1)
      --stage-timeout dur    Time limit per tool invocation, 0 = none (e.g., 30m)
      --llm                  Ask an LLM which URLs to test first

CONFIG:
      --config string        YAML file (tool binaries, ports, crawl depth, models...)

INFO:
  -v, --version              Print version information and exit
  -h, --help                 Show this help message

EXAMPLES:
  Single target through Burp:
    reconflow -d example.com --proxy 127.0.0.1:8080

  Several targets, two at a time, with LLM triage:
    reconflow -f scope.txt --parallel 2 --llm

  See what would run:
    reconflow -d example.com --dry-run

ENVIRONMENT VARIABLES:
  GEMINI_API_KEY                Enables Gemini triage (preferred)
  OPENAI_API_KEY                Enables OpenAI triage when Gemini is not set

  RECONFLOW_CONFIG=/path        Config file
  RECONFLOW_OUTPUT_DIR=/path    Output directory
  RECONFLOW_PROXY=host:port     Proxy
  RECONFLOW_PARALLEL=2          Parallel targets
  RECONFLOW_STAGE_TIMEOUT=30m   Stage time limit
  RECONFLOW_LOG_LEVEL=debug     Log level
  RECONFLOW_UI=raw              Console mode
  RECONFLOW_DRY_RUN, RECONFLOW_FORCE, RECONFLOW_LLM (true/false)

  Note: CLI flags override environment variables, which override the config file.

OUTPUT:
  <out>/urls_for_burp.txt       Sorted unique URLs (Burp > Target > Site map > Import)
  <out>/summary.json            Per-target stage outcomes and counts
  <out>/llm_analysis.md         LLM triage (with --llm)
  <out>/reconflow.log           Debug log of the run

EXIT CODES:
  0 success, 1 missing tool or fatal error, 2 configuration error
`

// PrintHelp escribe la ayuda.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion escribe la información de versión.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "reconflow %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", getGoVersion())
}

func getGoVersion() string {
	return runtime.Version()
}
