// Package runner ejecuta las herramientas externas del pipeline.
package runner

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// maxCaptured límite de bytes retenidos por stream. Las herramientas escriben
// su resultado con -o, así que stdout solo interesa para depuración.
const maxCaptured = 1 << 20

// DefaultWaitDelay espera máxima a que se cierren stdout/stderr tras matar
// el proceso. Un nieto que herede los pipes no bloquea el stage más allá.
const DefaultWaitDelay = 5 * time.Second

// proxyEnvKeys variables que se fijan en el entorno del proceso hijo.
var proxyEnvKeys = []string{"HTTP_PROXY", "HTTPS_PROXY", "http_proxy", "https_proxy"}

// Options configura el Runner.
type Options struct {
	// Proxy "host:port" o URL; vacío = sin proxy
	Proxy string

	// StageTimeout deadline por invocación (0 = sin límite)
	StageTimeout time.Duration

	// BaseEnv entorno heredado por los hijos (nil = os.Environ())
	BaseEnv []string

	// WaitDelay ver DefaultWaitDelay (0 = default)
	WaitDelay time.Duration
}

// Runner implementa ports.CommandRunner sobre os/exec.
type Runner struct {
	logger logx.Logger
	opts   Options
}

var _ ports.CommandRunner = (*Runner)(nil)

// New crea un Runner.
func New(logger logx.Logger, opts Options) *Runner {
	if opts.WaitDelay <= 0 {
		opts.WaitDelay = DefaultWaitDelay
	}
	return &Runner{
		logger: logger.With("component", "runner"),
		opts:   opts,
	}
}

// Execute lanza el comando y espera a que termine.
//
// Retorna error solo si el binario no existe (*errors.MissingBinaryError) o
// si el contexto padre se cancela. Un exit code distinto de cero o un timeout
// del stage se reportan en Result con error nil.
func (r *Runner) Execute(ctx context.Context, cmd ports.Command, dryRun bool) (ports.Result, error) {
	line := cmd.CommandLine()
	r.logger.Debug("command", "stage", cmd.Stage.String(), "cmdline", line, "dry_run", dryRun, "stdin_bytes", len(cmd.Stdin))

	if dryRun {
		return ports.Result{DryRun: true}, nil
	}

	runCtx := ctx
	if r.opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.StageTimeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	c.Env = r.childEnv()
	c.WaitDelay = r.opts.WaitDelay
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	stdout := &cappedBuffer{max: maxCaptured}
	stderr := &cappedBuffer{max: maxCaptured}
	c.Stdout = stdout
	c.Stderr = stderr

	start := time.Now()
	runErr := c.Run()
	if errors.Is(runErr, exec.ErrWaitDelay) && c.ProcessState != nil && c.ProcessState.Success() {
		// salió bien pero algún hijo suyo dejó los pipes abiertos
		r.logger.Debug("command left output pipes open", "stage", cmd.Stage.String())
		runErr = nil
	}
	res := ports.Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		r.logger.Debug("command finished", "stage", cmd.Stage.String(), "duration", res.Duration)
		return res, nil
	}

	if isNotFound(runErr) {
		return ports.Result{}, errors.NewMissingBinaryError(cmd.Name, runErr, searchPaths()...)
	}

	// Cancelación del padre (SIGINT/SIGTERM): se detiene toda la ejecución
	if ctx.Err() != nil {
		return res, errors.Wrapf(ctx.Err(), "%s interrupted", cmd.Name)
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		r.logger.Warn("command timed out",
			"stage", cmd.Stage.String(),
			"cmdline", line,
			"timeout", r.opts.StageTimeout,
		)
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.logger.Err(&errors.StageError{
			Stage:    cmd.Stage.String(),
			Command:  line,
			ExitCode: res.ExitCode,
			Stderr:   trimStderr(res.Stderr),
		}, "stage", cmd.Stage.String())
		return res, nil
	}

	// Otros fallos de arranque (permisos, formato de ejecutable...)
	return res, errors.Wrapf(runErr, "start %s", cmd.Name)
}

// childEnv copia el entorno base sustituyendo las variables de proxy.
func (r *Runner) childEnv() []string {
	base := r.opts.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	if r.opts.Proxy == "" {
		return base
	}

	env := make([]string, 0, len(base)+len(proxyEnvKeys))
	for _, kv := range base {
		if isProxyVar(kv) {
			continue
		}
		env = append(env, kv)
	}
	for _, k := range proxyEnvKeys {
		env = append(env, k+"="+r.opts.Proxy)
	}
	return env
}

// Preflight comprueba qué binarios no están en PATH. Solo informa; el fallo
// fatal ocurre al invocar la herramienta.
func Preflight(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func isProxyVar(kv string) bool {
	key, _, _ := strings.Cut(kv, "=")
	for _, k := range proxyEnvKeys {
		if key == k {
			return true
		}
	}
	return false
}

func searchPaths() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

// trimStderr se queda con las últimas líneas no vacías de stderr.
func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " | ")
}

// cappedBuffer guarda como mucho max bytes y descarta el resto sin fallar,
// para no bloquear al proceso hijo.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
