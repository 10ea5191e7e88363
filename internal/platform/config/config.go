// internal/platform/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/tools"
)

// Config configuración completa de una ejecución.
//
// Precedencia: defaults -> fichero YAML (--config) -> RECONFLOW_* -> flags.
// Solo los flags que el usuario pasa explícitamente pisan las capas anteriores.
type Config struct {
	// Targets (exactamente uno de los dos)
	Target     string `yaml:"-" validate:"required_without=TargetFile,excluded_with=TargetFile"`
	TargetFile string `yaml:"-" validate:"required_without=Target"`

	// IO
	OutputDir string `yaml:"output_dir"`

	// Proxy para httpx y katana (host:port o URL)
	Proxy string `yaml:"proxy" validate:"omitempty,proxy"`

	DryRun bool `yaml:"dry_run"`
	Force  bool `yaml:"force"`
	LLM    bool `yaml:"llm"`

	// Parallel número de targets procesados a la vez
	Parallel int `yaml:"parallel" validate:"min=1,max=64"`

	// StageTimeout límite por invocación de herramienta (0 = sin límite)
	StageTimeout time.Duration `yaml:"stage_timeout" validate:"gte=0"`

	LogLevel string `yaml:"log_level" validate:"loglevel"`
	UI       string `yaml:"ui" validate:"oneof=pretty raw quiet"`

	Tools  tools.Settings `yaml:"tools"`
	Triage Triage         `yaml:"triage"`

	// Solo CLI
	ConfigFile   string `yaml:"-"`
	PrintVersion bool   `yaml:"-"`
	ShowHelp     bool   `yaml:"-"`

	quiet bool
}

// Triage configuración de los proveedores de LLM. Las API keys solo se leen
// del entorno (GEMINI_API_KEY, OPENAI_API_KEY), nunca del fichero.
type Triage struct {
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	Gemini  Provider      `yaml:"gemini"`
	OpenAI  Provider      `yaml:"openai"`
}

// Provider overrides de un proveedor.
type Provider struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// Overrides convierte la sección triage al formato del registry de proveedores.
func (t Triage) Overrides() map[string]ports.ProviderConfig {
	return map[string]ports.ProviderConfig{
		"gemini": {Model: t.Gemini.Model, BaseURL: t.Gemini.BaseURL, Timeout: t.Timeout},
		"openai": {Model: t.OpenAI.Model, BaseURL: t.OpenAI.BaseURL, Timeout: t.Timeout},
	}
}

// Modos de consola.
const (
	UIPretty = "pretty"
	UIRaw    = "raw"
	UIQuiet  = "quiet"
)

// OutputDirPrefix prefijo del directorio de salida por defecto.
const OutputDirPrefix = "recon_"

// now reloj para el nombre del directorio por defecto (inyectable en tests).
var now = time.Now

// DefaultConfig retorna una configuración por defecto.
// OutputDir queda vacío: se calcula en Load con la hora de arranque.
func DefaultConfig() Config {
	return Config{
		Parallel: 1,
		LogLevel: "info",
		UI:       UIPretty,
		Tools:    tools.DefaultSettings(),
		Triage: Triage{
			Timeout: 60 * time.Second,
		},
	}
}

// DefaultOutputDir recon_YYYYMMDD_HHMMSS con la hora actual.
func DefaultOutputDir() string {
	return OutputDirPrefix + now().Format("20060102_150405")
}

// LookupEnv firma de os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Load parsea args (sin el nombre del programa) y el entorno del proceso.
// Con -h/--help retorna ShowHelp=true y error nil; con -v, PrintVersion=true.
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv, io.Discard)
}

func load(args []string, lookup LookupEnv, usageOut io.Writer) (Config, error) {
	parsed := DefaultConfig()
	fs := newFlagSet(&parsed, usageOut)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{ShowHelp: true}, nil
		}
		return Config{}, fmt.Errorf("parse flags: %w: %w", errors.ErrInvalidInput, err)
	}
	if fs.NArg() > 0 {
		return Config{}, errors.Wrapf(errors.ErrInvalidInput, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if parsed.PrintVersion {
		return Config{PrintVersion: true}, nil
	}

	cfg := DefaultConfig()

	// --config también puede venir del entorno
	configFile := parsed.ConfigFile
	if v, ok := lookup("RECONFLOW_CONFIG"); ok && !fs.Changed("config") {
		configFile = v
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = configFile
	}

	if err := loadFromEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *pflag.Flag) {
		applyFlag(&cfg, &parsed, f.Name)
	})

	normalize(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// newFlagSet registra los flags sobre dst. Los defaults mostrados son los de dst.
func newFlagSet(dst *Config, usageOut io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("reconflow", pflag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.SortFlags = false
	fs.Usage = func() {}

	fs.StringVarP(&dst.Target, "target", "d", "", "Single target domain")
	fs.StringVarP(&dst.TargetFile, "input-file", "f", "", "File with target domains, one per line")
	fs.StringVarP(&dst.OutputDir, "output-dir", "o", "", "Output directory (default: recon_YYYYMMDD_HHMMSS)")
	fs.StringVar(&dst.Proxy, "proxy", "", "Proxy for httpx and katana (e.g. 127.0.0.1:8080)")
	fs.BoolVar(&dst.DryRun, "dry-run", false, "Print commands without running them")
	fs.BoolVar(&dst.LLM, "llm", false, "Ask an LLM to prioritize the discovered URLs")
	fs.BoolVar(&dst.Force, "force", false, "Re-run stages even if their output already exists")
	fs.IntVar(&dst.Parallel, "parallel", dst.Parallel, "Targets processed at the same time")
	fs.DurationVar(&dst.StageTimeout, "stage-timeout", 0, "Time limit per tool invocation (0 = none)")
	fs.StringVar(&dst.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&dst.LogLevel, "log-level", dst.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&dst.UI, "ui", dst.UI, "Console mode: pretty, raw, quiet")
	fs.BoolVar(&dst.quiet, "quiet", false, "Alias for --ui quiet")
	fs.BoolVarP(&dst.PrintVersion, "version", "v", false, "Print version and exit")

	return fs
}

// applyFlag copia un flag que el usuario pasó explícitamente.
func applyFlag(cfg, parsed *Config, name string) {
	switch name {
	case "target":
		cfg.Target = parsed.Target
	case "input-file":
		cfg.TargetFile = parsed.TargetFile
	case "output-dir":
		cfg.OutputDir = parsed.OutputDir
	case "proxy":
		cfg.Proxy = parsed.Proxy
	case "dry-run":
		cfg.DryRun = parsed.DryRun
	case "llm":
		cfg.LLM = parsed.LLM
	case "force":
		cfg.Force = parsed.Force
	case "parallel":
		cfg.Parallel = parsed.Parallel
	case "stage-timeout":
		cfg.StageTimeout = parsed.StageTimeout
	case "log-level":
		cfg.LogLevel = parsed.LogLevel
	case "ui":
		cfg.UI = parsed.UI
	case "quiet":
		if parsed.quiet {
			cfg.UI = UIQuiet
		}
	}
}

// loadFile aplica un fichero YAML sobre cfg. Claves desconocidas son error.
func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w: %w", path, errors.ErrInvalidInput, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w: %w", path, errors.ErrInvalidInput, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config, lookup LookupEnv) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("RECONFLOW_OUTPUT_DIR"); ok {
		cfg.OutputDir = v
	}
	if v, ok := get("RECONFLOW_PROXY"); ok {
		cfg.Proxy = v
	}
	if v, ok := get("RECONFLOW_DRY_RUN"); ok {
		cfg.DryRun = parseBool(v)
	}
	if v, ok := get("RECONFLOW_FORCE"); ok {
		cfg.Force = parseBool(v)
	}
	if v, ok := get("RECONFLOW_LLM"); ok {
		cfg.LLM = parseBool(v)
	}
	if v, ok := get("RECONFLOW_PARALLEL"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "RECONFLOW_PARALLEL: %q is not a number", v)
		}
		cfg.Parallel = n
	}
	if v, ok := get("RECONFLOW_STAGE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "RECONFLOW_STAGE_TIMEOUT: %q is not a duration", v)
		}
		cfg.StageTimeout = d
	}
	if v, ok := get("RECONFLOW_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("RECONFLOW_UI"); ok {
		cfg.UI = v
	}
	return nil
}

func normalize(c *Config) {
	c.Target = strings.TrimSpace(c.Target)
	c.TargetFile = strings.TrimSpace(c.TargetFile)
	c.Proxy = strings.TrimSpace(c.Proxy)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.UI = strings.ToLower(strings.TrimSpace(c.UI))
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir()
	}
}

// String resumen legible para logs.
func (c Config) String() string {
	targets := c.Target
	if targets == "" {
		targets = "file:" + c.TargetFile
	}
	return fmt.Sprintf("Config{targets=%s, out=%s, proxy=%q, dry_run=%t, force=%t, llm=%t, parallel=%d, ui=%s}",
		targets, c.OutputDir, c.Proxy, c.DryRun, c.Force, c.LLM, c.Parallel, c.UI)
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
