package tools

import (
	"strconv"
	"strings"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Builder construye los comandos de cada stage.
type Builder struct {
	settings Settings
	proxy    string
}

// NewBuilder crea un Builder. proxy vacío = sin proxy.
func NewBuilder(settings Settings, proxy string) *Builder {
	return &Builder{settings: settings, proxy: proxy}
}

// Settings devuelve la configuración usada.
func (b *Builder) Settings() Settings {
	return b.settings
}

// Enumerate subfinder -d <domain> -silent -o <out> [-es <sources>]
func (b *Builder) Enumerate(target, out string) ports.Command {
	args := []string{"-d", target, "-silent", "-o", out}
	if len(b.settings.ExcludeSources) > 0 {
		args = append(args, "-es", strings.Join(b.settings.ExcludeSources, ","))
	}
	return ports.Command{
		Stage:       domain.StageEnumerate,
		Name:        b.settings.Binaries.Subfinder,
		Args:        args,
		Description: "Enumerating subdomains",
	}
}

// Resolve dnsx -silent -resp-only -o <out>, con los subdominios por stdin.
func (b *Builder) Resolve(out, subdomains string) ports.Command {
	return ports.Command{
		Stage:       domain.StageResolve,
		Name:        b.settings.Binaries.Dnsx,
		Args:        []string{"-silent", "-resp-only", "-o", out},
		Stdin:       subdomains,
		Description: "Resolving DNS",
	}
}

// Scan naabu -p <ports> -silent -no-color -o <out>, con los hosts por stdin.
func (b *Builder) Scan(out, hosts string) ports.Command {
	return ports.Command{
		Stage:       domain.StageScan,
		Name:        b.settings.Binaries.Naabu,
		Args:        []string{"-p", joinInts(b.settings.Ports), "-silent", "-no-color", "-o", out},
		Stdin:       hosts,
		Description: "Scanning web ports",
	}
}

// Probe httpx -u -silent -title -status-code ... -o <out> [-http-proxy <proxy>],
// con la lista host:port por stdin.
func (b *Builder) Probe(out, hostPorts string) ports.Command {
	s := b.settings
	args := []string{
		"-u", "-silent", "-title", "-status-code",
		"-timeout", strconv.Itoa(s.ProbeTimeout),
		"-threads", strconv.Itoa(s.ProbeThreads),
		"-retries", strconv.Itoa(s.ProbeRetries),
		"-o", out,
	}
	if b.proxy != "" {
		args = append(args, "-http-proxy", b.proxy)
	}
	return ports.Command{
		Stage:       domain.StageProbe,
		Name:        s.Binaries.Httpx,
		Args:        args,
		Stdin:       hostPorts,
		Description: "Probing live HTTP services",
	}
}

// Crawl katana -list <seed> -d <depth> -jc -silent -o <out> -ef <ext> [-proxy <proxy>]
func (b *Builder) Crawl(seed, out string) ports.Command {
	s := b.settings
	args := []string{"-list", seed, "-d", strconv.Itoa(s.CrawlDepth), "-jc", "-silent", "-o", out}
	if len(s.CrawlExcludeExt) > 0 {
		args = append(args, "-ef", strings.Join(s.CrawlExcludeExt, ","))
	}
	if b.proxy != "" {
		args = append(args, "-proxy", b.proxy)
	}
	return ports.Command{
		Stage:       domain.StageCrawl,
		Name:        s.Binaries.Katana,
		Args:        args,
		Description: "Crawling live URLs",
	}
}

// SeedFileName nombre del fichero semilla del crawl para un target.
func SeedFileName(t domain.Target) string {
	return "httpx_input_" + t.DirName() + ".txt"
}
