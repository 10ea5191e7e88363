// Package tools describe el contrato con las herramientas de ProjectDiscovery
// que encadena el pipeline: cómo se invocan y cómo se lee lo que producen.
package tools

import (
	"strconv"
	"strings"
)

// Nombres de fichero fijos por stage dentro del directorio del target.
const (
	EnumerateFile = "subfinder.txt"
	ResolveFile   = "dnsx.txt"
	ScanFile      = "naabu.txt"
	ProbeFile     = "httpx.txt"
	CrawlFile     = "katana.txt"
)

// Binaries rutas o nombres de los ejecutables.
type Binaries struct {
	Subfinder string `yaml:"subfinder" validate:"required"`
	Dnsx      string `yaml:"dnsx" validate:"required"`
	Naabu     string `yaml:"naabu" validate:"required"`
	Httpx     string `yaml:"httpx" validate:"required"`
	Katana    string `yaml:"katana" validate:"required"`
}

// Names devuelve los binarios en orden de stage.
func (b Binaries) Names() []string {
	return []string{b.Subfinder, b.Dnsx, b.Naabu, b.Httpx, b.Katana}
}

// Settings parámetros fijos de las invocaciones.
type Settings struct {
	Binaries Binaries `yaml:"binaries"`

	// ExcludeSources fuentes de subfinder excluidas (-es)
	ExcludeSources []string `yaml:"exclude_sources"`

	// Ports puertos que prueba naabu (-p)
	Ports []int `yaml:"ports" validate:"required,min=1,dive,min=1,max=65535"`

	ProbeTimeout int `yaml:"probe_timeout" validate:"min=1"`
	ProbeThreads int `yaml:"probe_threads" validate:"min=1"`
	ProbeRetries int `yaml:"probe_retries" validate:"min=0"`

	CrawlDepth int `yaml:"crawl_depth" validate:"min=1"`

	// CrawlExcludeExt extensiones que katana no sigue (-ef)
	CrawlExcludeExt []string `yaml:"crawl_exclude_ext"`
}

// DefaultSettings valores por defecto.
func DefaultSettings() Settings {
	return Settings{
		Binaries: Binaries{
			Subfinder: "subfinder",
			Dnsx:      "dnsx",
			Naabu:     "naabu",
			Httpx:     "httpx",
			Katana:    "katana",
		},
		ExcludeSources:  []string{"digitorus"},
		Ports:           []int{80, 443, 8080, 8443, 8000, 3000, 5000, 9000},
		ProbeTimeout:    15,
		ProbeThreads:    100,
		ProbeRetries:    2,
		CrawlDepth:      5,
		CrawlExcludeExt: []string{"jpg", "png", "gif", "css", "js", "svg", "woff", "woff2", "pdf"},
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
