package tools

import (
	"strings"

	"reconflow/internal/platform/validator"
)

// ExtractProbeURLs toma el primer token de cada línea de httpx
// ("https://a.example.com [200] [Title]") y lo conserva si empieza por "http".
// Se mantiene el orden de aparición; los duplicados se eliminan.
func ExtractProbeURLs(content string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		token := fields[0]
		if !validator.LooksLikeURL(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		urls = append(urls, token)
	}
	return urls
}

// CrawlLines devuelve las líneas no vacías de la salida de katana, sin espacios
// alrededor. No se valida que sean URLs.
func CrawlLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// CountLines número de líneas no vacías (hosts vivos, puertos abiertos...).
func CountLines(content string) int {
	return len(CrawlLines(content))
}

// SeedContent serializa las URLs del probe como fichero semilla de katana.
func SeedContent(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return strings.Join(urls, "\n") + "\n"
}
