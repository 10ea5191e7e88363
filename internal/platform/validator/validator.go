// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// Domain validators

// IsDomain verifica si un string es un dominio válido (no acepta IPs).
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	// Verificar que no sea una IP
	if net.ParseIP(domain) != nil {
		return false
	}

	return true
}

// NormalizeDomain normaliza un dominio a su forma canónica.
// A diferencia de un normalizador de artifacts, conserva prefijos como "www."
// porque el operador puede querer apuntar exactamente a ese host.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimSuffix(domain, ".")
	return domain
}

// RegistrableDomain devuelve el eTLD+1 del dominio, o el propio dominio si
// la lista de sufijos públicos no lo reconoce.
func RegistrableDomain(domain string) string {
	domain = NormalizeDomain(domain)
	if effective, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil && effective != "" {
		return effective
	}
	return domain
}

// URL validators

// LooksLikeURL heurística de la salida del probe: un token cuenta como URL si
// empieza por "http". No se parsea.
func LooksLikeURL(token string) bool {
	return strings.HasPrefix(token, "http")
}

// IsURL verifica si un string es una URL válida con scheme y host.
func IsURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return parsed.Scheme != "" && parsed.Host != ""
}

// IsHostPort verifica un endpoint "host:port" (formato del proxy).
func IsHostPort(s string) bool {
	host, port, err := net.SplitHostPort(s)
	if err != nil || host == "" || port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsProxyEndpoint acepta "host:port" o una URL completa ("http://127.0.0.1:8080").
func IsProxyEndpoint(s string) bool {
	return IsHostPort(s) || IsURL(s)
}
