// internal/platform/ui/ascii.go
package ui

// Banner cabecera principal
const Banner = `
╔══════════════════════════════════════════════════════════════╗
║   reconflow  ·  subfinder → dnsx → naabu → httpx → katana   ║
║          Automated recon feed for Burp Suite site maps       ║
╚══════════════════════════════════════════════════════════════╝`

// BannerMinimal banner para terminales estrechas
const BannerMinimal = `
╔══════════════════════════════╗
║   reconflow · recon → Burp   ║
╚══════════════════════════════╝`

// GetBanner retorna el banner apropiado según el ancho del terminal
func GetBanner(terminalWidth int) string {
	if terminalWidth > 0 && terminalWidth < 66 {
		return BannerMinimal
	}
	return Banner
}
