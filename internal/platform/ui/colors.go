// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta de la consola: morado para la estructura, cian para datos,
// ámbar para avisos.
var (
	// ReconPurple - cabeceras y separadores de target
	ReconPurple = pterm.NewRGB(155, 89, 182)

	// SignalCyan - comandos y valores destacados
	SignalCyan = pterm.NewRGB(0, 206, 209)

	// AmberWarn - reutilización de artifacts y avisos
	AmberWarn = pterm.NewRGB(255, 182, 39)

	// AlertRed - errores
	AlertRed = pterm.NewRGB(215, 38, 56)

	// MutedGray - texto secundario
	MutedGray = pterm.NewRGB(128, 128, 128)
)

// Estilos preconfigurados para diferentes contextos
var (
	StylePrimary   = ReconPurple.ToRGBStyle()
	StyleAccent    = SignalCyan.ToRGBStyle()
	StyleWarning   = AmberWarn.ToRGBStyle()
	StyleError     = AlertRed.ToRGBStyle()
	StyleSecondary = MutedGray.ToRGBStyle()
	StyleSuccess   = pterm.NewStyle(pterm.FgGreen)
)
