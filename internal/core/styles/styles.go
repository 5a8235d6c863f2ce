// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/widgets/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	// Toast styles. ToastStyle is the card; the accent border color comes
	// from KindColor.
	ToastStyle        lipgloss.Style
	ToastTitleStyle   lipgloss.Style
	ToastMessageStyle lipgloss.Style

	// Table styles.
	TableHeaderStyle         lipgloss.Style
	TableHeaderSelectedStyle lipgloss.Style
	TableCellStyle           lipgloss.Style
	TableBorderStyle         lipgloss.Style
	TableSpanStyle           lipgloss.Style

	// Pagination styles.
	PageStyle         lipgloss.Style
	PageCurrentStyle  lipgloss.Style
	PageDisabledStyle lipgloss.Style

	HelpStyle lipgloss.Style

	// CLI status lines.
	SuccessTextStyle lipgloss.Style
	ErrorTextStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(40)
	ToastTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	ToastMessageStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	TableHeaderSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	TableCellStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	TableBorderStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)
	TableSpanStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	PageStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	PageCurrentStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	PageDisabledStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	SuccessTextStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	ErrorTextStyle = lipgloss.NewStyle().
		Foreground(ColorError)
}

// KindColor returns the accent color for a notification kind.
func KindColor(k notify.Kind) lipgloss.Color {
	switch k {
	case notify.KindSuccess:
		return ColorSuccess
	case notify.KindWarning:
		return ColorWarning
	case notify.KindError:
		return ColorError
	default:
		return ColorPrimary
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
