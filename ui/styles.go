package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "mcpchat/model"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}

func serverStatusStyle(status appmodel.ServerStatus) lipgloss.Style {
	switch status {
	case appmodel.ServerConnected:
		return lipgloss.NewStyle().Foreground(successColor)
	case appmodel.ServerConnecting:
		return lipgloss.NewStyle().Foreground(warningColor)
	case appmodel.ServerError:
		return lipgloss.NewStyle().Foreground(dangerColor)
	default:
		return DimStyle
	}
}

// serverStatusIcon is the one-glyph indicator shown next to a server URL.
func serverStatusIcon(status appmodel.ServerStatus) string {
	switch status {
	case appmodel.ServerConnected:
		return "●"
	case appmodel.ServerConnecting:
		return "◌"
	case appmodel.ServerError:
		return "✗"
	default:
		return "○"
	}
}

func connectionStatusStyle(status appmodel.ConnectionStatus) lipgloss.Style {
	switch status {
	case appmodel.StatusConnected:
		return lipgloss.NewStyle().Foreground(successColor).Bold(true)
	case appmodel.StatusConnecting, appmodel.StatusFallback:
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	case appmodel.StatusError:
		return lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	default:
		return DimStyle
	}
}
