package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	blue := lipgloss.NewStyle().Foreground(accentColor)

	lines := []string{
		blue.Render("## Chat"),
		fmt.Sprintf("• %-13s Send message", "Enter"),
		fmt.Sprintf("• %-13s New line", "Alt+Enter"),
		fmt.Sprintf("• %-13s Copy last response", "Alt+Y"),
		fmt.Sprintf("• %-13s Clear conversation", "Alt+X"),
		fmt.Sprintf("• %-13s Half page down/up", "Alt+J/K"),
		"",
		blue.Render("## MCP Servers"),
		fmt.Sprintf("• %-13s Open server manager", "Alt+S"),
		fmt.Sprintf("• %-13s Add / edit / delete", "a / e / d"),
		fmt.Sprintf("• %-13s Test selected server", "t"),
		fmt.Sprintf("• %-13s Connect all servers", "c"),
		fmt.Sprintf("• %-13s Disconnect", "x"),
		fmt.Sprintf("• %-13s Filter list", "/"),
		"",
		blue.Render("## Global"),
		fmt.Sprintf("• %-13s Toggle this help", "Alt+H"),
		fmt.Sprintf("• %-13s About", "Alt+A"),
		fmt.Sprintf("• %-13s Quit", "Ctrl+C"),
	}

	return renderModal("mcpchat - Keyboard Shortcuts", lines, "Press Esc to close", successColor, 56, width, height)
}
