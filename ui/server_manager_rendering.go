package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mcpchat/mcp"
	appmodel "mcpchat/model"
)

func (a AppView) renderServerManager() string {
	conn := a.dataModel.Connection.State()
	width := a.width
	if width < 40 {
		width = 40
	}

	var sections []string

	header := TitleStyle.Render("MCP Servers") + "  " +
		connectionStatusStyle(conn.Status).Render(conn.StatusText)
	if conn.Loading {
		header += " " + a.loadingSpinner.View()
	}
	sections = append(sections, header)

	if conn.Error != "" {
		sections = append(sections, ErrorStyle.Render("Error: "+conn.Error))
	}
	if conn.Session != nil && conn.Session.SessionID != "" {
		sections = append(sections, DimStyle.Render("Session: "+conn.Session.SessionID))
	}
	sections = append(sections, "")

	rows := a.visibleServers()
	if len(rows) == 0 {
		if a.serverState.filterQuery != "" {
			sections = append(sections, DimStyle.Render("No servers match the filter."))
		} else {
			sections = append(sections, DimStyle.Render("No servers configured. Press a to add one."))
		}
	}
	for i, row := range rows {
		sections = append(sections, renderServerRow(row.entry, i == a.serverState.selectedIdx, width))
	}
	sections = append(sections, "")

	switch {
	case a.serverState.mode == serverModeAdd || a.serverState.mode == serverModeEdit:
		sections = append(sections, a.serverInput.View())
		if a.serverState.inputError != "" {
			sections = append(sections, ErrorStyle.Render(a.serverState.inputError))
		}
	case a.serverState.mode == serverModeFilter || a.serverState.filterQuery != "":
		sections = append(sections, a.serverFilter.View())
	case a.serverState.confirmDelete:
		if row, ok := a.selectedServer(); ok {
			sections = append(sections, SelectedStyle.Render(fmt.Sprintf("Delete %s? (y/n)", row.entry.URL)))
		}
	}

	if a.serverState.showTools {
		sections = append(sections, renderToolList(conn.Session, width)...)
	}

	body := strings.Join(sections, "\n")
	footer := StatusStyle.Render(FormatFooter(
		"j/k", "Navigate",
		"a", "Add",
		"e", "Edit",
		"d", "Delete",
		"t", "Test",
		"c", "Connect",
		"x", "Disconnect",
		"/", "Filter",
		"Tab", "Tools",
		"Esc", "Back",
	))
	if a.notice != "" {
		footer = HighlightStyle.Render(a.notice)
	}

	bodyHeight := a.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		footer,
	)
}

// renderServerRow lays out "icon url status [error]" on one line, cutting
// the URL and error to fit width.
func renderServerRow(srv appmodel.ServerEntry, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = SelectedStyle.Render("> ")
	}

	style := serverStatusStyle(srv.Status)
	icon := style.Render(serverStatusIcon(srv.Status))
	status := string(srv.Status)

	urlWidth := width / 2
	url := truncate(srv.URL, urlWidth)
	url += strings.Repeat(" ", urlWidth-runewidth.StringWidth(url))
	if selected {
		url = SelectedStyle.Render(url)
	}

	line := fmt.Sprintf("%s%s %s  %s", cursor, icon, url, style.Render(fmt.Sprintf("%-12s", status)))

	if !srv.LastConnected.IsZero() {
		line += DimStyle.Render(srv.LastConnected.Local().Format(" 2006-01-02 15:04"))
	}
	if srv.Error != "" {
		remaining := width - urlWidth - 36
		if remaining > 8 {
			line += " " + ErrorStyle.Render(truncate(srv.Error, remaining))
		}
	}

	return line
}

func renderToolList(session *appmodel.SessionData, width int) []string {
	lines := []string{"", TitleStyle.Render("Tools")}

	if session == nil {
		return append(lines, DimStyle.Render("Not connected."))
	}

	tools := mcp.ConvertTools(session.Tools)
	if len(tools) == 0 {
		return append(lines, DimStyle.Render("The backend reported no tools."))
	}

	for _, tool := range tools {
		line := AssistantStyle.Render(truncate(mcp.Signature(tool), width/2))
		if tool.Description != "" {
			line += DimStyle.Render("  " + truncate(tool.Description, width/2-2))
		}
		lines = append(lines, "  "+line)
	}
	return lines
}

// truncate cuts s to at most width terminal cells, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
