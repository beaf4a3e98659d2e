package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	appmodel "mcpchat/model"
)

type serverMode int

const (
	serverModeList serverMode = iota
	serverModeAdd
	serverModeEdit
	serverModeFilter
)

// ServerManagerState is the UI-only state of the server manager screen.
// The registry itself lives in the connection store.
type ServerManagerState struct {
	mode          serverMode
	selectedIdx   int
	editIndex     int
	filterQuery   string
	confirmDelete bool
	showTools     bool
	inputError    string
}

// serverRow pairs a registry entry with its index in the registry, which
// differs from its row position while a filter is active.
type serverRow struct {
	index int
	entry appmodel.ServerEntry
}

func filterServers(servers []appmodel.ServerEntry, query string) []serverRow {
	if query == "" {
		rows := make([]serverRow, len(servers))
		for i, srv := range servers {
			rows[i] = serverRow{index: i, entry: srv}
		}
		return rows
	}

	targets := make([]string, len(servers))
	for i, srv := range servers {
		targets[i] = srv.URL
	}

	matches := fuzzy.Find(query, targets)
	rows := make([]serverRow, len(matches))
	for i, match := range matches {
		rows[i] = serverRow{index: match.Index, entry: servers[match.Index]}
	}
	return rows
}

func (a AppView) visibleServers() []serverRow {
	return filterServers(a.dataModel.Connection.Servers(), a.serverState.filterQuery)
}

func (s *ServerManagerState) clampSelection(n int) {
	if s.selectedIdx >= n {
		s.selectedIdx = n - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

func (a AppView) selectedServer() (serverRow, bool) {
	rows := a.visibleServers()
	if a.serverState.selectedIdx < 0 || a.serverState.selectedIdx >= len(rows) {
		return serverRow{}, false
	}
	return rows[a.serverState.selectedIdx], true
}

// normalizeServerURL trims raw and reports whether anything is left.
func normalizeServerURL(raw string) (string, bool) {
	url := strings.TrimSpace(raw)
	return url, url != ""
}
