package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/config"
)

func (a *AppView) openServerManager() {
	a.showServers = true
	a.serverState = ServerManagerState{}
	a.textarea.Blur()
}

func (a *AppView) closeServerManager() {
	a.showServers = false
	a.serverInput.Blur()
	a.serverFilter.Blur()
	a.textarea.Focus()
}

func (a AppView) handleServerManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.serverState.mode {
	case serverModeAdd, serverModeEdit:
		return a.handleServerInputKey(msg)
	case serverModeFilter:
		return a.handleServerFilterKey(msg)
	}

	if a.serverState.confirmDelete {
		switch msg.String() {
		case "y", "enter":
			if row, ok := a.selectedServer(); ok {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[ServerManager] remove %s (index %d)", row.entry.URL, row.index)
				}
				a.dataModel.Connection.RemoveServer(row.index)
			}
			a.serverState.clampSelection(len(a.visibleServers()))
		}
		a.serverState.confirmDelete = false
		return a, nil
	}

	a.notice = ""
	rows := a.visibleServers()
	connecting := a.dataModel.Connection.State().Loading

	switch msg.String() {
	case "esc":
		if a.serverState.filterQuery != "" {
			a.serverState.filterQuery = ""
			a.serverFilter.SetValue("")
			return a, nil
		}
		a.closeServerManager()
		return a, nil

	case "j", "down":
		if a.serverState.selectedIdx < len(rows)-1 {
			a.serverState.selectedIdx++
		}
		return a, nil

	case "k", "up":
		if a.serverState.selectedIdx > 0 {
			a.serverState.selectedIdx--
		}
		return a, nil

	case "a":
		a.serverState.mode = serverModeAdd
		a.serverState.inputError = ""
		a.serverInput.Prompt = "Add: "
		a.serverInput.SetValue("")
		a.serverInput.Focus()
		return a, textinput.Blink

	case "e":
		row, ok := a.selectedServer()
		if !ok {
			return a, nil
		}
		a.serverState.mode = serverModeEdit
		a.serverState.editIndex = row.index
		a.serverState.inputError = ""
		a.serverInput.Prompt = "Edit: "
		a.serverInput.SetValue(row.entry.URL)
		a.serverInput.CursorEnd()
		a.serverInput.Focus()
		return a, textinput.Blink

	case "d", "delete":
		if _, ok := a.selectedServer(); ok {
			a.serverState.confirmDelete = true
		}
		return a, nil

	case "t":
		if row, ok := a.selectedServer(); ok {
			return a, a.dataModel.TestServer(row.entry.URL)
		}
		return a, nil

	case "c":
		if connecting {
			return a, nil
		}
		if len(a.dataModel.Connection.ServerURLs()) == 0 {
			a.notice = "Add a server first"
			return a, nil
		}
		return a, a.dataModel.InitializeMCP()

	case "x":
		a.dataModel.Connection.Disconnect()
		return a, nil

	case "/":
		a.serverState.mode = serverModeFilter
		a.serverFilter.SetValue(a.serverState.filterQuery)
		a.serverFilter.Focus()
		return a, textinput.Blink

	case "tab":
		a.serverState.showTools = !a.serverState.showTools
		return a, nil
	}

	return a, nil
}

func (a AppView) handleServerInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.serverState.mode = serverModeList
		a.serverInput.Blur()
		return a, nil

	case "enter":
		url, ok := normalizeServerURL(a.serverInput.Value())
		if !ok {
			a.serverState.inputError = "Server URL cannot be empty"
			return a, nil
		}

		if a.serverState.mode == serverModeAdd {
			a.dataModel.Connection.AddServer(url)
			a.serverState.filterQuery = ""
			a.serverState.selectedIdx = len(a.dataModel.Connection.Servers()) - 1
		} else {
			a.dataModel.Connection.UpdateServerURL(a.serverState.editIndex, url)
		}

		a.serverState.mode = serverModeList
		a.serverState.inputError = ""
		a.serverInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.serverInput, cmd = a.serverInput.Update(msg)
	return a, cmd
}

func (a AppView) handleServerFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.serverState.mode = serverModeList
		a.serverState.filterQuery = ""
		a.serverFilter.SetValue("")
		a.serverFilter.Blur()
		a.serverState.clampSelection(len(a.visibleServers()))
		return a, nil

	case "enter":
		a.serverState.mode = serverModeList
		a.serverFilter.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.serverFilter, cmd = a.serverFilter.Update(msg)
	a.serverState.filterQuery = a.serverFilter.Value()
	a.serverState.clampSelection(len(a.visibleServers()))
	return a, cmd
}
