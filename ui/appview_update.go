package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/config"
	appmodel "mcpchat/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.busy() {
			a.updateViewportContent(false)
		}
		return a, cmd

	case appmodel.StoreChangedMsg:
		a.updateViewportContent(true)
		a.serverState.clampSelection(len(a.visibleServers()))
		return a, appmodel.WaitForChange(a.connectionCh, a.conversationCh)

	case appmodel.MessageSentMsg:
		if err := a.dataModel.Conversation.State().Error; err != "" {
			a.notice = "Error: " + err
		}
		a.updateViewportContent(true)
		return a, nil

	case appmodel.MCPInitializedMsg:
		conn := a.dataModel.Connection.State()
		a.notice = conn.StatusText
		if conn.Error != "" {
			a.notice = "Error: " + conn.Error
		}
		return a, nil

	case appmodel.ServerTestedMsg:
		if msg.OK {
			a.notice = "Server reachable: " + msg.URL
		} else {
			a.notice = "Server test failed: " + msg.URL
		}
		return a, nil

	case appmodel.SessionRestoredMsg:
		if msg.Restored {
			a.notice = "Restored session " + a.dataModel.Connection.SessionID()
		}
		return a, nil

	case appmodel.ClipboardCopiedMsg:
		if msg.Err != nil {
			a.notice = "Copy failed: " + msg.Err.Error()
		} else {
			a.notice = "Copied last response"
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.dataModel.Quitting = true
		return a, tea.Quit
	case "alt+h":
		a.showHelp = !a.showHelp
		return a, nil
	case "alt+a":
		a.showAbout = !a.showAbout
		return a, nil
	}

	if a.showHelp || a.showAbout {
		if msg.String() == "esc" {
			a.showHelp = false
			a.showAbout = false
		}
		return a, nil
	}

	if a.showServers {
		return a.handleServerManagerKey(msg)
	}

	return a.handleChatKey(msg)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	switch msg.String() {
	case "enter":
		content, ok := normalizeInput(a.textarea.Value(), a.dataModel.Conversation.State().Loading)
		if !ok {
			return a, nil
		}
		a.textarea.Reset()
		return a, a.dataModel.SendMessage(content)

	case "alt+s":
		a.openServerManager()
		return a, nil

	case "alt+y":
		return a, copyToClipboard(a.dataModel.LastReply())

	case "alt+x":
		if !a.dataModel.Conversation.State().Loading {
			a.dataModel.Conversation.ClearMessages()
			a.renderCache = make(map[string]string)
		}
		return a, nil

	case "alt+j", "alt+down":
		a.viewport.HalfPageDown()
		return a, nil

	case "alt+k", "alt+up":
		a.viewport.HalfPageUp()
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// normalizeInput trims raw chat input and reports whether it may be sent.
// Blank input and input typed while a reply is pending are rejected.
func normalizeInput(raw string, loading bool) (string, bool) {
	content := strings.TrimSpace(raw)
	if content == "" || loading {
		return "", false
	}
	return content, true
}

func copyToClipboard(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] clipboard write failed: %v", err)
		}
		return appmodel.ClipboardCopiedMsg{Err: err}
	}
}

func (a AppView) busy() bool {
	return a.dataModel.Conversation.State().Loading || a.dataModel.Connection.State().Loading
}
