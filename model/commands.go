package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/config"
)

// SendMessage posts content to the backend. The conversation store does the
// bookkeeping; the returned message only tells the UI the call is over.
func (m *Model) SendMessage(content string) tea.Cmd {
	conversation := m.Conversation
	return func() tea.Msg {
		conversation.SendMessage(context.Background(), content)
		return MessageSentMsg{}
	}
}

// InitializeMCP opens a session against every server in the registry.
func (m *Model) InitializeMCP() tea.Cmd {
	connection := m.Connection
	urls := connection.ServerURLs()
	return func() tea.Msg {
		connection.InitializeMCP(context.Background(), urls)
		return MCPInitializedMsg{}
	}
}

func (m *Model) TestServer(url string) tea.Cmd {
	connection := m.Connection
	return func() tea.Msg {
		ok := connection.TestServerConnection(context.Background(), url)
		return ServerTestedMsg{URL: url, OK: ok}
	}
}

// Startup restores the saved session when configured to, then connects to
// the registry when auto-connect is on and it is not empty.
func (m *Model) Startup() tea.Cmd {
	var cmds []tea.Cmd

	restored := false
	if m.Config.RestoreSession {
		restored = m.Connection.RestoreSession()
		cmds = append(cmds, func() tea.Msg {
			return SessionRestoredMsg{Restored: restored}
		})
	}

	if m.Config.AutoConnect && len(m.Connection.ServerURLs()) > 0 {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Startup: auto-connecting (restored session: %v)", restored)
		}
		cmds = append(cmds, m.InitializeMCP())
	}

	return tea.Batch(cmds...)
}

// WaitForChange blocks until either channel fires. Re-issue it after every
// StoreChangedMsg to keep listening.
func WaitForChange(connection, conversation <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-connection:
		case <-conversation:
		}
		return StoreChangedMsg{}
	}
}

// LastReply returns the newest assistant message, or "" if there is none.
func (m *Model) LastReply() string {
	msgs := m.Conversation.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsUser {
			return msgs[i].Content
		}
	}
	return ""
}
