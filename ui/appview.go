package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mcpchat/config"
	appmodel "mcpchat/model"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// Store subscriptions, re-armed after every StoreChangedMsg
	connectionCh   <-chan struct{}
	conversationCh <-chan struct{}

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp  bool
	showAbout bool

	// Rendered assistant replies keyed by message id; reset on resize
	renderCache map[string]string

	// Transient footer notice (copy result, rejected input)
	notice string

	// MCP server manager
	showServers  bool
	serverState  ServerManagerState
	serverInput  textinput.Model
	serverFilter textinput.Model
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone is handled as send
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	serverInput := textinput.New()
	serverInput.Placeholder = "http://localhost:3001/mcp"
	serverInput.CharLimit = 512

	serverFilter := textinput.New()
	serverFilter.Prompt = "Filter: "
	serverFilter.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppView{
		dataModel:      dataModel,
		connectionCh:   dataModel.Connection.Subscribe(),
		conversationCh: dataModel.Conversation.Subscribe(),
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		renderCache:    make(map[string]string),
		serverInput:    serverInput,
		serverFilter:   serverFilter,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.loadingSpinner.Tick,
		appmodel.WaitForChange(a.connectionCh, a.conversationCh),
		a.dataModel.Startup(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading mcpchat..."
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showAbout {
		return a.renderAboutModal()
	}

	if a.showServers {
		return a.renderServerManager()
	}

	title := a.renderTitle()

	statusBar := StatusStyle.Render(FormatFooter(
		"Ctrl+C", "Quit",
		"Alt+S", "Servers",
		"Alt+Enter", "New Line",
		"Enter", "Send",
		"Alt+Y", "Copy",
		"Alt+H", "Help",
	))
	if a.notice != "" {
		statusBar = HighlightStyle.Render(a.notice)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		statusBar,
	)
}

// renderTitle shows the app name, the aggregate connection status and the
// active session id.
func (a AppView) renderTitle() string {
	conn := a.dataModel.Connection.State()

	appText := AssistantStyle.Render("mcpchat")
	statusText := connectionStatusStyle(conn.Status).Render(" - " + conn.StatusText)
	if conn.Loading {
		statusText += " " + a.loadingSpinner.View()
	}

	sessionText := ""
	if conn.Session != nil && conn.Session.SessionID != "" {
		sessionText = DimStyle.Render(fmt.Sprintf(" | session %s", conn.Session.SessionID))
		if n := len(conn.Session.Tools); n > 0 {
			sessionText += DimStyle.Render(fmt.Sprintf(" | %d tools", n))
		}
	}

	return appText + statusText + sessionText
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	// title + blank line + textarea (3) + status bar
	vpHeight := height - 6
	if vpHeight < 1 {
		vpHeight = 1
	}

	a.viewport.Width = width
	a.viewport.Height = vpHeight
	a.textarea.SetWidth(width)
	a.renderCache = make(map[string]string)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[AppView] resize %dx%d (viewport height %d)", width, height, vpHeight)
	}
}
