package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/api/testutil"
	"mcpchat/config"
	appmodel "mcpchat/model"
	"mcpchat/storage"
)

func newTestAppView(t *testing.T) (AppView, *testutil.MockGateway) {
	t.Helper()
	cfg := &config.Config{FallbackSessionID: config.DefaultFallbackSessionID}
	gw := testutil.NewMockGateway()
	dataModel := appmodel.NewModel(cfg, gw, storage.NewMCPStorage(storage.NewMemoryKV()), "test")

	a := NewAppView(dataModel)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(AppView), gw
}

func press(t *testing.T, a AppView, keys ...tea.KeyMsg) (AppView, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = a.Update(k)
		a = m.(AppView)
	}
	return a, cmd
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func altKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		loading bool
		want    string
		ok      bool
	}{
		{name: "plain", raw: "hello", want: "hello", ok: true},
		{name: "trimmed", raw: "  hi there \n", want: "hi there", ok: true},
		{name: "blank", raw: "   \n\t", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "while loading", raw: "hello", loading: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeInput(tt.raw, tt.loading)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeServerURL(t *testing.T) {
	if url, ok := normalizeServerURL("  http://x/mcp "); !ok || url != "http://x/mcp" {
		t.Errorf("got (%q, %v)", url, ok)
	}
	if _, ok := normalizeServerURL("   "); ok {
		t.Error("blank URL should be rejected")
	}
}

func TestFilterServers(t *testing.T) {
	servers := []appmodel.ServerEntry{
		{URL: "http://search.local/mcp"},
		{URL: "http://files.local/mcp"},
		{URL: "http://weather.example/mcp"},
	}

	all := filterServers(servers, "")
	if len(all) != 3 || all[2].index != 2 {
		t.Fatalf("unfiltered: got %+v", all)
	}

	rows := filterServers(servers, "wthr")
	if len(rows) != 1 || rows[0].index != 2 {
		t.Errorf("fuzzy: got %+v", rows)
	}

	if rows := filterServers(servers, "zzz"); len(rows) != 0 {
		t.Errorf("expected no matches, got %+v", rows)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"http://a-very-long-host/mcp", 10, "http://..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestChatEnterSendsTrimmedInput(t *testing.T) {
	a, gw := newTestAppView(t)
	a.textarea.SetValue("  hello  ")

	a, cmd := press(t, a, enterKey)
	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if a.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", a.textarea.Value())
	}

	if _, ok := cmd().(appmodel.MessageSentMsg); !ok {
		t.Fatal("expected MessageSentMsg")
	}
	calls := gw.ChatCalls()
	if len(calls) != 1 || calls[0].Message != "hello" {
		t.Errorf("chat calls: %+v", calls)
	}
}

func TestChatEnterRejectsBlankAndBusy(t *testing.T) {
	a, gw := newTestAppView(t)

	a.textarea.SetValue("   ")
	a, cmd := press(t, a, enterKey)
	if cmd != nil {
		t.Error("blank input should not send")
	}

	a.textarea.SetValue("hi")
	a.dataModel.Conversation.SetLoading(true)
	a, cmd = press(t, a, enterKey)
	if cmd != nil {
		t.Error("input while loading should not send")
	}
	if a.textarea.Value() != "hi" {
		t.Errorf("rejected input should stay in the box, got %q", a.textarea.Value())
	}

	if len(gw.ChatCalls()) != 0 {
		t.Error("gateway should not be called")
	}
}

func TestServerManagerAddEditDelete(t *testing.T) {
	a, _ := newTestAppView(t)

	a, _ = press(t, a, altKey("s"))
	if !a.showServers {
		t.Fatal("server manager should be open")
	}

	a, _ = press(t, a, runes("a"), enterKey)
	if a.serverState.inputError == "" || len(a.dataModel.Connection.Servers()) != 0 {
		t.Fatal("blank URL should be rejected")
	}

	a, _ = press(t, a, runes("  http://x/mcp "), enterKey)
	if got := a.dataModel.Connection.ServerURLs(); len(got) != 1 || got[0] != "http://x/mcp" {
		t.Fatalf("after add: %v", got)
	}
	if a.serverState.mode != serverModeList {
		t.Error("should be back in list mode")
	}

	a, _ = press(t, a, runes("e"), runes("2"), enterKey)
	if got := a.dataModel.Connection.ServerURLs(); got[0] != "http://x/mcp2" {
		t.Fatalf("after edit: %v", got)
	}

	a, _ = press(t, a, runes("d"), runes("y"))
	if got := a.dataModel.Connection.ServerURLs(); len(got) != 0 {
		t.Fatalf("after delete: %v", got)
	}

	a, _ = press(t, a, escKey)
	if a.showServers {
		t.Error("esc should close the server manager")
	}
}

func TestServerManagerConnect(t *testing.T) {
	a, gw := newTestAppView(t)
	a, _ = press(t, a, altKey("s"))

	a, cmd := press(t, a, runes("c"))
	if cmd != nil {
		t.Error("connecting an empty registry should be refused")
	}
	if a.notice == "" {
		t.Error("expected a notice")
	}

	a.dataModel.Connection.AddServer("http://x")
	a, cmd = press(t, a, runes("c"))
	if cmd == nil {
		t.Fatal("expected connect command")
	}
	cmd()

	if len(gw.InitializeCalls()) != 1 {
		t.Fatalf("expected one initialize call, got %d", len(gw.InitializeCalls()))
	}
	if a.dataModel.Connection.State().Status != appmodel.StatusConnected {
		t.Errorf("status: %q", a.dataModel.Connection.State().Status)
	}

	view := a.View()
	if !strings.Contains(view, "http://x") || !strings.Contains(view, "connected") {
		t.Errorf("view missing server row:\n%s", view)
	}

	a, _ = press(t, a, runes("x"))
	if a.dataModel.Connection.State().Status != appmodel.StatusDisconnected {
		t.Error("x should disconnect")
	}
}

func TestServerManagerTest(t *testing.T) {
	a, gw := newTestAppView(t)
	a.dataModel.Connection.AddServer("http://x")
	a, _ = press(t, a, altKey("s"))

	_, cmd := press(t, a, runes("t"))
	if cmd == nil {
		t.Fatal("expected test command")
	}
	msg, ok := cmd().(appmodel.ServerTestedMsg)
	if !ok || !msg.OK || msg.URL != "http://x" {
		t.Errorf("got %+v", msg)
	}
	if calls := gw.InitializeCalls(); len(calls) != 1 || calls[0].MCPServerURLs[0] != "http://x" {
		t.Errorf("calls: %+v", calls)
	}
}

func TestViewShowsConversation(t *testing.T) {
	a, _ := newTestAppView(t)
	a.dataModel.Conversation.AddMessage("ping", true)
	a.dataModel.Conversation.AddMessage("**pong**", false)
	a.dataModel.Conversation.SetError("boom")

	m, _ := a.Update(appmodel.StoreChangedMsg{})
	view := m.(AppView).View()

	for _, want := range []string{"ping", "pong", "Error: boom", "Not connected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAboutModal(t *testing.T) {
	a, _ := newTestAppView(t)
	a.dataModel.Config.BackendURL = "http://127.0.0.1:3004"

	a, _ = press(t, a, altKey("a"))
	view := a.View()
	for _, want := range []string{"test", "http://127.0.0.1:3004"} {
		if !strings.Contains(view, want) {
			t.Errorf("about view missing %q", want)
		}
	}

	a, _ = press(t, a, escKey)
	if a.showAbout {
		t.Error("esc should close the about modal")
	}
}
