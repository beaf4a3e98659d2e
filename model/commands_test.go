package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/api/testutil"
	"mcpchat/config"
	"mcpchat/storage"
)

func newTestModel(t *testing.T, cfg *config.Config) (*Model, *testutil.MockGateway) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{FallbackSessionID: config.DefaultFallbackSessionID}
	}
	gw := testutil.NewMockGateway()
	return NewModel(cfg, gw, storage.NewMCPStorage(storage.NewMemoryKV()), "test"), gw
}

// collect runs cmd and any batch it expands into.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

func TestModelCommands(t *testing.T) {
	m, gw := newTestModel(t, nil)
	m.Connection.AddServer("http://x")

	if _, ok := m.InitializeMCP()().(MCPInitializedMsg); !ok {
		t.Fatal("expected MCPInitializedMsg")
	}
	if m.Connection.SessionID() != "mock-session" {
		t.Errorf("session: got %q", m.Connection.SessionID())
	}

	if _, ok := m.SendMessage("hi")().(MessageSentMsg); !ok {
		t.Fatal("expected MessageSentMsg")
	}
	if calls := gw.ChatCalls(); len(calls) != 1 || calls[0].SessionID != "mock-session" {
		t.Errorf("chat calls: %+v", calls)
	}
	if got := m.LastReply(); got != "Echo: hi" {
		t.Errorf("last reply: got %q", got)
	}

	msg, ok := m.TestServer("http://x")().(ServerTestedMsg)
	if !ok || !msg.OK || msg.URL != "http://x" {
		t.Errorf("got %+v", msg)
	}
}

func TestLastReplyEmpty(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Conversation.AddMessage("only me", true)

	if got := m.LastReply(); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestStartupNothingToDo(t *testing.T) {
	m, gw := newTestModel(t, nil)

	if msgs := collect(m.Startup()); len(msgs) != 0 {
		t.Errorf("expected no messages, got %v", msgs)
	}
	if len(gw.InitializeCalls()) != 0 {
		t.Error("should not connect")
	}
}

func TestStartupAutoConnect(t *testing.T) {
	cfg := &config.Config{
		FallbackSessionID: config.DefaultFallbackSessionID,
		AutoConnect:       true,
	}
	m, gw := newTestModel(t, cfg)
	m.Connection.AddServer("http://x")

	msgs := collect(m.Startup())
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if _, ok := msgs[0].(MCPInitializedMsg); !ok {
		t.Fatalf("expected MCPInitializedMsg, got %T", msgs[0])
	}
	if len(gw.InitializeCalls()) != 1 {
		t.Errorf("expected one initialize call, got %d", len(gw.InitializeCalls()))
	}
}

func TestStartupRestore(t *testing.T) {
	cfg := &config.Config{
		FallbackSessionID: config.DefaultFallbackSessionID,
		RestoreSession:    true,
	}
	m, _ := newTestModel(t, cfg)
	m.Storage.SaveMCPSession(storage.StoredSession{SessionID: "saved", Success: true})

	msgs := collect(m.Startup())
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if msg, ok := msgs[0].(SessionRestoredMsg); !ok || !msg.Restored {
		t.Errorf("got %#v", msgs[0])
	}
	if m.Connection.SessionID() != "saved" {
		t.Errorf("session: got %q", m.Connection.SessionID())
	}
}

func TestWaitForChange(t *testing.T) {
	m, _ := newTestModel(t, nil)
	conn := m.Connection.Subscribe()
	conv := m.Conversation.Subscribe()

	m.Conversation.AddMessage("x", true)

	var msg tea.Msg = WaitForChange(conn, conv)()
	if _, ok := msg.(StoreChangedMsg); !ok {
		t.Errorf("got %T", msg)
	}
}
