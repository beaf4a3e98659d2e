package model

import (
	"time"

	"mcpchat/api"
)

// ServerStatus is the state of a single registry entry.
type ServerStatus string

const (
	ServerDisconnected ServerStatus = "disconnected"
	ServerConnecting   ServerStatus = "connecting"
	ServerConnected    ServerStatus = "connected"
	ServerError        ServerStatus = "error"
)

// ParseServerStatus maps a backend status string onto a ServerStatus.
// Unknown values report ok=false.
func ParseServerStatus(s string) (ServerStatus, bool) {
	switch ServerStatus(s) {
	case ServerDisconnected, ServerConnecting, ServerConnected, ServerError:
		return ServerStatus(s), true
	}
	return ServerError, false
}

// ConnectionStatus is the store-level aggregate, independent of any single
// server's status.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusFallback     ConnectionStatus = "fallback"
	StatusError        ConnectionStatus = "error"
)

// Message is one entry of the conversation log.
type Message struct {
	ID        string
	Content   string
	IsUser    bool
	Timestamp time.Time
	IsLoading bool
	Error     string
}

// MessagePatch lists the fields UpdateMessage should overwrite; nil fields
// are left alone. The ID cannot be changed.
type MessagePatch struct {
	Content   *string
	IsUser    *bool
	Timestamp *time.Time
	IsLoading *bool
	Error     *string
}

func (p MessagePatch) apply(m *Message) {
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.IsUser != nil {
		m.IsUser = *p.IsUser
	}
	if p.Timestamp != nil {
		m.Timestamp = *p.Timestamp
	}
	if p.IsLoading != nil {
		m.IsLoading = *p.IsLoading
	}
	if p.Error != nil {
		m.Error = *p.Error
	}
}

// ServerEntry is one configured tool-provider server. LastConnected is the
// zero time until the entry has been seen connected.
type ServerEntry struct {
	URL           string
	Status        ServerStatus
	Error         string
	LastConnected time.Time
}

// SessionData is the snapshot returned by the last initialize call.
type SessionData struct {
	SessionID    string
	Success      bool
	FallbackMode bool
	Error        string
	Servers      []ServerEntry
	Tools        []api.ToolDescriptor
}

func (s *SessionData) clone() *SessionData {
	if s == nil {
		return nil
	}
	c := *s
	c.Servers = append([]ServerEntry(nil), s.Servers...)
	c.Tools = append([]api.ToolDescriptor(nil), s.Tools...)
	return &c
}

func sessionFromResponse(resp *api.InitializeResponse) *SessionData {
	session := &SessionData{
		SessionID:    resp.SessionID,
		Success:      resp.Success,
		FallbackMode: resp.FallbackMode,
		Error:        resp.Error,
		Tools:        append([]api.ToolDescriptor(nil), resp.Tools...),
	}
	for _, srv := range resp.Servers {
		status, _ := ParseServerStatus(srv.Status)
		session.Servers = append(session.Servers, ServerEntry{
			URL:    srv.URL,
			Status: status,
			Error:  srv.Error,
		})
	}
	return session
}
