package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mcpchat/api"
	"mcpchat/storage"
)

const (
	textNotConnected    = "Not connected"
	textInitializing    = "Initializing MCP servers..."
	textConnected       = "Connected to MCP servers"
	textFallback        = "Running in fallback mode"
	textFailedToConnect = "Failed to connect"
	textConnectionFail  = "Connection failed"
	textRestored        = "Restored previous session"

	errInitServers = "Failed to initialize MCP servers"
	errInitMCP     = "Failed to initialize MCP"
)

// ConnectionState is a point-in-time copy of the connection store.
// Error is empty when there is no error.
type ConnectionState struct {
	Servers    []ServerEntry
	Session    *SessionData
	Status     ConnectionStatus
	StatusText string
	Loading    bool
	Error      string
}

// ConnectionStore owns the MCP server registry, the current session
// snapshot and the aggregate connection status.
//
// Registry edits (add, remove, URL change) are written through to storage.
// Status changes are not; they reach disk only with the next edit.
type ConnectionStore struct {
	notifier

	mu      sync.RWMutex
	state   ConnectionState
	initGen uint64

	gateway Gateway
	storage *storage.MCPStorage
	opts    options
}

// NewConnectionStore builds a store whose registry is loaded from mcpStorage.
// A nil or unavailable storage starts with an empty registry.
func NewConnectionStore(gateway Gateway, mcpStorage *storage.MCPStorage, opts ...Option) *ConnectionStore {
	s := &ConnectionStore{
		gateway: gateway,
		storage: mcpStorage,
		opts:    buildOptions(opts),
		state: ConnectionState{
			Servers:    []ServerEntry{},
			Status:     StatusDisconnected,
			StatusText: textNotConnected,
		},
	}

	for _, stored := range mcpStorage.MCPServers() {
		s.state.Servers = append(s.state.Servers, fromStoredServer(stored))
	}

	return s
}

// State returns a copy that later mutations will not affect.
func (s *ConnectionStore) State() ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Servers = append([]ServerEntry{}, s.state.Servers...)
	st.Session = s.state.Session.clone()
	return st
}

func (s *ConnectionStore) Servers() []ServerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ServerEntry{}, s.state.Servers...)
}

// ServerURLs lists the registry URLs in order.
func (s *ConnectionStore) ServerURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make([]string, len(s.state.Servers))
	for i, srv := range s.state.Servers {
		urls[i] = srv.URL
	}
	return urls
}

// SessionID returns the current session id, or "" without a session.
func (s *ConnectionStore) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.SessionID
}

func (s *ConnectionStore) update(fn func(st *ConnectionState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

func (s *ConnectionStore) AddServer(url string) {
	s.update(func(st *ConnectionState) {
		st.Servers = append(st.Servers, ServerEntry{
			URL:    url,
			Status: ServerDisconnected,
		})
		s.persistServersLocked(st.Servers)
	})
}

// RemoveServer deletes the entry at index. An out-of-range index is a no-op.
func (s *ConnectionStore) RemoveServer(index int) {
	s.update(func(st *ConnectionState) {
		if index < 0 || index >= len(st.Servers) {
			return
		}
		servers := make([]ServerEntry, 0, len(st.Servers)-1)
		servers = append(servers, st.Servers[:index]...)
		servers = append(servers, st.Servers[index+1:]...)
		st.Servers = servers
		s.persistServersLocked(st.Servers)
	})
}

// UpdateServerURL replaces the URL at index and keeps its status.
// An out-of-range index is a no-op.
func (s *ConnectionStore) UpdateServerURL(index int, url string) {
	s.update(func(st *ConnectionState) {
		if index < 0 || index >= len(st.Servers) {
			return
		}
		st.Servers[index].URL = url
		s.persistServersLocked(st.Servers)
	})
}

// UpdateServerStatus sets status and error on every entry whose URL
// matches. The change is not persisted.
func (s *ConnectionStore) UpdateServerStatus(url string, status ServerStatus, errMsg string) {
	s.update(func(st *ConnectionState) {
		s.applyServerStatusLocked(st, url, status, errMsg)
	})
}

func (s *ConnectionStore) applyServerStatusLocked(st *ConnectionState, url string, status ServerStatus, errMsg string) {
	for i := range st.Servers {
		if st.Servers[i].URL != url {
			continue
		}
		st.Servers[i].Status = status
		st.Servers[i].Error = errMsg
		if status == ServerConnected {
			st.Servers[i].LastConnected = s.opts.now()
		}
	}
}

// SetConnectionStatus sets the aggregate status. An empty text defaults to
// the status name.
func (s *ConnectionStore) SetConnectionStatus(status ConnectionStatus, text string) {
	s.update(func(st *ConnectionState) {
		setStatusLocked(st, status, text)
	})
}

func setStatusLocked(st *ConnectionState, status ConnectionStatus, text string) {
	if text == "" {
		text = string(status)
	}
	st.Status = status
	st.StatusText = text
}

// SetSessionData replaces the session snapshot. nil clears it.
func (s *ConnectionStore) SetSessionData(session *SessionData) {
	s.update(func(st *ConnectionState) {
		st.Session = session.clone()
	})
}

func (s *ConnectionStore) SetLoading(loading bool) {
	s.update(func(st *ConnectionState) {
		st.Loading = loading
	})
}

// SetError sets the store-level error. "" clears it.
func (s *ConnectionStore) SetError(msg string) {
	s.update(func(st *ConnectionState) {
		st.Error = msg
	})
}

// InitializeMCP opens a backend session against urls. It never returns an
// error: every outcome lands in the store's status and error fields, and
// Loading is false again when it returns.
func (s *ConnectionStore) InitializeMCP(ctx context.Context, urls []string) {
	opID := newOpID()

	var gen uint64
	s.update(func(st *ConnectionState) {
		s.initGen++
		gen = s.initGen
		st.Loading = true
		st.Error = ""
		setStatusLocked(st, StatusConnecting, textInitializing)
	})
	logf("[ConnectionStore] %s initialize start (%d servers)", opID, len(urls))

	var (
		resp *api.InitializeResponse
		err  error
	)
	defer func() {
		s.finishInitialize(opID, gen, resp, err)
	}()

	resp, err = s.gateway.InitializeMCP(ctx, api.InitializeRequest{MCPServerURLs: urls})
}

func (s *ConnectionStore) finishInitialize(opID string, gen uint64, resp *api.InitializeResponse, err error) {
	s.update(func(st *ConnectionState) {
		if s.opts.latestOnly && gen != s.initGen {
			logf("[ConnectionStore] %s initialize result discarded (superseded)", opID)
			return
		}

		st.Loading = false

		if err != nil || resp == nil {
			setStatusLocked(st, StatusError, textConnectionFail)
			st.Error = errorText(err, errInitMCP)
			logf("[ConnectionStore] %s initialize failed: %s", opID, st.Error)
			return
		}

		session := sessionFromResponse(resp)
		st.Session = session
		s.persistSessionLocked(session)

		switch {
		case resp.Success:
			setStatusLocked(st, StatusConnected, textConnected)
			for _, srv := range resp.Servers {
				status, ok := ParseServerStatus(srv.Status)
				errMsg := srv.Error
				if !ok && errMsg == "" {
					errMsg = fmt.Sprintf("unexpected status %q", srv.Status)
				}
				s.applyServerStatusLocked(st, srv.URL, status, errMsg)
			}
		case resp.FallbackMode:
			setStatusLocked(st, StatusFallback, textFallback)
		default:
			text := resp.Error
			if text == "" {
				text = textFailedToConnect
			}
			setStatusLocked(st, StatusError, text)
			st.Error = resp.Error
			if st.Error == "" {
				st.Error = errInitServers
			}
		}

		logf("[ConnectionStore] %s initialize done: status=%s session=%s", opID, st.Status, session.SessionID)
	})
}

// TestServerConnection checks a single server through the backend. It only
// touches that server's entry; the aggregate status and session snapshot
// are left alone.
func (s *ConnectionStore) TestServerConnection(ctx context.Context, url string) bool {
	opID := newOpID()
	s.UpdateServerStatus(url, ServerConnecting, "")
	logf("[ConnectionStore] %s test %s", opID, url)

	resp, err := s.gateway.InitializeMCP(ctx, api.InitializeRequest{MCPServerURLs: []string{url}})
	if err != nil || resp == nil {
		msg := errorText(err, textConnectionFail)
		s.UpdateServerStatus(url, ServerError, msg)
		logf("[ConnectionStore] %s test %s failed: %s", opID, url, msg)
		return false
	}

	if resp.Success {
		s.UpdateServerStatus(url, ServerConnected, "")
		return true
	}

	s.UpdateServerStatus(url, ServerError, resp.Error)
	logf("[ConnectionStore] %s test %s rejected: %s", opID, url, resp.Error)
	return false
}

// RestoreSession loads the persisted session snapshot, if any. Servers and
// tools are not persisted, so the restored snapshot carries neither.
func (s *ConnectionStore) RestoreSession() bool {
	stored := s.storage.MCPSession()
	if stored == nil || stored.SessionID == "" {
		return false
	}

	s.update(func(st *ConnectionState) {
		st.Session = &SessionData{
			SessionID:    stored.SessionID,
			Success:      stored.Success,
			FallbackMode: stored.FallbackMode,
			Error:        stored.Error,
		}
		st.StatusText = textRestored
	})
	logf("[ConnectionStore] restored session %s (saved %s)", stored.SessionID, stored.Timestamp)
	return true
}

// Disconnect drops the session snapshot from memory and storage and resets
// the aggregate status. Registry entries keep their status.
func (s *ConnectionStore) Disconnect() {
	s.update(func(st *ConnectionState) {
		s.initGen++
		st.Session = nil
		st.Loading = false
		st.Error = ""
		setStatusLocked(st, StatusDisconnected, textNotConnected)
		s.storage.ClearMCPSession()
	})
}

func (s *ConnectionStore) persistServersLocked(servers []ServerEntry) {
	stored := make([]storage.StoredServer, len(servers))
	for i, srv := range servers {
		stored[i] = toStoredServer(srv)
	}
	s.storage.SaveMCPServers(stored)
}

func (s *ConnectionStore) persistSessionLocked(session *SessionData) {
	s.storage.SaveMCPSession(storage.StoredSession{
		SessionID:    session.SessionID,
		Success:      session.Success,
		FallbackMode: session.FallbackMode,
		Error:        session.Error,
		Timestamp:    s.opts.now().UTC().Format(time.RFC3339),
	})
}

func toStoredServer(srv ServerEntry) storage.StoredServer {
	stored := storage.StoredServer{
		URL:    srv.URL,
		Status: string(srv.Status),
		Error:  srv.Error,
	}
	if !srv.LastConnected.IsZero() {
		stored.LastConnected = srv.LastConnected.UTC().Format(time.RFC3339Nano)
	}
	return stored
}

func fromStoredServer(stored storage.StoredServer) ServerEntry {
	status, ok := ParseServerStatus(stored.Status)
	if !ok {
		status = ServerDisconnected
	}
	entry := ServerEntry{
		URL:    stored.URL,
		Status: status,
		Error:  stored.Error,
	}
	if stored.LastConnected != "" {
		if t, err := time.Parse(time.RFC3339Nano, stored.LastConnected); err == nil {
			entry.LastConnected = t
		}
	}
	return entry
}
