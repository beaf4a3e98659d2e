package storage

import (
	"encoding/json"

	"mcpchat/config"
)

const (
	KeyMCPServers = "mcp_servers"
	KeyMCPSession = "mcp_session"
)

// StoredServer is the persisted shape of one registry entry.
// LastConnected is an RFC 3339 timestamp or empty.
type StoredServer struct {
	URL           string `json:"url"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	LastConnected string `json:"lastConnected,omitempty"`
}

// StoredSession is the persisted shape of the last MCP session snapshot.
type StoredSession struct {
	SessionID    string `json:"sessionId"`
	Success      bool   `json:"success"`
	FallbackMode bool   `json:"fallbackMode,omitempty"`
	Error        string `json:"error,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// MCPStorage persists the server registry and session snapshot.
//
// No method returns an error: a missing or corrupt value reads as empty,
// and a failed write is logged and dropped. A nil KVStore means durable
// storage is unavailable and every call is a no-op.
type MCPStorage struct {
	kv KVStore
}

func NewMCPStorage(kv KVStore) *MCPStorage {
	return &MCPStorage{kv: kv}
}

// Available reports whether a durable store is attached.
func (s *MCPStorage) Available() bool {
	return s != nil && s.kv != nil
}

// MCPServers returns the saved registry, or an empty slice.
func (s *MCPStorage) MCPServers() []StoredServer {
	servers := []StoredServer{}
	if !s.Available() {
		return servers
	}

	raw, ok, err := s.kv.Get(KeyMCPServers)
	if err != nil {
		logf("[Storage] Failed to load MCP servers from storage: %v", err)
		return servers
	}
	if !ok {
		return servers
	}

	var decoded []StoredServer
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logf("[Storage] Failed to load MCP servers from storage: %v", err)
		return servers
	}
	if decoded == nil {
		return servers
	}

	return decoded
}

func (s *MCPStorage) SaveMCPServers(servers []StoredServer) {
	if !s.Available() {
		return
	}

	if servers == nil {
		servers = []StoredServer{}
	}

	data, err := json.Marshal(servers)
	if err != nil {
		logf("[Storage] Failed to save MCP servers to storage: %v", err)
		return
	}

	if err := s.kv.Set(KeyMCPServers, string(data)); err != nil {
		logf("[Storage] Failed to save MCP servers to storage: %v", err)
	}
}

// MCPSession returns the saved session snapshot, or nil.
func (s *MCPStorage) MCPSession() *StoredSession {
	if !s.Available() {
		return nil
	}

	raw, ok, err := s.kv.Get(KeyMCPSession)
	if err != nil {
		logf("[Storage] Failed to load MCP session from storage: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var session *StoredSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		logf("[Storage] Failed to load MCP session from storage: %v", err)
		return nil
	}

	return session
}

func (s *MCPStorage) SaveMCPSession(session StoredSession) {
	if !s.Available() {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		logf("[Storage] Failed to save MCP session to storage: %v", err)
		return
	}

	if err := s.kv.Set(KeyMCPSession, string(data)); err != nil {
		logf("[Storage] Failed to save MCP session to storage: %v", err)
	}
}

func (s *MCPStorage) ClearMCPSession() {
	if !s.Available() {
		return
	}

	if err := s.kv.Remove(KeyMCPSession); err != nil {
		logf("[Storage] Failed to clear MCP session from storage: %v", err)
	}
}

// ClearAllMCPData removes both the registry and the session snapshot.
func (s *MCPStorage) ClearAllMCPData() {
	if !s.Available() {
		return
	}

	for _, key := range []string{KeyMCPServers, KeyMCPSession} {
		if err := s.kv.Remove(key); err != nil {
			logf("[Storage] Failed to clear MCP data from storage: %v", err)
		}
	}
}

func logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf(format, args...)
	}
}
