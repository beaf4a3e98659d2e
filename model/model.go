package model

import (
	"mcpchat/config"
	"mcpchat/storage"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config  *config.Config
	Gateway Gateway
	Storage *storage.MCPStorage

	// Application state
	Connection   *ConnectionStore
	Conversation *ConversationStore

	// Runtime state (not UI)
	Quitting bool

	// Application metadata
	Version string
}

// NewModel creates both stores and wires the conversation to the
// connection's session id.
func NewModel(cfg *config.Config, gateway Gateway, mcpStorage *storage.MCPStorage, version string) *Model {
	opts := []Option{WithLatestOnly(cfg.LatestOnly)}

	connection := NewConnectionStore(gateway, mcpStorage, opts...)
	conversation := NewConversationStore(gateway, connection.SessionID, cfg.FallbackSessionID, opts...)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] NewModel: %d servers loaded (storage available: %v, latest only: %v)",
			len(connection.Servers()), mcpStorage.Available(), cfg.LatestOnly)
	}

	return &Model{
		Config:       cfg,
		Gateway:      gateway,
		Storage:      mcpStorage,
		Connection:   connection,
		Conversation: conversation,
		Version:      version,
	}
}
