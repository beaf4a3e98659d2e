package config

const (
	EnvBackendURL = "MCPCHAT_BACKEND_URL"
	EnvDataDir    = "MCPCHAT_DATA_DIR"
	EnvDebug      = "MCPCHAT_DEBUG"

	DefaultBackendURL        = "http://127.0.0.1:3004"
	DefaultFallbackSessionID = "default-session"
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/mcpchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			BaseURL: DefaultBackendURL,
		},
		Chat: ChatConfig{
			FallbackSessionID: DefaultFallbackSessionID,
			LatestOnly:        false,
		},
		MCP: MCPConfig{
			RestoreSession: true,
			AutoConnect:    false,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# mcpchat System Configuration
# Location: ~/.config/mcpchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the server registry, session snapshot and user config are stored
data_directory = "~/.local/share/mcpchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# mcpchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Chat backend exposing POST /mcp/initialize and POST /chat
base_url = "http://127.0.0.1:3004"

[chat]
# Session id sent with chat messages before any MCP session exists
fallback_session_id = "default-session"

# Discard replies from requests that were overtaken by a newer request
latest_only = false

[mcp]
# Reload the last MCP session snapshot on startup
restore_session = true

# Connect to every saved MCP server on startup
auto_connect = false
`
}
