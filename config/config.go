package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	BaseURL string `toml:"base_url"`
}

type ChatConfig struct {
	FallbackSessionID string `toml:"fallback_session_id"`
	LatestOnly        bool   `toml:"latest_only"`
}

type MCPConfig struct {
	RestoreSession bool `toml:"restore_session"`
	AutoConnect    bool `toml:"auto_connect"`
}

type UserConfig struct {
	Backend BackendConfig `toml:"backend"`
	Chat    ChatConfig    `toml:"chat"`
	MCP     MCPConfig     `toml:"mcp"`
}

type Config struct {
	DataDirectory     string
	BackendURL        string
	FallbackSessionID string
	LatestOnly        bool
	RestoreSession    bool
	AutoConnect       bool
}

// Overrides carries values supplied on the command line. Empty fields are
// ignored. They win over both env vars and config files.
type Overrides struct {
	DataDir     string
	BackendURL  string
	AutoConnect bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Validate checks the values that the rest of the program relies on.
func (c *Config) Validate() error {
	if c.DataDirectory == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: must be an absolute http(s) URL", c.BackendURL)
	}

	if c.FallbackSessionID == "" {
		return fmt.Errorf("fallback session id cannot be empty")
	}

	return nil
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: session ids and backend errors end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (%s=%s) ===", EnvDebug, os.Getenv(EnvDebug))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	return LoadWith(Overrides{})
}

func LoadWith(o Overrides) (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{
		DataDirectory: systemCfg.DataDirectory,
	}
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	}
	if o.DataDir != "" {
		cfg.DataDirectory = o.DataDir
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultSystemConfig().DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.BackendURL = userCfg.Backend.BaseURL
	cfg.FallbackSessionID = userCfg.Chat.FallbackSessionID
	cfg.LatestOnly = userCfg.Chat.LatestOnly
	cfg.RestoreSession = userCfg.MCP.RestoreSession
	cfg.AutoConnect = userCfg.MCP.AutoConnect

	cfg.applyEnvOverrides()

	if o.BackendURL != "" {
		cfg.BackendURL = o.BackendURL
	}
	if o.AutoConnect {
		cfg.AutoConnect = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if backend := os.Getenv(EnvBackendURL); backend != "" {
		c.BackendURL = backend
	}
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.FallbackSessionID == "" {
		c.FallbackSessionID = DefaultFallbackSessionID
	}
}
