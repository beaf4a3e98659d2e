package api

const (
	EndpointMCPInitialize = "/mcp/initialize"
	EndpointChat          = "/chat"
)

type InitializeRequest struct {
	MCPServerURLs []string `json:"mcpServerUrls"`
}

// ServerResult is the backend's verdict for one requested server URL.
type ServerResult struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type InitializeResponse struct {
	SessionID    string           `json:"sessionId"`
	Success      bool             `json:"success"`
	FallbackMode bool             `json:"fallbackMode,omitempty"`
	Error        string           `json:"error,omitempty"`
	Servers      []ServerResult   `json:"servers,omitempty"`
	Tools        []ToolDescriptor `json:"tools,omitempty"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}
