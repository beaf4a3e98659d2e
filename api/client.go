package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mcpchat/config"
)

// StatusError is returned for any non-2xx response. The body is not read.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed: %d %s", e.StatusCode, e.StatusText)
}

// Client talks to the chat backend. It sets no timeout of its own; the
// supplied http.Client decides.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultBackendURL
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid backend URL: %q is not absolute", baseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    make(http.Header),
	}, nil
}

// SetHeader adds a header sent with every request. It overrides the
// default Content-Type if the same name is used.
func (c *Client) SetHeader(key, value string) {
	c.headers.Set(key, value)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) InitializeMCP(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if req.MCPServerURLs == nil {
		req.MCPServerURLs = []string{}
	}

	var resp InitializeResponse
	if err := c.post(ctx, EndpointMCPInitialize, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SendChatMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, EndpointChat, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range c.headers {
		httpReq.Header[key] = values
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Gateway] POST %s failed: %v", endpoint, err)
		}
		return err
	}
	defer resp.Body.Close()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Gateway] POST %s -> %s", endpoint, resp.Status)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// statusText extracts the reason phrase from the status line, falling back
// to the canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
