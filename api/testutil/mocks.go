package testutil

import (
	"context"
	"sync"

	"mcpchat/api"
)

// MockGateway stands in for api.Client in store tests. Replace the Func
// fields to script responses; every call is recorded.
type MockGateway struct {
	InitializeFunc func(ctx context.Context, req api.InitializeRequest) (*api.InitializeResponse, error)
	ChatFunc       func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)

	mu              sync.Mutex
	initializeCalls []api.InitializeRequest
	chatCalls       []api.ChatRequest
}

// NewMockGateway returns a gateway that accepts every server and echoes
// chat messages back.
func NewMockGateway() *MockGateway {
	mock := &MockGateway{}
	mock.InitializeFunc = mock.defaultInitialize
	mock.ChatFunc = mock.defaultChat
	return mock
}

func (m *MockGateway) defaultInitialize(ctx context.Context, req api.InitializeRequest) (*api.InitializeResponse, error) {
	resp := &api.InitializeResponse{
		SessionID: "mock-session",
		Success:   true,
	}
	for _, u := range req.MCPServerURLs {
		resp.Servers = append(resp.Servers, api.ServerResult{URL: u, Status: "connected"})
	}
	return resp, nil
}

func (m *MockGateway) defaultChat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	return &api.ChatResponse{Response: "Echo: " + req.Message}, nil
}

func (m *MockGateway) InitializeMCP(ctx context.Context, req api.InitializeRequest) (*api.InitializeResponse, error) {
	m.mu.Lock()
	m.initializeCalls = append(m.initializeCalls, req)
	m.mu.Unlock()
	return m.InitializeFunc(ctx, req)
}

func (m *MockGateway) SendChatMessage(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	m.mu.Lock()
	m.chatCalls = append(m.chatCalls, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req)
}

func (m *MockGateway) InitializeCalls() []api.InitializeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.InitializeRequest(nil), m.initializeCalls...)
}

func (m *MockGateway) ChatCalls() []api.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.ChatRequest(nil), m.chatCalls...)
}
