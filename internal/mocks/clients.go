package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"frontend/internal/app/session"
)

// MockAuthClient is a mock implementation of session.AuthClient. Responses
// maps a path to the value JSON-copied into out.
type MockAuthClient struct {
	PostFunc  func(ctx context.Context, path string, body, out interface{}) error
	Responses map[string]interface{}

	mu    sync.Mutex
	Paths []string
}

// Verify interface compliance
var _ session.AuthClient = (*MockAuthClient)(nil)

func NewMockAuthClient() *MockAuthClient {
	return &MockAuthClient{Responses: make(map[string]interface{})}
}

func (m *MockAuthClient) Post(ctx context.Context, path string, body, out interface{}) error {
	m.mu.Lock()
	m.Paths = append(m.Paths, path)
	m.mu.Unlock()
	if m.PostFunc != nil {
		return m.PostFunc(ctx, path, body, out)
	}
	resp, ok := m.Responses[path]
	if !ok || out == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
