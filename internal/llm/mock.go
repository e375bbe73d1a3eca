package llm

import (
	"context"
	"fmt"
)

// MockClient implements Client for tests and offline runs. Replies cycle
// through Replies, or a canned line when none are configured.
type MockClient struct {
	ModelName string
	Replies   []string
	Requests  []ChatRequest
	Err       error

	next int
}

// Chat records the request and returns the next canned reply.
func (m *MockClient) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("request has no messages")
	}
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	content := "That sounds nice! What are you up to this week?"
	if len(m.Replies) > 0 {
		content = m.Replies[m.next%len(m.Replies)]
		m.next++
	}

	return &ChatResponse{Content: content, Model: m.Model()}, nil
}

// Model returns the configured model name or a mock default.
func (m *MockClient) Model() string {
	if m.ModelName != "" {
		return m.ModelName
	}
	return "mock"
}
