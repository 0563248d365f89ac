package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"unicode/utf8"
)

// MockResponse is one queued answer of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a FIFO queue of canned responses, then from
// per-schema fixtures. It records every request it receives.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	fixtures  map[string]json.RawMessage
	Calls     []Request
}

// NewMockProvider queues responses. Once the queue is drained, requests
// fail with ErrProviderUnavailable unless a fixture covers their schema.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewOfflineProvider answers every problem-set and diagnostic-report
// request with a built-in sample, so the whole take-and-report flow runs
// without an API key.
func NewOfflineProvider() *MockProvider {
	return &MockProvider{fixtures: offlineFixtures()}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) > 0 {
		next := m.responses[0]
		m.responses = m.responses[1:]
		if next.Err != nil {
			return nil, next.Err
		}
		return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
	}

	if req.Schema != nil {
		if content, ok := m.fixtures[req.Schema.Name]; ok {
			return &Response{
				Content:    content,
				Usage:      estimateUsage(req, content),
				Model:      "mock",
				StopReason: "end",
			}, nil
		}
	}

	return nil, &ErrProviderUnavailable{Provider: "mock", Err: errors.New("no queued response")}
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues resp after any pending responses.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// SetFixture makes content the answer for every request using the named
// schema once the queue is empty.
func (m *MockProvider) SetFixture(schema string, content json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fixtures == nil {
		m.fixtures = make(map[string]json.RawMessage)
	}
	m.fixtures[schema] = content
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// estimateUsage approximates token counts at two runes per token, roughly
// what the backends report for mixed Korean and TeX.
func estimateUsage(req Request, content json.RawMessage) Usage {
	in := utf8.RuneCountInString(req.System)
	for _, msg := range req.Messages {
		in += utf8.RuneCountInString(msg.Content)
	}
	out := utf8.RuneCount(content)
	u := Usage{InputTokens: (in + 1) / 2, OutputTokens: (out + 1) / 2}
	u.TotalTokens = u.InputTokens + u.OutputTokens
	return u
}
