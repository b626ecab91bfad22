package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replies from a FIFO queue, or from Responder when the queue
// is empty. Content is validated against the request schema like a real
// provider would.
type MockProvider struct {
	// Responder answers requests once the queue is drained. It must be
	// safe for concurrent use.
	Responder func(req Request) MockResponse

	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Responder != nil:
		m.mu.Unlock()
		next = m.Responder(req)
		m.mu.Lock()
	default:
		next = MockResponse{Err: &ErrProviderUnavailable{}}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, next.Content, next.Usage, "mock", "end")
}

func (m *MockProvider) ModelID() string { return "mock" }

// Calls returns a copy of the requests seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns how many times Generate ran.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
