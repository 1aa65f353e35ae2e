package application

import (
	"context"
	"sync"

	"support-relay/internal/domain"
)

// Mock implementations for testing

// MockCompletionClient implements output.CompletionClient for testing
type MockCompletionClient struct {
	ChatCompletionFunc func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// Captured values for assertions
	LastChatRequest *domain.ChatCompletionRequest
	Calls           int
}

func (m *MockCompletionClient) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	m.LastChatRequest = &request
	m.Calls++
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, request)
	}
	return &domain.ChatCompletionResponse{Content: "AI response"}, nil
}

// MockSessionStore implements output.SessionStore for testing.
// It keeps real bounded sessions so history assertions stay meaningful.
type MockSessionStore struct {
	MaxTurns     int
	AllocateFunc func() (string, error)

	mu        sync.Mutex
	sessions  map[string]*domain.Session
	allocated int

	// Captured values for assertions
	AppendCalls  int
	AcquireCalls []string
	ClearCalls   []string
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{MaxTurns: domain.DefaultMaxTurns, sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionStore) Get(sessionID string) []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[sessionID]; ok {
		return session.GetHistory()
	}
	return []domain.Turn{}
}

func (m *MockSessionStore) Append(sessionID string, turns ...domain.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	session, ok := m.sessions[sessionID]
	if !ok {
		session = domain.NewSession(sessionID, m.MaxTurns)
		m.sessions[sessionID] = session
	}
	session.Append(turns...)
}

func (m *MockSessionStore) Allocate() (string, error) {
	if m.AllocateFunc != nil {
		return m.AllocateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocated++
	return "generated-" + string(rune('a'+m.allocated-1)), nil
}

func (m *MockSessionStore) Acquire(sessionID string) func() {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, sessionID)
	m.mu.Unlock()
	return func() {}
}

func (m *MockSessionStore) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls = append(m.ClearCalls, sessionID)
	delete(m.sessions, sessionID)
}

func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MockDispatcher implements SupportDispatcher for testing
type MockDispatcher struct {
	Requests []domain.SupportRequest
}

func (m *MockDispatcher) Dispatch(request domain.SupportRequest) {
	m.Requests = append(m.Requests, request)
}

// MockNotifier implements output.Notifier for testing
type MockNotifier struct {
	NameValue  string
	NotifyFunc func(ctx context.Context, request domain.SupportRequest) error

	mu       sync.Mutex
	Requests []domain.SupportRequest
}

func (m *MockNotifier) Name() string {
	return m.NameValue
}

func (m *MockNotifier) Notify(ctx context.Context, request domain.SupportRequest) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, request)
	m.mu.Unlock()
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, request)
	}
	return nil
}

// MockLineClient implements output.LineClient for testing
type MockLineClient struct {
	ReplyMessageFunc func(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)
	PushMessageFunc  func(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)

	// Captured values for assertions
	LastReplyRequest *domain.LineReplyMessageRequest
	LastPushRequest  *domain.LinePushMessageRequest
}

func (m *MockLineClient) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastReplyRequest = &request
	if m.ReplyMessageFunc != nil {
		return m.ReplyMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

func (m *MockLineClient) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastPushRequest = &request
	if m.PushMessageFunc != nil {
		return m.PushMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}
