package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"support-relay/internal/domain"
)

func testProfile() domain.BusinessProfile {
	return domain.BusinessProfile{
		CompanyName: "Acme Web",
		Tagline:     "Websites that work",
		Services:    []string{"Web design", "Hosting"},
		Email:       "hello@acme.test",
		Phone:       "+1 555 0100",
		WhatsApp:    "+1 555 0101",
		Location:    "Berlin",
		About:       "Small studio.",
		PricingInfo: "$50/mo",
	}
}

func testIntents() []domain.Intent {
	return []domain.Intent{
		{Keywords: []string{"opening hours"}, Reply: "We are open 9 to 5."},
		{Keywords: []string{"refund"}, Reply: "Refunds take 3 days."},
	}
}

type chatFixture struct {
	service    *ChatService
	client     *MockCompletionClient
	sessions   *MockSessionStore
	dispatcher *MockDispatcher
}

func newChatFixture() *chatFixture {
	client := &MockCompletionClient{}
	sessions := NewMockSessionStore()
	dispatcher := &MockDispatcher{}
	gateway := NewCompletionGateway(client, DefaultCompletionSettings(), nil)
	service := NewChatService(sessions, gateway, dispatcher, ChatServiceConfig{
		Profile: testProfile(),
		Intents: testIntents(),
	}, nil)
	return &chatFixture{service: service, client: client, sessions: sessions, dispatcher: dispatcher}
}

// TestChat_EmptyMessageRejected tests that empty, missing and blank messages are rejected before anything else
func TestChat_EmptyMessageRejected(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		// Arrange
		f := newChatFixture()

		// Act
		response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: msg, SessionID: "s1"})

		// Assert
		if !errors.Is(err, domain.ErrMessageRequired) {
			t.Errorf("message %q: expected ErrMessageRequired, got %v", msg, err)
		}
		if response != nil {
			t.Errorf("message %q: expected nil response", msg)
		}
		if f.client.Calls != 0 || f.sessions.AppendCalls != 0 || len(f.dispatcher.Requests) != 0 {
			t.Errorf("message %q: expected no side effects", msg)
		}
		if f.sessions.allocated != 0 {
			t.Errorf("message %q: expected no session allocation", msg)
		}
	}
}

// TestChat_AllocatesSessionWhenMissing tests that a new id is generated and returned
func TestChat_AllocatesSessionWhenMissing(t *testing.T) {
	// Arrange
	f := newChatFixture()

	// Act
	first, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Assert
	if first.SessionID == "" {
		t.Fatal("Expected a generated session id")
	}
	if first.SessionID == second.SessionID {
		t.Errorf("Expected distinct ids, both were %q", first.SessionID)
	}
}

// TestChat_EchoesSuppliedSession tests that a caller-supplied id is reused on every route
func TestChat_EchoesSuppliedSession(t *testing.T) {
	for _, msg := range []string{"hi", "what are your opening hours", "I have a project"} {
		// Arrange
		f := newChatFixture()

		// Act
		response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: msg, SessionID: "client-session"})

		// Assert
		if err != nil {
			t.Fatalf("message %q: expected no error, got: %v", msg, err)
		}
		if response.SessionID != "client-session" {
			t.Errorf("message %q: expected session 'client-session', got %q", msg, response.SessionID)
		}
		if f.sessions.allocated != 0 {
			t.Errorf("message %q: expected no allocation", msg)
		}
	}
}

// TestChat_IntentShortCircuits tests that intent keywords in any casing bypass the language model
func TestChat_IntentShortCircuits(t *testing.T) {
	for _, msg := range []string{"opening hours?", "What are your OPENING HOURS", "Opening Hours please"} {
		// Arrange
		f := newChatFixture()

		// Act
		response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: msg})

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if response.Reply != "We are open 9 to 5." {
			t.Errorf("message %q: expected canned reply, got %q", msg, response.Reply)
		}
		if response.Route != domain.ChatRouteIntent {
			t.Errorf("message %q: expected intent route, got %q", msg, response.Route)
		}
		if f.client.Calls != 0 {
			t.Errorf("message %q: expected no completion call, got %d", msg, f.client.Calls)
		}
		if f.sessions.AppendCalls != 0 {
			t.Errorf("message %q: expected no history mutation", msg)
		}
	}
}

// TestChat_NotificationShortCircuits tests that trigger phrases dispatch a support request and skip history
func TestChat_NotificationShortCircuits(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.sessions.Append("s1", domain.UserTurn("earlier"), domain.AssistantTurn("reply"))
	appendsBefore := f.sessions.AppendCalls

	// Act
	response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "Please SEND AS EMAIL: call me about refund", SessionID: "s1"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.Reply != domain.DefaultAcknowledgment {
		t.Errorf("Expected acknowledgment, got %q", response.Reply)
	}
	if response.Route != domain.ChatRouteNotification {
		t.Errorf("Expected notification route, got %q", response.Route)
	}
	if len(f.dispatcher.Requests) != 1 {
		t.Fatalf("Expected 1 dispatched request, got %d", len(f.dispatcher.Requests))
	}
	dispatched := f.dispatcher.Requests[0]
	if dispatched.SessionID != "s1" || dispatched.Channel != domain.ChannelWeb || dispatched.RequestedAt.IsZero() {
		t.Errorf("Unexpected dispatched request: %+v", dispatched)
	}
	if f.client.Calls != 0 {
		t.Errorf("Expected no completion call, got %d", f.client.Calls)
	}
	if f.sessions.AppendCalls != appendsBefore {
		t.Error("Expected no history mutation")
	}
	for _, turn := range f.sessions.Get("s1") {
		if strings.Contains(turn.Content, "SEND AS EMAIL") {
			t.Errorf("Expected diverted message to stay out of history, found %q", turn.Content)
		}
	}
}

// TestChat_NotificationWinsOverIntent tests the trigger check runs before intent matching
func TestChat_NotificationWinsOverIntent(t *testing.T) {
	// Arrange
	f := newChatFixture()

	// Act
	response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "refund for my project"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.Route != domain.ChatRouteNotification {
		t.Errorf("Expected notification route, got %q", response.Route)
	}
}

// TestChat_CompletionStoresBothTurns tests the normal path end to end
func TestChat_CompletionStoresBothTurns(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.client.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
		return &domain.ChatCompletionResponse{Content: "  We build websites.  "}, nil
	}

	// Act
	response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "What do you do?", SessionID: "s1"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.Reply != "We build websites." || response.Route != domain.ChatRouteCompletion || response.Fallback {
		t.Errorf("Unexpected response: %+v", response)
	}

	history := f.sessions.Get("s1")
	if len(history) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(history))
	}
	if history[0].Role != domain.ChatMessageRoleUser || history[0].Content != "What do you do?" {
		t.Errorf("Unexpected user turn: %+v", history[0])
	}
	if history[1].Role != domain.ChatMessageRoleAssistant || history[1].Content != "We build websites." {
		t.Errorf("Unexpected assistant turn: %+v", history[1])
	}
	if len(f.sessions.AcquireCalls) != 1 || f.sessions.AcquireCalls[0] != "s1" {
		t.Errorf("Expected session lane to be acquired once, got %v", f.sessions.AcquireCalls)
	}
}

// TestChat_PricingReachesSystemPrompt tests that profile data is sent with a new session
func TestChat_PricingReachesSystemPrompt(t *testing.T) {
	// Arrange
	f := newChatFixture()

	// Act
	response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "What are your prices?"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.SessionID == "" {
		t.Error("Expected a newly allocated session id")
	}
	if f.client.LastChatRequest == nil {
		t.Fatal("Expected a completion call")
	}
	system := f.client.LastChatRequest.Messages[0]
	if system.Role != domain.ChatMessageRoleSystem {
		t.Fatalf("Expected first message to be the system prompt, got %q", system.Role)
	}
	if !strings.Contains(system.Content, "$50/mo") {
		t.Errorf("Expected pricing info in system prompt, got:\n%s", system.Content)
	}
	last := f.client.LastChatRequest.Messages[len(f.client.LastChatRequest.Messages)-1]
	if last.Content != "What are your prices?" {
		t.Errorf("Expected user message last, got %q", last.Content)
	}
}

// TestChat_HistorySentInOrderAndTrimmed tests that the gateway sees the most recent window
func TestChat_HistorySentInOrderAndTrimmed(t *testing.T) {
	// Arrange
	f := newChatFixture()
	for i := 0; i < 6; i++ {
		f.sessions.Append("s1", domain.UserTurn(fmt.Sprintf("u%d", i)), domain.AssistantTurn(fmt.Sprintf("a%d", i)))
	}

	// Act
	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "latest", SessionID: "s1"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	sent := f.client.LastChatRequest.Messages[1:]
	if len(sent) != domain.DefaultMaxTurns {
		t.Fatalf("Expected %d history turns sent, got %d", domain.DefaultMaxTurns, len(sent))
	}
	if sent[0].Content != "a1" || sent[len(sent)-1].Content != "latest" {
		t.Errorf("Expected window [a1 .. latest], got first=%q last=%q", sent[0].Content, sent[len(sent)-1].Content)
	}
}

// TestChat_SessionKeepsMostRecentTen tests the stored window over many exchanges
func TestChat_SessionKeepsMostRecentTen(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.client.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
		last := request.Messages[len(request.Messages)-1].Content
		return &domain.ChatCompletionResponse{Content: "re: " + last}, nil
	}

	// Act
	for i := 0; i < 8; i++ {
		if _, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: fmt.Sprintf("q%d", i), SessionID: "s1"}); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}

	// Assert
	history := f.sessions.Get("s1")
	if len(history) != 10 {
		t.Fatalf("Expected 10 turns, got %d", len(history))
	}
	if history[0].Content != "q3" || history[9].Content != "re: q7" {
		t.Errorf("Expected window q3 .. re: q7, got %q .. %q", history[0].Content, history[9].Content)
	}
}

// TestChat_ProjectOnReusedSession tests the acknowledgement on a follow-up message
func TestChat_ProjectOnReusedSession(t *testing.T) {
	// Arrange
	f := newChatFixture()
	first, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "Tell me about you"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Act
	second, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "project", SessionID: first.SessionID})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if second.Reply != domain.DefaultAcknowledgment {
		t.Errorf("Expected acknowledgment, got %q", second.Reply)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("Expected session %q, got %q", first.SessionID, second.SessionID)
	}
	if len(f.sessions.Get(first.SessionID)) != 2 {
		t.Errorf("Expected only the first exchange in history")
	}
}

// TestChat_CompletionErrorLeavesHistoryUntouched tests failures propagate without mutation
func TestChat_CompletionErrorLeavesHistoryUntouched(t *testing.T) {
	for _, upstreamErr := range []error{domain.ErrMissingCredential, domain.ErrUpstreamUnavailable, domain.ErrUpstreamMalformed} {
		// Arrange
		f := newChatFixture()
		f.client.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
			return nil, fmt.Errorf("%w: test", upstreamErr)
		}

		// Act
		response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "hello", SessionID: "s1"})

		// Assert
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Expected %v, got %v", upstreamErr, err)
		}
		if response != nil {
			t.Error("Expected nil response")
		}
		if len(f.sessions.Get("s1")) != 0 {
			t.Error("Expected no history after failure")
		}
	}
}

// TestChat_FallbackIsMarkedAndNotStored tests the distinguishable fallback marker
func TestChat_FallbackIsMarkedAndNotStored(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.client.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
		return nil, domain.ErrEmptyCompletion
	}

	// Act
	response, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "hello", SessionID: "s1"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !response.Fallback || response.Reply != FallbackReply {
		t.Errorf("Expected fallback reply, got %+v", response)
	}
	if len(f.sessions.Get("s1")) != 0 {
		t.Error("Expected fallback exchange to stay out of history")
	}
}

// TestChat_AllocationFailure tests that id generation errors surface
func TestChat_AllocationFailure(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.sessions.AllocateFunc = func() (string, error) { return "", errors.New("entropy exhausted") }

	// Act
	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "hello"})

	// Assert
	if err == nil {
		t.Fatal("Expected an error")
	}
	if f.client.Calls != 0 {
		t.Error("Expected no completion call")
	}
}

// TestClearSession tests that ClearSession forwards to the store
func TestClearSession(t *testing.T) {
	// Arrange
	f := newChatFixture()
	f.sessions.Append("s1", domain.UserTurn("hello"))

	// Act
	f.service.ClearSession("s1")

	// Assert
	if len(f.sessions.ClearCalls) != 1 || f.sessions.ClearCalls[0] != "s1" {
		t.Errorf("Expected Clear('s1'), got %v", f.sessions.ClearCalls)
	}
	if len(f.sessions.Get("s1")) != 0 {
		t.Error("Expected empty history")
	}
}
