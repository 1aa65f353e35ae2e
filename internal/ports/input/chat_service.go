package input

import (
	"context"

	"support-relay/internal/domain"
)

// ChatService interface - Input port (use case)
// Defines what the application can do with an inbound chat message
type ChatService interface {
	// Chat routes one message through notification, intent and completion handling
	// and returns the reply together with the resolved session id.
	Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)

	// ClearSession drops the stored history of a session
	ClearSession(sessionID string)
}
