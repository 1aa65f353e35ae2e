package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"support-relay/internal/domain"
	"support-relay/internal/ports/input"
	"support-relay/internal/ports/output"
	"support-relay/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure ChatService implements the input port
var _ input.ChatService = (*ChatService)(nil)

// SupportDispatcher hands a support request to the notification side effect
type SupportDispatcher interface {
	Dispatch(request domain.SupportRequest)
}

// ChatServiceConfig struct - Static inputs loaded once at startup
type ChatServiceConfig struct {
	Profile        domain.BusinessProfile
	Intents        []domain.Intent
	TriggerPhrases []string
	Acknowledgment string
	MaxTurns       int
}

// ChatService struct - Application service routing chat messages
type ChatService struct {
	sessions   output.SessionStore
	gateway    *CompletionGateway
	dispatcher SupportDispatcher
	intents    *domain.IntentMatcher
	trigger    *domain.NotificationTrigger
	profile    domain.BusinessProfile
	ack        string
	maxTurns   int
	metrics    *metrics.Collector
}

// NewChatService func - Creates new chat service
func NewChatService(
	sessions output.SessionStore,
	gateway *CompletionGateway,
	dispatcher SupportDispatcher,
	config ChatServiceConfig,
	collector *metrics.Collector,
) *ChatService {
	ack := config.Acknowledgment
	if ack == "" {
		ack = domain.DefaultAcknowledgment
	}
	maxTurns := config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = domain.DefaultMaxTurns
	}
	return &ChatService{
		sessions:   sessions,
		gateway:    gateway,
		dispatcher: dispatcher,
		intents:    domain.NewIntentMatcher(config.Intents),
		trigger:    domain.NewNotificationTrigger(config.TriggerPhrases),
		profile:    config.Profile,
		ack:        ack,
		maxTurns:   maxTurns,
		metrics:    collector,
	}
}

// Chat func - Use case: answer one inbound message.
// Order: validate, resolve session, support trigger, intents, language model.
func (s *ChatService) Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	message := strings.TrimSpace(request.Message)
	if message == "" {
		s.metrics.ObserveChat("invalid")
		return nil, domain.ErrMessageRequired
	}

	channel := request.Channel
	if channel == "" {
		channel = domain.ChannelWeb
	}

	sessionID := request.SessionID
	if sessionID == "" {
		id, err := s.sessions.Allocate()
		if err != nil {
			s.metrics.ObserveChat("error")
			return nil, fmt.Errorf("failed to allocate session: %w", err)
		}
		sessionID = id
		logrus.Debugf("Allocated session %s", sessionID)
	}

	// Diverted messages never reach the session history
	if s.trigger.ShouldNotify(message) {
		s.dispatcher.Dispatch(domain.SupportRequest{
			SessionID:   sessionID,
			Message:     message,
			Channel:     channel,
			RequestedAt: time.Now(),
		})
		s.metrics.ObserveChat(string(domain.ChatRouteNotification))
		logrus.Infof("Session %s: message forwarded to support", sessionID)
		return &domain.ChatResponse{Reply: s.ack, SessionID: sessionID, Route: domain.ChatRouteNotification}, nil
	}

	if intent, ok := s.intents.Match(message); ok {
		s.metrics.ObserveChat(string(domain.ChatRouteIntent))
		return &domain.ChatResponse{Reply: intent.Reply, SessionID: sessionID, Route: domain.ChatRouteIntent}, nil
	}

	release := s.sessions.Acquire(sessionID)
	defer release()

	history := append(s.sessions.Get(sessionID), domain.UserTurn(message))
	history = domain.TrimHistory(history, s.maxTurns)

	completion, err := s.gateway.Complete(ctx, history, s.profile)
	if err != nil {
		s.metrics.ObserveChat("error")
		logrus.Errorf("Session %s: completion failed: %v", sessionID, err)
		return nil, err
	}

	if completion.Fallback {
		s.metrics.ObserveChat("fallback")
		return &domain.ChatResponse{
			Reply:     completion.Text,
			SessionID: sessionID,
			Route:     domain.ChatRouteCompletion,
			Fallback:  true,
		}, nil
	}

	s.sessions.Append(sessionID, domain.UserTurn(message), domain.AssistantTurn(completion.Text))
	s.metrics.ObserveChat(string(domain.ChatRouteCompletion))

	return &domain.ChatResponse{Reply: completion.Text, SessionID: sessionID, Route: domain.ChatRouteCompletion}, nil
}

// ClearSession func - Use case: forget a conversation
func (s *ChatService) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)
	logrus.Infof("Session %s cleared", sessionID)
}
