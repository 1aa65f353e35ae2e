package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"support-relay/internal/domain"
	"support-relay/internal/ports/input"
	"support-relay/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure LineWebhookService implements the input port
var _ input.LineWebhookService = (*LineWebhookService)(nil)

const (
	lineMaxMessageLength = 5000
	lineErrorReply       = "Sorry, I'm having trouble processing your request right now. Please try again later."
	lineClearedReply     = "Conversation history cleared."
	lineHelpReply        = "Available commands:\n/help - Show this message\n/clear - Clear conversation history\n\nAnything else goes to our support assistant."
)

// LineWebhookService struct - Application service implementing the LINE chat channel
type LineWebhookService struct {
	lineClient  output.LineClient
	chat        input.ChatService
	companyName string
}

// NewLineWebhookService func - Creates new LINE webhook service
func NewLineWebhookService(lineClient output.LineClient, chat input.ChatService, companyName string) *LineWebhookService {
	return &LineWebhookService{
		lineClient:  lineClient,
		chat:        chat,
		companyName: companyName,
	}
}

// HandleWebhook func - Use case: Handle incoming webhook events from LINE
func (s *LineWebhookService) HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) error {
	for _, event := range request.Events {
		logrus.Infof("Received LINE event: type=%s, source=%s, userID=%s",
			event.Type, event.Source.Type, event.Source.UserID)

		switch event.Type {
		case domain.LineEventTypeMessage:
			if err := s.handleMessageEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle message event: %v", err)
				return err
			}

		case domain.LineEventTypeFollow:
			if err := s.handleFollowEvent(event); err != nil {
				logrus.Errorf("Failed to handle follow event: %v", err)
				return err
			}

		case domain.LineEventTypeUnfollow:
			s.chat.ClearSession(event.Source.SessionKey())
			logrus.Infof("User unfollowed: userID=%s", event.Source.UserID)

		default:
			logrus.Infof("Unhandled event type: %s", event.Type)
		}
	}

	return nil
}

// handleMessageEvent - Business logic for message events
func (s *LineWebhookService) handleMessageEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	if event.Message == nil {
		return nil
	}

	if event.Message.Type != domain.LineMessageTypeText {
		logrus.Infof("Ignoring non-text message: type=%s", event.Message.Type)
		return nil
	}

	text := strings.TrimSpace(event.Message.Text)
	sessionID := event.Source.SessionKey()

	var reply string
	if strings.HasPrefix(text, "/") {
		reply = s.handleCommand(text, sessionID)
	} else {
		reply = s.answer(ctx, text, sessionID)
	}

	if reply == "" || event.ReplyToken == "" {
		return nil
	}

	replyReq := domain.LineReplyMessageRequest{
		ReplyToken: event.ReplyToken,
		Messages: []domain.LineOutgoingMessage{
			{Type: domain.LineMessageTypeText, Text: truncate(reply, lineMaxMessageLength)},
		},
	}
	if _, err := s.lineClient.ReplyMessage(replyReq); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

// answer runs the message through the chat service. Failures become a friendly apology.
func (s *LineWebhookService) answer(ctx context.Context, text, sessionID string) string {
	response, err := s.chat.Chat(ctx, domain.ChatRequest{
		Message:   text,
		SessionID: sessionID,
		Channel:   domain.ChannelLine,
	})
	if errors.Is(err, domain.ErrMessageRequired) {
		return ""
	}
	if err != nil {
		logrus.Errorf("Chat failed for LINE session %s: %v", sessionID, err)
		return lineErrorReply
	}
	return response.Reply
}

// handleCommand - Business logic for command processing
func (s *LineWebhookService) handleCommand(text, sessionID string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		return lineHelpReply
	case "/clear":
		s.chat.ClearSession(sessionID)
		return lineClearedReply
	default:
		return fmt.Sprintf("Unknown command: %s\nType /help for available commands", command)
	}
}

// handleFollowEvent - Business logic for follow events
func (s *LineWebhookService) handleFollowEvent(event domain.LineWebhookEvent) error {
	logrus.Infof("User followed: userID=%s", event.Source.UserID)

	welcomeMsg := domain.LinePushMessageRequest{
		To: event.Source.UserID,
		Messages: []domain.LineOutgoingMessage{
			{
				Type: domain.LineMessageTypeText,
				Text: fmt.Sprintf("Welcome to %s support! Ask us anything.\n\nType /help to see available commands.", s.companyName),
			},
		},
	}

	if _, err := s.lineClient.PushMessage(welcomeMsg); err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	return nil
}

// truncate cuts s to at most max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
