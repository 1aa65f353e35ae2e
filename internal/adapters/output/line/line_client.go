package line

import (
	"errors"
	"fmt"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure LineClientAdapter implements LineClient interface
var _ output.LineClient = (*LineClientAdapter)(nil)

var errNoMessages = errors.New("no valid messages to send")

// messagingAPI is the subset of the LINE SDK used here
type messagingAPI interface {
	ReplyMessage(replyMessageRequest *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
	PushMessage(pushMessageRequest *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineClientAdapter struct - Output adapter for LINE messaging platform
type LineClientAdapter struct {
	client messagingAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}

	return &LineClientAdapter{
		client: client,
	}, nil
}

// ReplyMessage - Sends reply messages to LINE user via reply token
func (a *LineClientAdapter) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	messages := toLineMessages(request.Messages)
	if len(messages) == 0 {
		return nil, errNoMessages
	}

	_, err := a.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: request.ReplyToken,
		Messages:   messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reply message: %w", err)
	}

	logrus.Debugf("Sent LINE reply with token: %s", request.ReplyToken)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Reply message sent successfully",
	}, nil
}

// PushMessage - Sends push messages to LINE user directly
func (a *LineClientAdapter) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	messages := toLineMessages(request.Messages)
	if len(messages) == 0 {
		return nil, errNoMessages
	}

	_, err := a.client.PushMessage(&messaging_api.PushMessageRequest{
		To:       request.To,
		Messages: messages,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("failed to send push message: %w", err)
	}

	logrus.Infof("Sent LINE push message to: %s", request.To)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Push message sent successfully",
	}, nil
}

// toLineMessages converts domain messages; only text is supported outbound
func toLineMessages(in []domain.LineOutgoingMessage) []messaging_api.MessageInterface {
	messages := make([]messaging_api.MessageInterface, 0, len(in))
	for _, msg := range in {
		if msg.Type != domain.LineMessageTypeText {
			logrus.Errorf("Unsupported outbound LINE message type: %s", msg.Type)
			continue
		}
		messages = append(messages, &messaging_api.TextMessage{Text: msg.Text})
	}
	return messages
}
