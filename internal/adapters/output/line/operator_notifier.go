package line

import (
	"context"
	"errors"
	"fmt"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"
)

// Compile-time check to ensure OperatorNotifier implements Notifier interface
var _ output.Notifier = (*OperatorNotifier)(nil)

// OperatorNotifier pushes support requests to an operator's LINE account
type OperatorNotifier struct {
	client     output.LineClient
	operatorID string
}

// NewOperatorNotifier func - Creates new LINE operator notifier
func NewOperatorNotifier(client output.LineClient, operatorID string) *OperatorNotifier {
	return &OperatorNotifier{client: client, operatorID: operatorID}
}

// Name identifies the transport
func (n *OperatorNotifier) Name() string {
	return "line"
}

// Notify pushes the request text to the operator
func (n *OperatorNotifier) Notify(ctx context.Context, request domain.SupportRequest) error {
	if n.operatorID == "" {
		return errors.New("LINE operator user id is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.client.PushMessage(domain.LinePushMessageRequest{
		To: n.operatorID,
		Messages: []domain.LineOutgoingMessage{
			{Type: domain.LineMessageTypeText, Text: FormatOperatorMessage(request)},
		},
	})
	return err
}

// FormatOperatorMessage renders a support request for a chat screen
func FormatOperatorMessage(request domain.SupportRequest) string {
	return fmt.Sprintf("New support request\nChannel: %s\nSession: %s\nTime: %s\n\n%s",
		request.Channel,
		request.SessionID,
		request.RequestedAt.Format("2006-01-02 15:04:05"),
		request.Message,
	)
}
