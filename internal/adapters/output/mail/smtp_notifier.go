package mail

import (
	"context"
	"errors"
	"fmt"

	"support-relay/configs"
	"support-relay/internal/domain"
	"support-relay/internal/ports/output"

	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

// Compile-time check to ensure SMTPNotifier implements Notifier interface
var _ output.Notifier = (*SMTPNotifier)(nil)

const subject = "New Customer Support Request"

// ErrNotConfigured is returned when sender credentials are missing
var ErrNotConfigured = errors.New("smtp notifier is not configured")

// sender delivers a composed message
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPNotifier struct - Output adapter mailing support requests to the support inbox
type SMTPNotifier struct {
	from      string
	recipient string
	client    sender
}

// NewSMTPNotifier func - Creates new SMTP notifier. Mail goes to the recipient,
// or back to the sender mailbox when no recipient is set.
func NewSMTPNotifier(smtp configs.SMTP, support configs.Support) (*SMTPNotifier, error) {
	if support.Email == "" || support.EmailPassword == "" {
		return nil, ErrNotConfigured
	}

	client, err := gomail.NewClient(smtp.Host,
		gomail.WithPort(smtp.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(support.Email),
		gomail.WithPassword(support.EmailPassword),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	recipient := support.Recipient
	if recipient == "" {
		recipient = support.Email
	}

	logrus.Infof("SMTP notifier initialized with host: %s:%d, recipient: %s", smtp.Host, smtp.Port, recipient)

	return &SMTPNotifier{
		from:      support.Email,
		recipient: recipient,
		client:    client,
	}, nil
}

// Name identifies the transport
func (n *SMTPNotifier) Name() string {
	return "smtp"
}

// Notify mails the request to the support inbox
func (n *SMTPNotifier) Notify(ctx context.Context, request domain.SupportRequest) error {
	msg, err := n.compose(request)
	if err != nil {
		return err
	}
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send support mail: %w", err)
	}
	return nil
}

// compose builds the outgoing plain-text message
func (n *SMTPNotifier) compose(request domain.SupportRequest) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, FormatBody(request))
	return msg, nil
}

// FormatBody renders the mail body
func FormatBody(request domain.SupportRequest) string {
	return fmt.Sprintf("User message:\n\n%s\n\nSession: %s\nChannel: %s\nReceived: %s\n",
		request.Message,
		request.SessionID,
		request.Channel,
		request.RequestedAt.Format("2006-01-02 15:04:05 MST"),
	)
}
