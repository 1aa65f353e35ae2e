package output

import (
	"context"

	"support-relay/internal/domain"
)

// SupportTicketRepository interface - Output port
// Defines what the application needs to keep a log of forwarded support requests
type SupportTicketRepository interface {
	CreateTicket(ctx context.Context, ticket *domain.SupportTicket) error
}
