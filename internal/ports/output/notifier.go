package output

import (
	"context"

	"support-relay/internal/domain"
)

// Notifier interface - Output port
// A transport that forwards a support request to a human (mail, LINE push, ticket log).
type Notifier interface {
	// Name identifies the transport in logs and metrics
	Name() string

	// Notify delivers the request. It must honor ctx cancellation.
	Notify(ctx context.Context, request domain.SupportRequest) error
}
