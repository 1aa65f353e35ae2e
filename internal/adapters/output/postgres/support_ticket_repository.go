package postgres

import (
	"context"
	"fmt"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Compile-time checks: the ticket log is both a repository and a notification transport
var (
	_ output.SupportTicketRepository = (*SupportTicketRepository)(nil)
	_ output.Notifier                = (*SupportTicketRepository)(nil)
)

// SupportTicketRepository struct - Secondary/Driven adapter for PostgreSQL
type SupportTicketRepository struct {
	dbGorm *gorm.DB
}

// NewSupportTicketRepository func - Creates new PostgreSQL repository and migrates its table
func NewSupportTicketRepository(dbGorm *gorm.DB) (*SupportTicketRepository, error) {
	logrus.Info("Migrate database ...")
	if err := domain.MigrateDatabase(dbGorm); err != nil {
		return nil, fmt.Errorf("failed to migrate support tickets: %w", err)
	}
	return &SupportTicketRepository{
		dbGorm: dbGorm,
	}, nil
}

// CreateTicket func - Inserts a ticket
func (p *SupportTicketRepository) CreateTicket(ctx context.Context, ticket *domain.SupportTicket) error {
	if err := p.dbGorm.WithContext(ctx).Create(ticket).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// Name identifies the transport
func (p *SupportTicketRepository) Name() string {
	return "ticket"
}

// Notify records the support request as a ticket
func (p *SupportTicketRepository) Notify(ctx context.Context, request domain.SupportRequest) error {
	return p.CreateTicket(ctx, domain.NewSupportTicket(request))
}
