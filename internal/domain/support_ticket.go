package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupportTicket struct - Persisted record of a message forwarded to the support team
type SupportTicket struct {
	ID        *uuid.UUID `gorm:"type:uuid;primary_key;"`
	SessionID string     `gorm:"type:TEXT;not null;index"`
	Channel   string     `gorm:"type:varchar(20);not null;"`
	Message   string     `gorm:"type:TEXT;not null;"`
	CreatedAt *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (t *SupportTicket) TableName() string {
	return "support_tickets"
}

// BeforeCreate hook - generates UUID before creating
func (t *SupportTicket) BeforeCreate(tx *gorm.DB) (err error) {
	id, err := uuid.NewRandom() // v4
	if err != nil {
		return err
	}
	t.ID = &id
	return nil
}

// NewSupportTicket builds a ticket from a support request
func NewSupportTicket(request SupportRequest) *SupportTicket {
	createdAt := request.RequestedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &SupportTicket{
		SessionID: request.SessionID,
		Channel:   string(request.Channel),
		Message:   request.Message,
		CreatedAt: &createdAt,
	}
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	if db == nil {
		return ErrDatabaseUnavailable
	}
	return db.AutoMigrate(&SupportTicket{})
}
