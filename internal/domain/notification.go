package domain

import (
	"strings"
	"time"
)

// DefaultTriggerPhrases divert a message to the support team
var DefaultTriggerPhrases = []string{"send as email", "send as mail", "project"}

// DefaultAcknowledgment is the reply sent once a message is diverted
const DefaultAcknowledgment = "I have sent your message to our support team. They will contact you soon!"

// NotificationTrigger detects messages that must be forwarded to a human
type NotificationTrigger struct {
	phrases []string
}

// NewNotificationTrigger creates a trigger. An empty phrase list uses DefaultTriggerPhrases.
func NewNotificationTrigger(phrases []string) *NotificationTrigger {
	if len(phrases) == 0 {
		phrases = DefaultTriggerPhrases
	}
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			normalized = append(normalized, p)
		}
	}
	return &NotificationTrigger{phrases: normalized}
}

// ShouldNotify reports whether message contains a trigger phrase, case-insensitive
func (t *NotificationTrigger) ShouldNotify(message string) bool {
	msg := strings.ToLower(message)
	for _, p := range t.phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// SupportRequest is handed to notification transports
type SupportRequest struct {
	SessionID   string
	Message     string
	Channel     Channel
	RequestedAt time.Time
}
