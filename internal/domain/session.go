package domain

import "time"

// DefaultMaxTurns is the history window used when none is configured
const DefaultMaxTurns = 10

// Session represents a bounded conversation history keyed by an opaque identifier
type Session struct {
	ID             string    // Client-held session identifier
	Turns          []Turn    // Conversation history, oldest first
	CreatedAt      time.Time // First append
	LastAccessTime time.Time // Last append
	maxTurns       int       // History window size
}

// NewSession creates an empty session keeping at most maxTurns turns.
// A non-positive maxTurns falls back to DefaultMaxTurns.
func NewSession(id string, maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	now := time.Now()
	return &Session{
		ID:             id,
		Turns:          make([]Turn, 0, maxTurns),
		CreatedAt:      now,
		LastAccessTime: now,
		maxTurns:       maxTurns,
	}
}

// MaxTurns returns the history window size
func (s *Session) MaxTurns() int {
	return s.maxTurns
}

// Append adds turns in order and drops the oldest ones beyond the window
func (s *Session) Append(turns ...Turn) {
	s.Turns = append(s.Turns, turns...)
	s.Turns = TrimHistory(s.Turns, s.maxTurns)
	s.LastAccessTime = time.Now()
}

// GetHistory returns a copy of the conversation history
func (s *Session) GetHistory() []Turn {
	if len(s.Turns) == 0 {
		return []Turn{}
	}

	history := make([]Turn, len(s.Turns))
	copy(history, s.Turns)
	return history
}

// TrimHistory keeps the most recent max turns. The returned slice does not
// share its backing array with the input when trimming happens.
func TrimHistory(turns []Turn, max int) []Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	trimmed := make([]Turn, max)
	copy(trimmed, turns[len(turns)-max:])
	return trimmed
}
