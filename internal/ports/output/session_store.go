package output

import "support-relay/internal/domain"

// SessionStore interface - Output port
// Defines what the application needs for managing conversation sessions.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Get returns a copy of the session history, or an empty slice for an unknown id.
	Get(sessionID string) []domain.Turn

	// Append adds turns to the session, creating it if needed. The history never
	// exceeds the configured window; the oldest turns are dropped first.
	Append(sessionID string, turns ...domain.Turn)

	// Allocate returns a new session id not used by any stored session.
	Allocate() (string, error)

	// Acquire serializes work on one session id. Requests for the same id run one
	// at a time, other ids are not blocked. The returned func releases the lane.
	Acquire(sessionID string) (release func())

	// Clear removes a session. Clearing an unknown id is a no-op.
	Clear(sessionID string)

	// Len returns the number of stored sessions.
	Len() int
}
