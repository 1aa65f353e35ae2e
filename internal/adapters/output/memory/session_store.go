package memory

import (
	"fmt"
	"sync"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"

	"github.com/google/uuid"
)

// Compile-time check to ensure MemorySessionStore implements SessionStore interface
var _ output.SessionStore = (*MemorySessionStore)(nil)

// maxAllocateAttempts bounds id re-rolls on collision
const maxAllocateAttempts = 5

// MemorySessionStore struct - Output adapter for in-memory session storage.
// Sessions live until the process exits or Clear is called.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	maxTurns int
	lanes    *laneLock
}

// NewMemorySessionStore creates a new in-memory session store.
// maxTurns: Maximum number of turns kept per session (0 means domain.DefaultMaxTurns)
func NewMemorySessionStore(maxTurns int) *MemorySessionStore {
	if maxTurns <= 0 {
		maxTurns = domain.DefaultMaxTurns
	}
	return &MemorySessionStore{
		sessions: make(map[string]*domain.Session),
		maxTurns: maxTurns,
		lanes:    newLaneLock(),
	}
}

// GetMaxTurns returns the configured history window
func (m *MemorySessionStore) GetMaxTurns() int {
	return m.maxTurns
}

// Get returns a copy of the session history, empty for unknown ids
func (m *MemorySessionStore) Get(sessionID string) []domain.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return []domain.Turn{}
	}
	return session.GetHistory()
}

// Append adds turns to a session, creating it on first use
func (m *MemorySessionStore) Append(sessionID string, turns ...domain.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		session = domain.NewSession(sessionID, m.maxTurns)
		m.sessions[sessionID] = session
	}
	session.Append(turns...)
}

// Allocate returns a fresh random (v4) session id
func (m *MemorySessionStore) Allocate() (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("failed to generate session id: %w", err)
		}

		m.mu.RLock()
		_, taken := m.sessions[id.String()]
		m.mu.RUnlock()
		if !taken {
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("failed to allocate unique session id after %d attempts", maxAllocateAttempts)
}

// Acquire serializes request handling for one session id
func (m *MemorySessionStore) Acquire(sessionID string) func() {
	m.lanes.acquire(sessionID)
	return func() { m.lanes.release(sessionID) }
}

// Clear removes a session. Idempotent.
func (m *MemorySessionStore) Clear(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Len returns the number of stored sessions
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
