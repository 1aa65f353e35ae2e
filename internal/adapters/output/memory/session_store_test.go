package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"support-relay/internal/domain"

	"github.com/google/uuid"
)

// Default test configuration values
const testMaxTurns = 10

const testSessionID = "7d7f2f0c-1b7a-4d53-9d6c-1f1f7c7a2b10"

// TestNewMemorySessionStoreAppliesDefaultMaxTurns tests the zero-value fallback
func TestNewMemorySessionStoreAppliesDefaultMaxTurns(t *testing.T) {
	store := NewMemorySessionStore(0)

	if store.GetMaxTurns() != domain.DefaultMaxTurns {
		t.Errorf("expected maxTurns %d, got %d", domain.DefaultMaxTurns, store.GetMaxTurns())
	}

	store = NewMemorySessionStore(4)
	if store.GetMaxTurns() != 4 {
		t.Errorf("expected maxTurns 4, got %d", store.GetMaxTurns())
	}
}

// TestGetReturnsEmptyHistoryForUnknownSession tests that Get never returns nil
func TestGetReturnsEmptyHistoryForUnknownSession(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)

	history := store.Get("non-existent-session")

	if history == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d turns", len(history))
	}
	if store.Len() != 0 {
		t.Errorf("expected Get not to create a session, store has %d", store.Len())
	}
}

// TestAppendCreatesSession tests that Append creates a session on first use
func TestAppendCreatesSession(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)

	store.Append(testSessionID, domain.UserTurn("Hello"), domain.AssistantTurn("Hi there!"))

	history := store.Get(testSessionID)
	if len(history) != 2 {
		t.Fatalf("expected 2 turns in history, got %d", len(history))
	}
	if history[0].Content != "Hello" || history[1].Content != "Hi there!" {
		t.Errorf("unexpected history: %v", history)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

// TestAppendEnforcesWindow tests that more than maxTurns turns keeps exactly the most recent ones in order
func TestAppendEnforcesWindow(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)

	for i := 0; i < 14; i++ {
		store.Append(testSessionID, domain.UserTurn(fmt.Sprintf("message %d", i)))
	}

	history := store.Get(testSessionID)
	if len(history) != testMaxTurns {
		t.Fatalf("expected %d turns, got %d", testMaxTurns, len(history))
	}
	for i, turn := range history {
		expected := fmt.Sprintf("message %d", i+4)
		if turn.Content != expected {
			t.Errorf("position %d: expected %q, got %q", i, expected, turn.Content)
		}
	}
}

// TestGetReturnsCopy tests that mutating returned history does not touch the store
func TestGetReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)
	store.Append(testSessionID, domain.UserTurn("original"))

	history := store.Get(testSessionID)
	history[0].Content = "mutated"

	if got := store.Get(testSessionID)[0].Content; got != "original" {
		t.Errorf("expected stored content 'original', got %q", got)
	}
}

// TestAllocateReturnsUniqueIDs tests that allocated ids are valid, non-empty and unseen
func TestAllocateReturnsUniqueIDs(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		id, err := store.Allocate()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id == "" {
			t.Fatal("expected non-empty id")
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected a UUID, got %q: %v", id, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

// TestClearRemovesSession tests that Clear removes a session and is idempotent
func TestClearRemovesSession(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)
	store.Append(testSessionID, domain.UserTurn("Hello"))

	store.Clear(testSessionID)
	store.Clear(testSessionID)
	store.Clear("non-existent-session")

	if len(store.Get(testSessionID)) != 0 {
		t.Error("expected empty history after Clear")
	}
	if store.Len() != 0 {
		t.Errorf("expected no sessions, got %d", store.Len())
	}
}

// TestAcquireSerializesSameSession tests that read-modify-write under Acquire never loses updates
func TestAcquireSerializesSameSession(t *testing.T) {
	store := NewMemorySessionStore(1000)
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := store.Acquire(testSessionID)
			defer release()

			before := len(store.Get(testSessionID))
			time.Sleep(time.Millisecond)
			store.Append(testSessionID, domain.UserTurn(fmt.Sprintf("u%d", i)))
			if after := len(store.Get(testSessionID)); after != before+1 {
				t.Errorf("expected %d turns after append, got %d", before+1, after)
			}
		}(i)
	}
	wg.Wait()

	if got := len(store.Get(testSessionID)); got != workers {
		t.Errorf("expected %d turns, got %d", workers, got)
	}
	if store.lanes.size() != 0 {
		t.Errorf("expected lanes to be released, %d left", store.lanes.size())
	}
}

// TestAcquireDoesNotBlockOtherSessions tests that a held lane leaves other ids free
func TestAcquireDoesNotBlockOtherSessions(t *testing.T) {
	store := NewMemorySessionStore(testMaxTurns)

	release := store.Acquire("session-a")
	defer release()

	done := make(chan struct{})
	go func() {
		releaseB := store.Acquire("session-b")
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected session-b to be acquired while session-a is held")
	}
}
