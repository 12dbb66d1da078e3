// Package session keeps per-user conversational state, such as a receipt
// waiting for the user's confirmation.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caixa-dev/caixa/internal/model"
)

// DefaultTTL is how long pending state survives without a reply.
const DefaultTTL = 15 * time.Minute

// State is a receipt awaiting confirmation.
type State struct {
	Code        string
	Receipt     model.Receipt
	Transaction model.Transaction
	CreatedAt   time.Time
}

// Store holds at most one State per user.
type Store interface {
	Get(userID int64) (State, bool)
	Put(userID int64, st State)
	Clear(userID int64)
}

// NewCode returns a fresh confirmation code.
func NewCode() string {
	return uuid.NewString()
}

// Memory is an in-process Store whose entries expire after a TTL. State does
// not survive restarts.
type Memory struct {
	mu      sync.Mutex
	entries map[int64]State
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates a Memory store. ttl <= 0 uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{entries: make(map[int64]State), ttl: ttl, now: time.Now}
}

// Get returns the user's pending state unless it has expired.
func (m *Memory) Get(userID int64) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.entries[userID]
	if !ok {
		return State{}, false
	}
	if m.expired(st) {
		delete(m.entries, userID)
		return State{}, false
	}
	return st, true
}

// Put stores st for userID, replacing any previous state. A missing code or
// creation time is filled in.
func (m *Memory) Put(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.Code == "" {
		st.Code = NewCode()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = m.now()
	}
	m.entries[userID] = st
}

// Clear drops the user's state.
func (m *Memory) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

// Sweep drops every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, st := range m.entries {
		if m.expired(st) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) expired(st State) bool {
	return m.now().Sub(st.CreatedAt) > m.ttl
}
