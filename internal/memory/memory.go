// Package memory holds the per-session prompt history the proxy feeds back
// to the model. It is process-local and intentionally not durable; the
// client keeps its own conversation store.
package memory

import (
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"

	// DefaultRecent is how many recent turns a prompt includes when the
	// request does not say otherwise.
	DefaultRecent = 6
)

type Item struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMemory is a thread-safe in-memory store of message history per
// session id.
type SessionMemory struct {
	mu    sync.Mutex
	store map[string][]Item
}

func New() *SessionMemory {
	return &SessionMemory{store: make(map[string][]Item)}
}

// Add appends a message to a session's history.
func (m *SessionMemory) Add(sessionID, role, text string) {
	item := Item{Role: role, Text: text, Timestamp: time.Now().UTC()}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[sessionID] = append(m.store[sessionID], item)
}

// Recent returns the last limit messages of a session in chronological
// order. A non-positive limit falls back to DefaultRecent.
func (m *SessionMemory) Recent(sessionID string, limit int) []Item {
	if limit <= 0 {
		limit = DefaultRecent
	}

	items := m.All(sessionID)
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items
}

// All returns a copy of the full session history in chronological order.
func (m *SessionMemory) All(sessionID string) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]Item, len(m.store[sessionID]))
	copy(items, m.store[sessionID])
	return items
}

// Clear drops a session's history.
func (m *SessionMemory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, sessionID)
}

// Sessions lists the session ids currently held.
func (m *SessionMemory) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.store))
	for id := range m.store {
		ids = append(ids, id)
	}
	return ids
}
