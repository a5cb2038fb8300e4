package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"plesir/internal/memory"
)

// ErrNotFound reports a session id with no live session.
var ErrNotFound = errors.New("session not found")

// Session holds one client's conversation state. Transcripts are never
// shared across sessions.
type Session struct {
	ID         string
	Transcript *memory.Transcript
	CreatedAt  time.Time

	mu           sync.Mutex
	lastActivity time.Time
}

// Touch records activity, deferring idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// LastActivity returns the time of the most recent Touch.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Manager owns the set of live sessions and evicts the ones idle past
// the configured timeout.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	timeout  time.Duration
	done     chan struct{}
	onCount  func(n int)
}

// NewManager creates a session manager. onCount, when non-nil, is
// invoked with the live session count after every change (used to feed
// the active-sessions gauge).
func NewManager(timeout time.Duration, onCount func(n int)) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		done:     make(chan struct{}),
		onCount:  onCount,
	}
	go m.cleanupLoop()
	return m
}

// Create starts a fresh session with an empty transcript.
func (m *Manager) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:           uuid.NewString(),
		Transcript:   memory.New(),
		CreatedAt:    now,
		lastActivity: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.notify(n)
	return s
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			s.Touch()
			return s
		}
	}
	return m.Create()
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup loop.
func (m *Manager) Close() { close(m.done) }

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.expireIdle()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) expireIdle() {
	cutoff := time.Now().Add(-m.timeout)
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActivity().Before(cutoff) {
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	m.notify(n)
}

func (m *Manager) notify(n int) {
	if m.onCount != nil {
		m.onCount(n)
	}
}
