// Package session holds per-session state: the chat transcript and the
// session-scoped query cache. Caches are never shared across sessions, so one
// operator's filter results cannot leak into another's.
package session

import (
	"sync"

	"github.com/google/uuid"

	"retailpulse/cache"
	"retailpulse/models"
)

// DefaultID is used when a request carries no session header.
const DefaultID = "default"

// Session is one operator session. The transcript is append-only until
// cleared and is never persisted across process restarts.
type Session struct {
	ID    string
	Cache *cache.QueryCache

	mu         sync.RWMutex
	transcript []models.Turn

	// turnMu serializes chat turns: the next submission blocks until the
	// in-flight agent call and re-render finish.
	turnMu sync.Mutex
}

func newSession(id string) *Session {
	return &Session{
		ID:    id,
		Cache: cache.New(),
	}
}

// Transcript returns a snapshot of the turns in append order.
func (s *Session) Transcript() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]models.Turn, len(s.transcript))
	copy(turns, s.transcript)
	return turns
}

func (s *Session) Append(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turn)
}

// Clear truncates the transcript. No warehouse calls are made.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

func (s *Session) LockTurn() {
	s.turnMu.Lock()
}

func (s *Session) UnlockTurn() {
	s.turnMu.Unlock()
}

// Store is the process-wide registry of live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create mints a new session with a fresh id.
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := newSession(uuid.New().String())
	st.sessions[sess.ID] = sess
	return sess
}

// GetOrCreate resolves id to its session, lazily creating one for unknown
// ids. An empty id maps to the default session.
func (st *Store) GetOrCreate(id string) *Session {
	if id == "" {
		id = DefaultID
	}

	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess = newSession(id)
	st.sessions[id] = sess
	return sess
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
