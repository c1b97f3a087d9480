package oauth

import (
	"sync"
	"time"

	"linkmcp/pkg/logging"
)

// SessionStore provides thread-safe storage for authenticated sessions.
// A session holds the upstream credentials bound to the subject of an
// issued access token.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl time.Duration
	now func() time.Time
}

// NewSessionStore creates a session store whose entries expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores a session under the given subject, stamping its creation time.
func (ss *SessionStore) Put(subject string, s *Session) {
	s.CreatedAt = ss.now()

	ss.mu.Lock()
	ss.sessions[subject] = s
	ss.mu.Unlock()

	logging.Debug("OAuth", "Stored session for subject=%s", subject)
}

// Get returns the session for the given subject. Expired sessions are
// treated as absent.
func (ss *SessionStore) Get(subject string) (*Session, bool) {
	ss.mu.RLock()
	s, ok := ss.sessions[subject]
	ss.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if ss.now().Sub(s.CreatedAt) > ss.ttl {
		return nil, false
	}
	return s, true
}

// Delete removes a session from the store.
func (ss *SessionStore) Delete(subject string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, subject)
}

// Len reports the number of stored sessions, including expired ones not
// yet swept.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// SweepExpired removes all expired sessions and returns how many were
// removed.
func (ss *SessionStore) SweepExpired() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	count := 0
	for subject, s := range ss.sessions {
		if ss.now().Sub(s.CreatedAt) > ss.ttl {
			delete(ss.sessions, subject)
			count++
		}
	}
	return count
}
