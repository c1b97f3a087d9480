package oauth

import (
	"sync"
	"time"

	"linkmcp/pkg/logging"
)

// AuthCodeStore provides thread-safe storage for authorization codes minted
// after a successful upstream exchange. Codes are single-use: Redeem marks
// a code used under the store lock so concurrent redemptions cannot both
// succeed.
type AuthCodeStore struct {
	mu    sync.RWMutex
	codes map[string]*AuthCode

	ttl time.Duration
	now func() time.Time
}

// NewAuthCodeStore creates an authorization code store whose entries expire
// after ttl.
func NewAuthCodeStore(ttl time.Duration) *AuthCodeStore {
	return &AuthCodeStore{
		codes: make(map[string]*AuthCode),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores an authorization code, stamping its creation time.
func (cs *AuthCodeStore) Put(code string, ac *AuthCode) {
	ac.CreatedAt = cs.now()

	cs.mu.Lock()
	cs.codes[code] = ac
	cs.mu.Unlock()

	logging.Debug("OAuth", "Stored authorization code %s for client=%s", logging.TruncateToken(code), ac.ClientID)
}

// Redeem looks up a code and atomically marks it used. Unknown, expired and
// already-used codes all fail the same way. The entry stays in the store
// until swept so a second redemption attempt is recognized as a replay
// rather than an unknown code.
func (cs *AuthCodeStore) Redeem(code string) (*AuthCode, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	ac, ok := cs.codes[code]
	if !ok {
		return nil, false
	}
	if ac.used {
		logging.Warn("OAuth", "Authorization code replay: %s", logging.TruncateToken(code))
		return nil, false
	}
	if cs.now().Sub(ac.CreatedAt) > cs.ttl {
		return nil, false
	}

	ac.used = true
	return ac, true
}

// Len reports the number of stored codes, including used and expired ones
// not yet swept.
func (cs *AuthCodeStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.codes)
}

// SweepExpired removes all expired codes and returns how many were removed.
// Used codes are kept until they expire.
func (cs *AuthCodeStore) SweepExpired() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	count := 0
	for code, ac := range cs.codes {
		if cs.now().Sub(ac.CreatedAt) > cs.ttl {
			delete(cs.codes, code)
			count++
		}
	}
	return count
}
