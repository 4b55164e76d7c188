package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL matches the original one-day session lifetime.
const DefaultSessionTTL = 24 * time.Hour

type session struct {
	username string
	expires  time.Time
}

// Sessions is an in-memory token store with absolute expiry. Safe for
// concurrent use.
type Sessions struct {
	mu      sync.RWMutex
	ttl     time.Duration
	byToken map[string]session
	now     func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:     ttl,
		byToken: make(map[string]session),
		now:     time.Now,
	}
}

// TTL reports the configured session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create issues a fresh opaque token for the user.
func (s *Sessions) Create(username string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = session{
		username: username,
		expires:  s.now().Add(s.ttl),
	}
	return token
}

// Lookup resolves a token to its username. Expired tokens are dropped.
func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return "", false
	}
	if s.now().After(sess.expires) {
		delete(s.byToken, token)
		return "", false
	}
	return sess.username, true
}

// Destroy invalidates a token. Unknown tokens are a no-op.
func (s *Sessions) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
