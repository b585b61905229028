package cryptoserver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

type session struct {
	scheme  string
	keySize int
	keys    Keys
	created time.Time
}

// SessionStore keeps generated key material addressable by session id until it expires.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSessionStore creates a store whose sessions expire after ttl. A ttl of
// zero keeps sessions until Delete.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Add stores keys under a new random session id and returns it.
func (s *SessionStore) Add(scheme string, keySize int, keys Keys) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = session{scheme: scheme, keySize: keySize, keys: keys, created: s.now()}
	s.mu.Unlock()
	l := logging.Logger()
	l.Debug().Str("session", id).Str("scheme", scheme).Int("keySize", keySize).Msg("session added")
	return id
}

// Get returns the keys for id if the session exists, belongs to scheme and has not expired.
func (s *SessionStore) Get(scheme, id string) (Keys, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.scheme != scheme || s.expired(sess, s.now()) {
		return nil, false
	}
	return sess.keys, true
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartCleanup removes expired sessions every interval until Stop is called.
func (s *SessionStore) StartCleanup(interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.LogEvent("session cleanup started interval=%s ttl=%s", interval, s.ttl)
	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopChan:
			logging.LogEvent("session cleanup stopped")
			return
		}
	}
}

// Stop ends the cleanup routine.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Cleanup deletes expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logging.LogEvent("cleaned up %d expired sessions, %d remaining", removed, len(s.sessions))
	}
	return removed
}

func (s *SessionStore) expired(sess session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.created) > s.ttl
}
