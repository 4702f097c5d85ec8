package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"projectmap/services"
)

var ErrSessionNotFound = errors.New("session not found")

// sessionEntry serializes access to one Session, which is single-threaded.
type sessionEntry struct {
	mu      sync.Mutex
	session *services.Session
}

// SessionStore keeps browsing sessions in memory and expires idle ones.
type SessionStore struct {
	sessions *cache.Cache
	provider services.CatalogProvider
	settings services.ViewSettings
}

// NewSessionStore creates a store whose sessions read from provider.
func NewSessionStore(provider services.CatalogProvider, settings services.ViewSettings, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: cache.New(ttl, ttl/2),
		provider: provider,
		settings: settings,
	}
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create() string {
	id := uuid.NewString()
	s.sessions.SetDefault(id, &sessionEntry{session: services.NewSession(s.provider, s.settings)})
	return id
}

// With runs fn on the session while holding its lock. Each access extends
// the session's lifetime.
func (s *SessionStore) With(id string, fn func(*services.Session) error) error {
	v, ok := s.sessions.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	entry := v.(*sessionEntry)
	s.sessions.SetDefault(id, entry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.sessions.ItemCount()
}
