package repository

import (
	"context"
	"sync"
	"time"

	"github.com/passkeep/passkeep-go/internal/model"
)

type sessionEntry struct {
	raw      string
	lastSeen time.Time
}

// SessionStore keeps one service list per client session in memory.
// Sessions idle longer than the TTL are dropped.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewSessionStore creates a SessionStore and starts its expiry sweep.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go s.cleanup(ttl / 4)
	return s
}

// Close stops the expiry sweep.
func (s *SessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

// Bind returns the tier adapter for a single session.
func (s *SessionStore) Bind(sessionID string) Backend {
	return &sessionBackend{store: s, id: sessionID}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) get(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ""
	}
	if s.now().Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return ""
	}
	e.lastSeen = s.now()
	return e.raw
}

func (s *SessionStore) put(id, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &sessionEntry{raw: raw, lastSeen: s.now()}
}

func (s *SessionStore) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if s.now().Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) cleanup(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expire()
		case <-s.done:
			return
		}
	}
}

type sessionBackend struct {
	store *SessionStore
	id    string
}

func (b *sessionBackend) Name() string { return "session" }

func (b *sessionBackend) Read(_ context.Context) []model.StoredService {
	return decodeServices(b.Name(), b.store.get(b.id))
}

func (b *sessionBackend) Write(_ context.Context, services []model.StoredService) error {
	raw, err := encodeServices(services)
	if err != nil {
		return err
	}
	b.store.put(b.id, raw)
	return nil
}
