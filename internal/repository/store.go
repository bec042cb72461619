package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/passkeep/passkeep-go/internal/model"
)

// ErrPartialWrite marks a write that at least one tier rejected.
var ErrPartialWrite = errors.New("storage tier write failed")

// Store replicates the service list across tiers. Reads take the first
// non-empty tier in precedence order; writes go to every tier.
// Writes are not atomic across tiers: a failing tier is left behind while
// the others are updated.
type Store struct {
	backends []Backend
	mu       *sync.Mutex
}

// NewStore creates a Store over backends, highest read precedence first.
func NewStore(backends ...Backend) *Store {
	return &Store{backends: backends, mu: &sync.Mutex{}}
}

// ReadAny returns the list from the first tier holding at least one entry.
func (s *Store) ReadAny(ctx context.Context) []model.StoredService {
	for _, b := range s.backends {
		if services := b.Read(ctx); len(services) > 0 {
			return services
		}
	}
	return []model.StoredService{}
}

// WriteAll writes services to every tier, continuing past failures.
func (s *Store) WriteAll(ctx context.Context, services []model.StoredService) error {
	var errs []error
	for _, b := range s.backends {
		if err := b.Write(ctx, services); err != nil {
			slog.Warn("storage tier write failed", "tier", b.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPartialWrite, errors.Join(errs...))
}

// Modify reads the current list, applies fn and writes the result to every
// tier while holding the store lock. An error from fn aborts without writing.
// A write error wraps ErrPartialWrite and comes with the new list.
func (s *Store) Modify(ctx context.Context, fn func([]model.StoredService) ([]model.StoredService, error)) ([]model.StoredService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.ReadAny(ctx))
	if err != nil {
		return nil, err
	}
	return next, s.WriteAll(ctx, next)
}

// Upsert replaces the entry with the same name or appends svc, then writes
// the result to every tier.
func (s *Store) Upsert(ctx context.Context, svc model.StoredService) ([]model.StoredService, error) {
	return s.Modify(ctx, func(current []model.StoredService) ([]model.StoredService, error) {
		return upsert(current, svc), nil
	})
}

// Remove drops the entry named name and writes the remainder to every tier.
func (s *Store) Remove(ctx context.Context, name string) ([]model.StoredService, error) {
	return s.Modify(ctx, func(current []model.StoredService) ([]model.StoredService, error) {
		return remove(current, name), nil
	})
}

func upsert(current []model.StoredService, svc model.StoredService) []model.StoredService {
	for i := range current {
		if current[i].ServiceName == svc.ServiceName {
			current[i] = svc
			return current
		}
	}
	return append(current, svc)
}

func remove(current []model.StoredService, name string) []model.StoredService {
	next := make([]model.StoredService, 0, len(current))
	for _, svc := range current {
		if svc.ServiceName != name {
			next = append(next, svc)
		}
	}
	return next
}

// Tiers holds the long-lived tiers and assembles a Store per HTTP exchange.
// Every Store it builds shares one lock, since they all write the same
// durable row.
type Tiers struct {
	durable  Backend
	sessions *SessionStore
	mu       sync.Mutex
}

// NewTiers creates Tiers from the durable backend and the session store.
func NewTiers(durable Backend, sessions *SessionStore) *Tiers {
	return &Tiers{durable: durable, sessions: sessions}
}

// For returns the Store for one exchange: durable, then session, then cookie.
func (t *Tiers) For(w http.ResponseWriter, r *http.Request, sessionID string) *Store {
	return &Store{
		backends: []Backend{
			t.durable,
			t.sessions.Bind(sessionID),
			NewCookieBackend(w, r),
		},
		mu: &t.mu,
	}
}
