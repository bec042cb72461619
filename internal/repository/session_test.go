package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/passkeep/passkeep-go/internal/model"
)

func TestSessionStoreIsolatesSessions(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	a, b := s.Bind("a"), s.Bind("b")
	want := []model.StoredService{svc("A", "1")}
	if err := a.Write(ctx, want); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	if diff := cmp.Diff(want, a.Read(ctx)); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
	if got := b.Read(ctx); got != nil {
		t.Errorf("other session Read() = %v, want nil", got)
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	if err := s.Bind("a").Write(ctx, []model.StoredService{svc("A", "1")}); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	now = now.Add(2 * time.Hour)
	if got := s.Bind("a").Read(ctx); got != nil {
		t.Errorf("Read() after expiry = %v, want nil", got)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after expiry = %d, want 0", s.Len())
	}
}

func TestSessionStoreSweep(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }
	s.put("a", "[]")
	s.put("b", "[]")

	now = now.Add(30 * time.Minute)
	s.get("b")
	now = now.Add(45 * time.Minute)
	s.expire()

	if s.Len() != 1 {
		t.Errorf("Len() after sweep = %d, want 1", s.Len())
	}
}

func TestSessionStoreCloseTwice(t *testing.T) {
	s := NewSessionStore(time.Hour)
	s.Close()
	s.Close()
}
