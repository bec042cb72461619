package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/passkeep/passkeep-go/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() unexpected error: %v", err)
	}
	return db
}

func TestNewDBUnsupportedDriver(t *testing.T) {
	if _, err := NewDB("postgres", "dsn"); err == nil {
		t.Fatal("NewDB() expected error for unsupported driver")
	}
}

func TestSQLStoreReadEmpty(t *testing.T) {
	store := NewSQLStore(newTestDB(t))

	if got := store.Read(context.Background()); got != nil {
		t.Errorf("Read() = %v, want nil", got)
	}
}

func TestSQLStoreWriteOverwrites(t *testing.T) {
	store := NewSQLStore(newTestDB(t))
	ctx := context.Background()

	if err := store.Write(ctx, []model.StoredService{svc("A", "1")}); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	want := []model.StoredService{svc("B", "2"), svc("C", "3")}
	if err := store.Write(ctx, want); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	if diff := cmp.Diff(want, store.Read(ctx)); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLStoreCorruptReadsEmpty(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLStore(db)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, putQuery, StorageKey, "[{broken"); err != nil {
		t.Fatalf("ExecContext() unexpected error: %v", err)
	}

	if got := store.Read(ctx); got != nil {
		t.Errorf("Read() = %v, want nil for corrupt content", got)
	}
}

func TestSQLStoreEnsureSchemaIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() second call unexpected error: %v", err)
	}
}

// slowStore delays reads the way a networked database would.
type slowStore struct {
	*SQLStore
}

func (s slowStore) Read(ctx context.Context) []model.StoredService {
	services := s.SQLStore.Read(ctx)
	time.Sleep(time.Millisecond)
	return services
}

func TestTiersConcurrentUpsertsKeepEveryEntry(t *testing.T) {
	sessions := NewSessionStore(time.Hour)
	defer sessions.Close()
	durable := NewSQLStore(newTestDB(t))
	tiers := NewTiers(slowStore{durable}, sessions)

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			store := tiers.For(httptest.NewRecorder(), req, fmt.Sprintf("s%d", i))
			if _, err := store.Upsert(context.Background(), svc(fmt.Sprintf("svc-%d", i), "p")); err != nil {
				t.Errorf("Upsert() unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(durable.Read(context.Background())); got != n {
		t.Errorf("durable holds %d entries, want %d", got, n)
	}
}
