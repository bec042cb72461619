package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/repository"
	"github.com/passkeep/passkeep-go/internal/service"
)

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	durable  *repository.SQLStore
	sessions *repository.SessionStore
	fail     atomic.Bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() unexpected error: %v", err)
	}

	env := &testEnv{
		durable:  repository.NewSQLStore(db),
		sessions: repository.NewSessionStore(time.Hour),
	}
	backend := service.BackendFunc(func(context.Context) error {
		if env.fail.Load() {
			return service.ErrServiceUnavailable
		}
		return nil
	})

	env.server = httptest.NewServer(NewRouter(RouterConfig{
		Tiers:          repository.NewTiers(env.durable, env.sessions),
		Backend:        backend,
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}))

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() unexpected error: %v", err)
	}
	env.client = &http.Client{Jar: jar}

	t.Cleanup(func() {
		env.server.Close()
		env.sessions.Close()
		db.Close()
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, b
}

func decodeList(t *testing.T, b []byte) []model.StoredService {
	t.Helper()
	var list []model.StoredService
	if err := json.Unmarshal(b, &list); err != nil {
		t.Fatalf("decoding %q: %v", b, err)
	}
	return list
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}

func TestHandleGenerate(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/generate", `{"length":8,"digits":true,"symbols":false,"lower":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var gen model.GenerateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if gen.Length != 8 || len(gen.Password) != 8 {
		t.Errorf("unexpected response %+v", gen)
	}
	for _, c := range gen.Password {
		if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", c) {
			t.Errorf("unexpected character %q", c)
		}
	}
}

func TestHandleGenerateEmptyBody(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/generate", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandleGenerateErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"no pools", `{"lower":false,"digits":false,"symbols":false}`, http.StatusBadRequest},
		{"bad letter case", `{"letterCase":"title"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/v1/generate", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestServicesLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/services", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if got := decodeList(t, body); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"Netflix","servicePassword":"p1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, body)
	}
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"My Mail/Work","servicePassword":"p2"}`)

	resp, body = env.do(t, http.MethodPut, "/api/v1/services/Netflix", `{"servicePassword":"p3"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body %s", resp.StatusCode, body)
	}

	want := []model.StoredService{
		{ServiceName: "Netflix", ServicePassword: "p3"},
		{ServiceName: "My Mail/Work", ServicePassword: "p2"},
	}
	if diff := cmp.Diff(want, env.durable.Read(context.Background())); diff != "" {
		t.Errorf("durable tier mismatch (-want +got):\n%s", diff)
	}

	resp, body = env.do(t, http.MethodDelete, "/api/v1/services/"+url.PathEscape("My Mail/Work"), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", resp.StatusCode, body)
	}
	if diff := cmp.Diff(want[:1], decodeList(t, body)); diff != "" {
		t.Errorf("delete result mismatch (-want +got):\n%s", diff)
	}
}

func TestServicesSearch(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"GitHub","servicePassword":"a"}`)
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"Netflix","servicePassword":"b"}`)

	_, body := env.do(t, http.MethodGet, "/api/v1/services?q=+git+", "")
	got := model.Names(decodeList(t, body))
	if diff := cmp.Diff([]string{"GitHub"}, got); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestServicesValidation(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"Netflix","servicePassword":"p"}`)

	resp, body := env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"Netflix","servicePassword":""}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var errResp model.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if _, ok := errResp.Fields[model.FieldServiceName]; !ok {
		t.Errorf("expected serviceName error, got %v", errResp.Fields)
	}
	if _, ok := errResp.Fields[model.FieldServicePassword]; !ok {
		t.Errorf("expected servicePassword error, got %v", errResp.Fields)
	}
}

func TestServicesBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"A","servicePassword":"1"}`)
	env.fail.Store(true)

	resp, body := env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"B","servicePassword":"2"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	var errResp model.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.Fields[model.FieldGeneral] == "" {
		t.Errorf("expected general error, got %v", errResp.Fields)
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/services/A", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("delete status = %d, want 503", resp.StatusCode)
	}

	got := model.Names(env.durable.Read(context.Background()))
	if diff := cmp.Diff([]string{"A"}, got); diff != "" {
		t.Errorf("store changed on failure (-want +got):\n%s", diff)
	}
}

func TestServicesNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodDelete, "/api/v1/services/ghost", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", resp.StatusCode)
	}
	resp, _ = env.do(t, http.MethodPut, "/api/v1/services/ghost", `{"servicePassword":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("update status = %d, want 404", resp.StatusCode)
	}
}

func TestServicesCookieTierRestoresList(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/services", `{"serviceName":"Kept","servicePassword":"k"}`)

	// Wipe the durable tier and drop the session: only the cookie remains.
	if err := env.durable.Write(context.Background(), nil); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	u, _ := url.Parse(env.server.URL)
	var kept []*http.Cookie
	for _, c := range env.client.Jar.Cookies(u) {
		if c.Name == repository.StorageKey {
			kept = append(kept, c)
		}
	}
	jar, _ := cookiejar.New(nil)
	jar.SetCookies(u, kept)
	env.client.Jar = jar

	_, body := env.do(t, http.MethodGet, "/api/v1/services", "")
	if diff := cmp.Diff([]string{"Kept"}, model.Names(decodeList(t, body))); diff != "" {
		t.Errorf("cookie fallback mismatch (-want +got):\n%s", diff)
	}
}
