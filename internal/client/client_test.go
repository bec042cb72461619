package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/passkeep/passkeep-go/internal/model"
)

func TestClientAddService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/services" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req model.CreateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]model.StoredService{{ServiceName: req.ServiceName, ServicePassword: req.ServicePassword}})
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	got, err := c.AddService(context.Background(), "Netflix", "p")
	if err != nil {
		t.Fatalf("AddService() unexpected error: %v", err)
	}
	want := []model.StoredService{{ServiceName: "Netflix", ServicePassword: "p"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AddService() mismatch (-want +got):\n%s", diff)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(model.ErrorResponse{
			Error:  "validation failed",
			Fields: model.FieldErrors{model.FieldServiceName: "enter a service name"},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	_, err = c.AddService(context.Background(), "", "p")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Fields[model.FieldServiceName] == "" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}

func TestClientKeepsCookies(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("services"); err == nil {
			mu.Lock()
			seen = append(seen, c.Value)
			mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: "services", Value: "v1", Path: "/"})
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.ListServices(ctx, "net"); err != nil {
			t.Fatalf("ListServices() unexpected error: %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"v1"}, seen); diff != "" {
		t.Errorf("cookie not sent back (-want +got):\n%s", diff)
	}
}

func TestClientEscapesNames(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if _, err := c.DeleteService(context.Background(), "My Mail/Work"); err != nil {
		t.Fatalf("DeleteService() unexpected error: %v", err)
	}
	if got := <-paths; got != "/api/v1/services/My%20Mail%2FWork" {
		t.Errorf("path = %q", got)
	}
}
