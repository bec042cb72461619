package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/passkeep/passkeep-go/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--cookie-file", filepath.Join(t.TempDir(), "cookies.json")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_Local(t *testing.T) {
	out, err := execute(t, "generate", "--length", "20", "--count", "3")
	if err != nil {
		t.Fatalf("generate unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d passwords, want 3", len(lines))
	}
	for _, l := range lines {
		if len(l) != 20 {
			t.Errorf("password %q has length %d, want 20", l, len(l))
		}
	}
}

func TestGenerate_CustomCharsetOnly(t *testing.T) {
	out, err := execute(t, "generate", "--letters=false", "--digits=false", "--symbols=false", "--charset", "ab", "-n", "8")
	if err != nil {
		t.Fatalf("generate unexpected error: %v", err)
	}
	got := strings.TrimSpace(out)
	if strings.Trim(got, "ab") != "" || len(got) != 8 {
		t.Errorf("password %q should be 8 characters from \"ab\"", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad case", []string{"generate", "--case", "title"}, "invalid case"},
		{"bad count", []string{"generate", "--count", "0"}, "invalid count"},
		{"no pools", []string{"generate", "--letters=false", "--digits=false", "--symbols=false"}, "select at least one character set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestGenerate_Remote(t *testing.T) {
	reqs := make(chan model.GenerateRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/generate" {
			http.NotFound(w, r)
			return
		}
		var req model.GenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		reqs <- req
		_ = json.NewEncoder(w).Encode(model.GenerateResponse{Password: "from-server", Length: 11})
	}))
	defer srv.Close()

	out, err := execute(t, "--server", srv.URL, "generate", "--remote", "--case", "upper", "--symbols=false")
	if err != nil {
		t.Fatalf("generate unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "from-server" {
		t.Errorf("output = %q", out)
	}
	got := <-reqs
	if got.LetterCase != "upper" || got.Symbols == nil || *got.Symbols {
		t.Errorf("request = %+v", got)
	}
}

func TestPrintServices(t *testing.T) {
	services := []model.StoredService{{ServiceName: "Mail", ServicePassword: "secret"}}

	var hidden bytes.Buffer
	if err := printServices(&hidden, services, false); err != nil {
		t.Fatalf("printServices() unexpected error: %v", err)
	}
	if strings.Contains(hidden.String(), "secret") || !strings.Contains(hidden.String(), "******") {
		t.Errorf("hidden output = %q", hidden.String())
	}

	var shown bytes.Buffer
	_ = printServices(&shown, services, true)
	if !strings.Contains(shown.String(), "secret") {
		t.Errorf("revealed output = %q", shown.String())
	}

	var empty bytes.Buffer
	_ = printServices(&empty, nil, false)
	if !strings.Contains(empty.String(), "no saved services") {
		t.Errorf("empty output = %q", empty.String())
	}
}
