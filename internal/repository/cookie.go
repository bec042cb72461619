package repository

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/passkeep/passkeep-go/internal/model"
)

const (
	// CookieMaxAge keeps the cookie tier for 30 days.
	CookieMaxAge = 60 * 60 * 24 * 30

	// maxCookieBytes is the per-cookie size most clients accept.
	maxCookieBytes = 4096
)

// CookieBackend is the cookie tier of one HTTP exchange. It reads the
// client's services cookie and writes the replacement to the response.
type CookieBackend struct {
	r       *http.Request
	w       http.ResponseWriter
	written *string
}

// NewCookieBackend creates a CookieBackend for the given exchange.
func NewCookieBackend(w http.ResponseWriter, r *http.Request) *CookieBackend {
	return &CookieBackend{r: r, w: w}
}

func (b *CookieBackend) Name() string { return "cookie" }

// Read returns the list most recently written in this exchange, or the one
// sent by the client.
func (b *CookieBackend) Read(_ context.Context) []model.StoredService {
	if b.written != nil {
		return decodeServices(b.Name(), *b.written)
	}
	c, err := b.r.Cookie(StorageKey)
	if err != nil {
		return nil
	}
	return decodeServices(b.Name(), decodeCookieValue(c.Value))
}

// Write sets the services cookie on the response.
func (b *CookieBackend) Write(_ context.Context, services []model.StoredService) error {
	raw, err := encodeServices(services)
	if err != nil {
		return err
	}

	value := encodeCookieValue(raw)
	if len(StorageKey)+len(value) > maxCookieBytes {
		slog.Warn("services cookie exceeds client size limit", "bytes", len(value))
	}

	http.SetCookie(b.w, &http.Cookie{
		Name:     StorageKey,
		Value:    value,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	b.written = &raw
	return nil
}

// encodeCookieValue percent-encodes v the way encodeURIComponent does, with
// spaces as %20 rather than '+'.
func encodeCookieValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// decodeCookieValue percent-decodes v, returning it unchanged when it is not
// valid percent-encoding.
func decodeCookieValue(v string) string {
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}
