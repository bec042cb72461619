package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/passkeep/passkeep-go/internal/crypto"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "passkeep_session"

type contextKey string

const sessionIDKey contextKey = "sessionID"

// Session returns middleware that resolves the client's session from a signed
// cookie, issuing a fresh session when the cookie is missing or invalid.
func Session(secret string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookie); err == nil {
				if id, err := crypto.ParseSessionToken(c.Value, secret); err == nil {
					next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
					return
				}
			}

			id := uuid.NewString()
			token, err := crypto.IssueSessionToken(id, secret, ttl)
			if err != nil {
				slog.Error("issuing session token failed", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			// No MaxAge: the cookie lives as long as the client session.
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
		})
	}
}

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session id from the request context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}
