package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mesa-pos/api/internal/auth"
	"github.com/mesa-pos/api/internal/session"
	"github.com/rs/zerolog/log"
)

type contextKey string

const claimsKey contextKey = "claims"

// LoginPath is where clients are sent when a request arrives without a live session.
const LoginPath = "/login"

// SessionLookup resolves a session id to an active session.
// Satisfied by *session.Manager; narrow interface for testability.
type SessionLookup interface {
	Lookup(id uuid.UUID) (session.Session, bool)
}

// Authenticate validates the bearer token and requires its session to still
// be active. Logged-out or expired sessions are rejected with a redirect hint.
func Authenticate(jwtSecret string, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "invalid authorization format")
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			sid, err := claims.SessionID()
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			sess, ok := sessions.Lookup(sid)
			if !ok {
				unauthorized(w, "not logged in")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = session.NewContext(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the token claims stored by Authenticate, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msg, "redirect": LoginPath})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
