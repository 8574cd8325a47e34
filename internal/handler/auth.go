package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesa-pos/api/internal/auth"
	"github.com/mesa-pos/api/internal/database"
	mw "github.com/mesa-pos/api/internal/middleware"
	"github.com/mesa-pos/api/internal/session"
	"github.com/rs/zerolog/log"
)

// SignInService checks credentials.
// Satisfied by *auth.Authenticator; narrow interface for testability.
type SignInService interface {
	SignIn(ctx context.Context, email, password string) (database.User, error)
}

// SessionManager begins and ends sessions.
// Satisfied by *session.Manager.
type SessionManager interface {
	Begin(userID uuid.UUID, identifier string) session.Session
	End(id uuid.UUID) bool
	TTL() time.Duration
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	signIn    SignInService
	sessions  SessionManager
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(signIn SignInService, sessions SessionManager, jwtSecret string) *AuthHandler {
	return &AuthHandler{signIn: signIn, sessions: sessions, jwtSecret: jwtSecret}
}

// RegisterRoutes registers the public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// RegisterProtectedRoutes registers auth endpoints that need a live session.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.Session)
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	FullName   string    `json:"full_name"`
}

type sessionResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Identifier string    `json:"identifier"`
	StartedAt  time.Time `json:"started_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// --- Handlers ---

// Login handles email + password authentication and begins a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.signIn.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if auth.IsSignInError(err) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("sign in")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sess := h.sessions.Begin(user.ID, user.Email)
	token, err := auth.GenerateToken(h.jwtSecret, sess.ID, user.ID, user.Email, h.sessions.TTL())
	if err != nil {
		h.sessions.End(sess.ID)
		log.Error().Err(err).Msg("generate token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	log.Info().Str("user", user.Email).Str("session", sess.ID.String()).Msg("signed in")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		User: userResponse{
			ID:         user.ID,
			Identifier: user.Email,
			FullName:   user.FullName,
		},
	})
}

// Logout ends the caller's session. The token is rejected from then on.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not logged in", "redirect": mw.LoginPath})
		return
	}

	h.sessions.End(sess.ID)
	log.Info().Str("user", sess.Identifier).Str("session", sess.ID.String()).Msg("signed out")
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out", "redirect": mw.LoginPath})
}

// Session describes the caller's session and the user the token was issued to.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	claims := mw.ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not logged in", "redirect": mw.LoginPath})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:         sess.ID,
		UserID:     claims.UserID,
		Identifier: sess.Identifier,
		StartedAt:  sess.StartedAt,
		ExpiresAt:  sess.ExpiresAt,
	})
}
