package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// Sign-in failures. Their messages are shown to the user as-is.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account is disabled")
)

// CredentialStore looks up stored credentials.
// Satisfied by *database.Queries.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
}

// Authenticator checks an email/password pair against stored bcrypt hashes.
type Authenticator struct {
	store CredentialStore
}

func NewAuthenticator(store CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

// SignIn returns the matching user or one of the sign-in errors above.
// Any other error is a store failure.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (database.User, error) {
	if email == "" || password == "" {
		return database.User{}, ErrMissingCredentials
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.User{}, ErrInvalidCredentials
		}
		return database.User{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return database.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return database.User{}, ErrUserDisabled
	}
	return user, nil
}

// IsSignInError reports whether err is a credential problem rather than an
// infrastructure failure.
func IsSignInError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserDisabled)
}
