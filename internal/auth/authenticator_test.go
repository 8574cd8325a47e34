package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/auth"
	"github.com/mesa-pos/api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

type mockCredentialStore struct {
	users map[string]database.User
	err   error
}

func (m *mockCredentialStore) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	if m.err != nil {
		return database.User{}, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newCredentialStore(t *testing.T, email, password string, active bool) *mockCredentialStore {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &mockCredentialStore{users: map[string]database.User{
		email: {ID: uuid.New(), Email: email, HashedPassword: string(hashed), FullName: "Ana", IsActive: active},
	}}
}

func TestSignIn_Success(t *testing.T) {
	store := newCredentialStore(t, "ana@mesa.test", "s3cret", true)
	a := auth.NewAuthenticator(store)

	user, err := a.SignIn(context.Background(), "ana@mesa.test", "s3cret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if user.Email != "ana@mesa.test" {
		t.Errorf("email: got %q", user.Email)
	}
}

func TestSignIn_Failures(t *testing.T) {
	store := newCredentialStore(t, "ana@mesa.test", "s3cret", true)
	disabled := newCredentialStore(t, "old@mesa.test", "s3cret", false)

	tests := []struct {
		name     string
		store    *mockCredentialStore
		email    string
		password string
		want     error
	}{
		{"missing password", store, "ana@mesa.test", "", auth.ErrMissingCredentials},
		{"missing email", store, "", "s3cret", auth.ErrMissingCredentials},
		{"unknown email", store, "nobody@mesa.test", "s3cret", auth.ErrInvalidCredentials},
		{"wrong password", store, "ana@mesa.test", "nope", auth.ErrInvalidCredentials},
		{"disabled user", disabled, "old@mesa.test", "s3cret", auth.ErrUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewAuthenticator(tt.store).SignIn(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !auth.IsSignInError(err) {
				t.Error("expected IsSignInError to be true")
			}
		})
	}
}

func TestSignIn_StoreFailureIsNotSignInError(t *testing.T) {
	store := &mockCredentialStore{err: errors.New("connection refused")}

	_, err := auth.NewAuthenticator(store).SignIn(context.Background(), "ana@mesa.test", "s3cret")
	if err == nil {
		t.Fatal("expected error")
	}
	if auth.IsSignInError(err) {
		t.Error("store failure must not be reported as a sign-in error")
	}
}
