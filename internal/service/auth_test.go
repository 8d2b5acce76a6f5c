package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/productivity-hub/internal/apperror"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/session"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// WHAT IS A MOCK?
// A mock is a fake implementation of an interface used in tests.
// Instead of touching files on disk, it stores data in memory.
//
// WHY MOCK?
// 1. SPEED: No disk I/O, tests run in microseconds
// 2. ISOLATION: Tests only test the service logic, not the storage
// 3. CONTROL: You can simulate errors (disk full, permission denied)
//    that would be hard to trigger with real files
//
// mockUserRepo and mockBundleRepo implement the same interfaces as the
// jsonfile.Store. The services don't know or care which one they get.

type mockUserRepo struct {
	users map[string]*model.User
	// failWith, when set, makes every call return this error —
	// simulates an unexpected storage failure.
	failWith error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.users[user.Username]; ok {
		return apperror.Conflict("user", user.Username)
	}
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) VerifyCredentials(_ context.Context, username, password string) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[username]
	if !ok || user.Password != password {
		return nil, apperror.Unauthorized("Invalid credentials.")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) SetProfileFile(_ context.Context, username, profileFile string) error {
	if m.failWith != nil {
		return m.failWith
	}
	user, ok := m.users[username]
	if !ok {
		return apperror.NotFound("user", username)
	}
	user.ProfileFile = profileFile
	return nil
}

type mockBundleRepo struct {
	bundles map[string]*model.Bundle
}

func newMockBundleRepo() *mockBundleRepo {
	return &mockBundleRepo{bundles: make(map[string]*model.Bundle)}
}

// ProfileFileName mirrors the real derivation closely enough for these tests:
// strip anything outside [a-zA-Z0-9_-], fall back to "user", append ".json".
func (m *mockBundleRepo) ProfileFileName(name string) string {
	var safe []rune
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_', r == '-':
			safe = append(safe, r)
		}
	}
	if len(safe) == 0 {
		return "user.json"
	}
	return string(safe) + ".json"
}

func (m *mockBundleRepo) Load(_ context.Context, profileFile string) (*model.Bundle, error) {
	if profileFile == "" {
		return model.EmptyBundle(), nil
	}
	bundle, ok := m.bundles[profileFile]
	if !ok {
		return model.EmptyBundle(), nil // absence is not an error
	}
	result := *bundle
	return &result, nil
}

func (m *mockBundleRepo) Save(_ context.Context, profileFile string, bundle *model.Bundle) error {
	stored := *bundle
	m.bundles[profileFile] = &stored
	return nil
}

// =========================================================================
// TEST HELPER
// =========================================================================

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo, *session.Registry) {
	t.Helper()
	users := newMockUserRepo()
	bundles := newMockBundleRepo()
	sessions := session.NewRegistry()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewAuthService(users, bundles, sessions, logger)
	return svc, users, sessions
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	if err := svc.Register(context.Background(), "alice", "pw12"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, ok := users.users["alice"]; !ok {
		t.Error("Register() did not store the user")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing password", "alice", ""},
		{"missing username", "", "pw12"},
		{"missing both", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	if err := svc.Register(context.Background(), "alice", "pw12"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	err := svc.Register(context.Background(), "alice", "other")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() error = %v, want ErrConflict", err)
	}

	// Exactly one record, the original.
	if got := users.users["alice"].Password; got != "pw12" {
		t.Errorf("duplicate registration changed the stored password to %q", got)
	}
}

// =========================================================================
// LOGIN / LOGOUT TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	if err := svc.Register(context.Background(), "alice", "pw12"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "pw12")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The token must resolve back to the exact username.
	username, ok := sessions.Resolve(result.Token)
	if !ok || username != "alice" {
		t.Errorf("Resolve(token) = (%q, %v), want (\"alice\", true)", username, ok)
	}

	// A fresh user gets the empty bundle shape and no profile file.
	if result.ProfileFile != "" {
		t.Errorf("ProfileFile = %q, want empty", result.ProfileFile)
	}
	if result.Bundle == nil || result.Bundle.Profile != nil || len(result.Bundle.Todos) != 0 {
		t.Errorf("Bundle = %+v, want empty shape", result.Bundle)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	if err := svc.Register(context.Background(), "alice", "pw12"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown username", "mallory", "pw12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Errorf("Login() error = %v, want ErrUnauthorized", err)
			}
		})
	}

	// Failed logins must not leave sessions behind.
	if got := sessions.Len(); got != 0 {
		t.Errorf("sessions.Len() = %d after failed logins, want 0", got)
	}
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	if err := svc.Register(context.Background(), "alice", "pw12"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	result, err := svc.Login(context.Background(), "alice", "pw12")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	svc.Logout(result.Token)
	if _, ok := sessions.Resolve(result.Token); ok {
		t.Error("token still resolves after Logout()")
	}

	// Logging out an already-dead (or garbage) token is still a success —
	// Logout has no error to return at all.
	svc.Logout(result.Token)
	svc.Logout("garbage")
	svc.Logout("")
}

func TestLogin_StorageFailure(t *testing.T) {
	svc, users, sessions := newTestAuthService(t)
	users.failWith = errors.New("permission denied")

	_, err := svc.Login(context.Background(), "alice", "pw12")
	if err == nil {
		t.Fatal("Login() should surface storage failures")
	}
	// A storage failure is not a credentials failure.
	if errors.Is(err, apperror.ErrUnauthorized) {
		t.Error("storage failure was mapped to ErrUnauthorized")
	}
	if sessions.Len() != 0 {
		t.Error("session created despite storage failure")
	}
}
