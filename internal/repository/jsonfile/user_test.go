package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sakif/productivity-hub/internal/apperror"
	"github.com/sakif/productivity-hub/internal/model"
)

// newTestStore returns a Store rooted at a per-test temp directory.
// t.TempDir() is cleaned up automatically when the test finishes.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

// createTestUser is a test helper that registers a user and fails the test if it errors.
func createTestUser(t *testing.T, s *Store, username, password string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: password}
	if err := s.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	s := newTestStore(t)

	createTestUser(t, s, "alice", "pw12")

	got, err := s.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.Username != "alice" || got.Password != "pw12" {
		t.Errorf("stored record = %+v", got)
	}
	if got.ProfileFile != "" {
		t.Errorf("new user ProfileFile = %q, want empty", got.ProfileFile)
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "alice", "pw12")

	err := s.Create(context.Background(), &model.User{Username: "alice", Password: "other"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() duplicate error = %v, want ErrConflict", err)
	}

	// The store must retain exactly one record for the username — and the
	// ORIGINAL one, untouched.
	got, err := s.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.Password != "pw12" {
		t.Errorf("duplicate registration overwrote the original record: %+v", got)
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "alice", "pw12")

	t.Run("correct credentials", func(t *testing.T) {
		user, err := s.VerifyCredentials(context.Background(), "alice", "pw12")
		if err != nil {
			t.Fatalf("VerifyCredentials() error = %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("Username = %q, want %q", user.Username, "alice")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.VerifyCredentials(context.Background(), "alice", "nope")
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		// Same error as a wrong password — callers can't probe for usernames.
		_, err := s.VerifyCredentials(context.Background(), "mallory", "pw12")
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestSetProfileFile(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "alice", "pw12")

	if err := s.SetProfileFile(context.Background(), "alice", "Alice.json"); err != nil {
		t.Fatalf("SetProfileFile() error = %v", err)
	}

	// Idempotent: setting the same reference again succeeds.
	if err := s.SetProfileFile(context.Background(), "alice", "Alice.json"); err != nil {
		t.Fatalf("SetProfileFile() repeat error = %v", err)
	}

	got, _ := s.GetByUsername(context.Background(), "alice")
	if got.ProfileFile != "Alice.json" {
		t.Errorf("ProfileFile = %q, want %q", got.ProfileFile, "Alice.json")
	}

	if err := s.SetProfileFile(context.Background(), "nobody", "x.json"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SetProfileFile() unknown user error = %v, want ErrNotFound", err)
	}
}

func TestUsersFileIsHumanReadable(t *testing.T) {
	// The credential store is meant to be hand-editable: pretty-printed
	// JSON with a top-level "users" array.
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	createTestUser(t, store, "alice", "pw12")

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("reading users.json: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "\n") {
		t.Error("users.json is not pretty-printed")
	}
	if !strings.Contains(text, `"users"`) {
		t.Error("users.json is missing the top-level users array")
	}

	// No stray temp files left behind by the atomic write.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestMissingUsersFileIsEmptyStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// First read of a store that has never been written: not an error,
	// just nobody registered yet.
	_, err = store.GetByUsername(context.Background(), "anyone")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByUsername() on fresh store error = %v, want ErrNotFound", err)
	}

	// The empty store is materialised on disk after first contact.
	if _, err := os.Stat(filepath.Join(dir, "users.json")); err != nil {
		t.Errorf("users.json was not created: %v", err)
	}
}
