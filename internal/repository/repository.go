// Package repository defines the storage interfaces consumed by the service
// layer. Services program against these interfaces, never against a concrete
// store — tests inject in-memory mocks, production injects the JSON-file
// implementation from repository/jsonfile.
package repository

import (
	"context"

	"github.com/sakif/productivity-hub/internal/model"
)

// UserRepository is the credential store: the shared registry of every
// registered account. Implementations read the whole store on every call and
// write the whole store back on every mutation.
type UserRepository interface {
	// Create appends a new credential record.
	// Returns apperror.ErrConflict if the username is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByUsername returns the record for the given username.
	// Returns apperror.ErrNotFound if no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// VerifyCredentials returns the record matching BOTH username and
	// password exactly. Returns apperror.ErrUnauthorized on any mismatch —
	// the caller cannot tell an unknown user from a wrong password.
	VerifyCredentials(ctx context.Context, username, password string) (*model.User, error)

	// SetProfileFile points a user's record at its bundle document.
	// Idempotent; persists immediately.
	SetProfileFile(ctx context.Context, username, profileFile string) error
}

// BundleRepository is the per-user document store.
type BundleRepository interface {
	// ProfileFileName derives the document reference for a human-readable
	// name. Pure and deterministic — same name, same reference, always.
	ProfileFileName(name string) string

	// Load reads the bundle at the given document reference. An empty
	// reference or a missing file yields the empty-shape bundle — absence
	// is not an error. Any other failure is.
	Load(ctx context.Context, profileFile string) (*model.Bundle, error)

	// Save overwrites the document wholesale.
	Save(ctx context.Context, profileFile string, bundle *model.Bundle) error
}
