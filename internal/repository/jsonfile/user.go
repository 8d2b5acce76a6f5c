package jsonfile

import (
	"context"
	"fmt"

	"github.com/sakif/productivity-hub/internal/apperror"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/repository"
)

// compile-time check that *Store implements repository.UserRepository
var _ repository.UserRepository = (*Store)(nil)

// Create appends a new credential record and persists the whole store.
//
// UNIQUENESS:
// Username uniqueness is enforced here, by scanning the freshly-read store
// before appending. There is no index and no constraint engine — the store is
// one JSON array — so the scan IS the constraint.
func (s *Store) Create(_ context.Context, user *model.User) error {
	doc, err := s.readUsers()
	if err != nil {
		return err
	}

	for _, u := range doc.Users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}

	doc.Users = append(doc.Users, *user)
	if err := s.writeUsers(doc); err != nil {
		return fmt.Errorf("persisting new user %s: %w", user.Username, err)
	}
	return nil
}

// GetByUsername returns the credential record for the given username.
// Returns apperror.ErrNotFound if no user exists with that name.
func (s *Store) GetByUsername(_ context.Context, username string) (*model.User, error) {
	doc, err := s.readUsers()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username {
			// Return a copy so the caller can't mutate store-internal state
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

// VerifyCredentials returns the record matching both username and password.
//
// The comparison is exact plaintext equality on both fields — the documented,
// deliberately-preserved weakness of this credential store. A failed match
// yields the same Unauthorized error whether the username is unknown or the
// password is wrong.
func (s *Store) VerifyCredentials(_ context.Context, username, password string) (*model.User, error) {
	doc, err := s.readUsers()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username && doc.Users[i].Password == password {
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, apperror.Unauthorized("Invalid credentials.")
}

// SetProfileFile points a user's record at its bundle document and persists
// immediately. Setting the same reference twice is a harmless no-op rewrite.
func (s *Store) SetProfileFile(_ context.Context, username, profileFile string) error {
	doc, err := s.readUsers()
	if err != nil {
		return err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username {
			doc.Users[i].ProfileFile = profileFile
			if err := s.writeUsers(doc); err != nil {
				return fmt.Errorf("persisting profile file for %s: %w", username, err)
			}
			return nil
		}
	}
	return apperror.NotFound("user", username)
}
