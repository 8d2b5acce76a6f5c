// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
// Code is organised into three layers:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the JSON files on disk
//
// The services accept primitives and return domain values and domain errors
// (apperror.*) — they know nothing about HTTP. The handler layer translates
// domain errors to status codes in one place.
//
// DEPENDENCY INJECTION:
// Each service takes repository INTERFACES (repository.UserRepository, etc.),
// not the concrete jsonfile.Store. Tests inject in-memory mocks; main injects
// the file-backed store. Neither service imports the jsonfile package at all.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/productivity-hub/internal/apperror"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/repository"
	"github.com/sakif/productivity-hub/internal/session"
)

// AuthService handles registration, login and logout.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users    repository.UserRepository   → the shared credential store
//   - bundles  repository.BundleRepository → per-user documents (login returns the bundle)
//   - sessions *session.Registry           → mints and destroys session tokens
//   - logger   *slog.Logger                → structured logging
type AuthService struct {
	users    repository.UserRepository
	bundles  repository.BundleRepository
	sessions *session.Registry
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	bundles repository.BundleRepository,
	sessions *session.Registry,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		bundles:  bundles,
		sessions: sessions,
		logger:   logger,
	}
}

// LoginResult bundles everything the login handler sends back in one step:
// the fresh session token, the user's current document, and its reference.
type LoginResult struct {
	Token       string
	Bundle      *model.Bundle
	ProfileFile string
}

// Register creates a new credential record.
//
// Both fields are required (400). A taken username is a conflict (409) —
// the store retains exactly one record per username, always.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperror.ValidationFailed("username", "Username and password are required.")
	}

	user := &model.User{
		Username: username,
		Password: password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Conflict is a normal outcome, not a failure worth an error log.
		return err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Login verifies credentials and opens a session.
//
// On a bad username OR a bad password the caller gets the same Unauthorized
// error and — importantly — no session is created. On success the user's
// bundle is loaded so the client has its data in the same round trip.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Create(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating session for %s: %w", user.Username, err)
	}

	bundle, err := s.bundles.Load(ctx, user.ProfileFile)
	if err != nil {
		return nil, fmt.Errorf("service/auth: loading bundle for %s: %w", user.Username, err)
	}

	s.logger.Info("user logged in",
		slog.String("username", user.Username),
		slog.Int("activeSessions", s.sessions.Len()),
	)

	return &LoginResult{
		Token:       token,
		Bundle:      bundle,
		ProfileFile: user.ProfileFile,
	}, nil
}

// Logout destroys the session for the given token. It never fails: an
// unknown, expired-by-restart, or empty token is simply a no-op.
func (s *AuthService) Logout(token string) {
	s.sessions.Destroy(token)
}
