package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/productivity-hub/internal/apperror"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/repository"
)

// BundleService handles the per-user document: profile, todos and events.
//
// READ-MODIFY-WRITE, LAST WRITER WINS:
// Every mutation loads the user's whole bundle, replaces one section, and
// writes the whole bundle back. Two concurrent writers for the SAME user race,
// and the slower write silently overwrites the faster one. That is the
// documented behaviour of this system — no per-user lock, no version token.
// Upgrading to optimistic concurrency would be a flagged behaviour change.
type BundleService struct {
	users   repository.UserRepository
	bundles repository.BundleRepository
	logger  *slog.Logger
}

// NewBundleService creates a BundleService.
func NewBundleService(
	users repository.UserRepository,
	bundles repository.BundleRepository,
	logger *slog.Logger,
) *BundleService {
	return &BundleService{
		users:   users,
		bundles: bundles,
		logger:  logger,
	}
}

// BundleResult pairs a bundle with the document reference it lives at.
type BundleResult struct {
	Bundle      *model.Bundle
	ProfileFile string
}

// Get returns the user's bundle and document reference. A user who has never
// saved anything gets the empty bundle shape and an empty reference.
func (s *BundleService) Get(ctx context.Context, username string) (*BundleResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	bundle, err := s.bundles.Load(ctx, user.ProfileFile)
	if err != nil {
		return nil, fmt.Errorf("service/bundle: loading bundle for %s: %w", username, err)
	}

	return &BundleResult{Bundle: bundle, ProfileFile: user.ProfileFile}, nil
}

// SaveProfile stores the profile form and (re)derives the user's document
// reference from the profile name.
//
// DERIVATION:
// The file name comes from the sanitized profile name ("Jane Doe!!" →
// "JaneDoe.json"), NOT from the username. Saving the same name twice is
// idempotent — same file, same reference. We load whatever already lives at
// that file first, so todos/events saved under it survive the profile update.
func (s *BundleService) SaveProfile(ctx context.Context, username, name, phone, school, goal string) (*BundleResult, error) {
	if name == "" || phone == "" || school == "" || goal == "" {
		return nil, apperror.ValidationFailed("profile", "All fields are required.")
	}

	profileFile := s.bundles.ProfileFileName(name)

	bundle, err := s.bundles.Load(ctx, profileFile)
	if err != nil {
		return nil, fmt.Errorf("service/bundle: loading bundle %s: %w", profileFile, err)
	}

	bundle.Profile = &model.Profile{
		Name:      name,
		Phone:     phone,
		School:    school,
		Goal:      goal,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.bundles.Save(ctx, profileFile, bundle); err != nil {
		s.logger.Error("failed to save profile",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/bundle: saving profile for %s: %w", username, err)
	}

	// Point the credential record at the (possibly new) document.
	if err := s.users.SetProfileFile(ctx, username, profileFile); err != nil {
		return nil, fmt.Errorf("service/bundle: linking profile file for %s: %w", username, err)
	}

	s.logger.Info("profile saved",
		slog.String("username", username),
		slog.String("profileFile", profileFile),
	)

	return &BundleResult{Bundle: bundle, ProfileFile: profileFile}, nil
}

// Todos returns the user's current to-do list (empty, never nil, when the
// user has no document yet).
func (s *BundleService) Todos(ctx context.Context, username string) ([]model.Todo, error) {
	res, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return res.Bundle.Todos, nil
}

// SaveTodos replaces the user's to-do list wholesale and returns the stored
// list. No merging: the client owns the list, the server persists it.
func (s *BundleService) SaveTodos(ctx context.Context, username string, todos []model.Todo) ([]model.Todo, error) {
	bundle, profileFile, err := s.loadForWrite(ctx, username)
	if err != nil {
		return nil, err
	}

	bundle.Todos = todos
	if err := s.bundles.Save(ctx, profileFile, bundle); err != nil {
		return nil, fmt.Errorf("service/bundle: saving todos for %s: %w", username, err)
	}

	s.logger.Info("todos saved",
		slog.String("username", username),
		slog.Int("count", len(todos)),
	)
	return bundle.Todos, nil
}

// Events returns the user's calendar events.
func (s *BundleService) Events(ctx context.Context, username string) ([]model.Event, error) {
	res, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return res.Bundle.Events, nil
}

// SaveEvents replaces the user's calendar events wholesale and returns the
// stored list.
func (s *BundleService) SaveEvents(ctx context.Context, username string, events []model.Event) ([]model.Event, error) {
	bundle, profileFile, err := s.loadForWrite(ctx, username)
	if err != nil {
		return nil, err
	}

	bundle.Events = events
	if err := s.bundles.Save(ctx, profileFile, bundle); err != nil {
		return nil, fmt.Errorf("service/bundle: saving events for %s: %w", username, err)
	}

	s.logger.Info("events saved",
		slog.String("username", username),
		slog.Int("count", len(events)),
	)
	return bundle.Events, nil
}

// loadForWrite resolves the document reference a mutation should target and
// loads the bundle behind it.
//
// A user who saves todos/events BEFORE ever saving a profile has no document
// reference yet. In that case the reference is derived from the sanitized
// username (same pure derivation as profile names) and recorded on the
// credential record, so subsequent reads find the document.
func (s *BundleService) loadForWrite(ctx context.Context, username string) (*model.Bundle, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	profileFile := user.ProfileFile
	linkNeeded := profileFile == ""
	if linkNeeded {
		profileFile = s.bundles.ProfileFileName(username)
	}

	bundle, err := s.bundles.Load(ctx, profileFile)
	if err != nil {
		return nil, "", fmt.Errorf("service/bundle: loading bundle %s: %w", profileFile, err)
	}

	if linkNeeded {
		if err := s.users.SetProfileFile(ctx, username, profileFile); err != nil {
			return nil, "", fmt.Errorf("service/bundle: linking profile file for %s: %w", username, err)
		}
	}
	return bundle, profileFile, nil
}
