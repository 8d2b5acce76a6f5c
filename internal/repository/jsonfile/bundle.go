package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/repository"
)

// compile-time check that *Store implements repository.BundleRepository
var _ repository.BundleRepository = (*Store)(nil)

// fileNameSanitizer strips every character that isn't safe in a filename.
// Compiled once at package init — regexp.MustCompile panics on a bad pattern,
// which is what you want for a pattern that never changes at runtime.
var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ProfileFileName derives a user's document reference from a human-readable
// name. Pure and deterministic: the same name always yields the same file.
//
// Derivation: keep only [a-zA-Z0-9_-], fall back to "user" if nothing
// survives (e.g. a name written entirely in characters we strip), then
// append the document extension. "Jane Doe!!" → "JaneDoe.json".
//
// Every caller that may need to create a document reference goes through
// this one function — the derivation must never fork.
func ProfileFileName(name string) string {
	safe := fileNameSanitizer.ReplaceAllString(name, "")
	if safe == "" {
		safe = "user"
	}
	return safe + ".json"
}

// ProfileFileName satisfies repository.BundleRepository by delegating to the
// package-level pure function.
func (s *Store) ProfileFileName(name string) string {
	return ProfileFileName(name)
}

// Load reads the bundle at the given document reference.
//
// An empty reference means the user has never saved anything; a missing file
// means the reference was derived but the document was never written (or was
// deleted by hand). Both are the expected-absence case and yield the empty
// bundle shape. Any other failure — permissions, malformed JSON — surfaces
// as an error for the request to die on.
func (s *Store) Load(_ context.Context, profileFile string) (*model.Bundle, error) {
	if profileFile == "" {
		return model.EmptyBundle(), nil
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, profileFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.EmptyBundle(), nil
		}
		return nil, fmt.Errorf("jsonfile: reading bundle %s: %w", profileFile, err)
	}

	var bundle model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("jsonfile: parsing bundle %s: %w", profileFile, err)
	}

	// A hand-edited document may omit the lists entirely. Normalise nil
	// slices so the API always serialises them as [].
	if bundle.Todos == nil {
		bundle.Todos = []model.Todo{}
	}
	if bundle.Events == nil {
		bundle.Events = []model.Event{}
	}
	return &bundle, nil
}

// Save overwrites the document wholesale (atomic temp-file + rename, like
// every write in this package).
func (s *Store) Save(_ context.Context, profileFile string, bundle *model.Bundle) error {
	if profileFile == "" {
		return errors.New("jsonfile: bundle file name must not be empty")
	}
	return s.writeJSON(filepath.Join(s.dataDir, profileFile), bundle)
}
