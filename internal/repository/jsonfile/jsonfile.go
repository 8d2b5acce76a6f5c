// Package jsonfile implements the repository interfaces on top of plain JSON
// files in a data directory.
//
// WHY FILES AND NOT A DATABASE?
// Durable state for this app is deliberately a handful of small, human-readable
// JSON documents: one shared users.json credential store, plus one bundle file
// per user. You can open them in an editor, fix a typo, and the server picks
// the change up on the next request — there is no caching layer, every request
// re-reads from disk.
//
// READ-IN-FULL, WRITE-IN-FULL:
// Every operation loads the entire file, mutates the decoded value in memory,
// and writes the entire file back. There is no locking across that
// read-modify-write cycle, so two concurrent mutations of the same file race
// and the last writer wins — an accepted, documented property of this system,
// not something this package tries to fix.
//
// What this package DOES guarantee is that each individual write is atomic:
// we write to a uniquely-named temp file and rename it over the target.
// rename(2) is atomic on POSIX filesystems, so a reader never observes a
// half-written document even when a concurrent update loses the race.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/sakif/productivity-hub/internal/model"
)

// usersFile is the shared credential store inside the data directory.
const usersFile = "users.json"

// Store provides file-backed repositories rooted at a single data directory.
//
// It implements both repository.UserRepository and repository.BundleRepository —
// the same value is injected for both, the way a DB handle would back every
// repository in a database-backed app.
type Store struct {
	dataDir string
}

// usersDocument is the on-disk shape of users.json:
//
//	{"users": [{"username": ..., "password": ..., "profileFile": ...}, ...]}
type usersDocument struct {
	Users []model.User `json:"users"`
}

// New creates a Store rooted at dataDir, creating the directory if needed.
//
// Unlike a database connection there is nothing to open or ping — each
// operation touches the filesystem independently — so New only has to make
// sure the directory exists and is writable.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("jsonfile: data directory must not be empty")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data directory %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

// readUsers loads the whole credential store from disk.
//
// EXPECTED ABSENCE IS NOT AN ERROR:
// A missing users.json simply means nobody has registered yet. We materialise
// the empty store on disk the first time we notice it's missing, so the file
// always exists after first contact (handy for hand-editing).
func (s *Store) readUsers() (*usersDocument, error) {
	path := filepath.Join(s.dataDir, usersFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc := &usersDocument{Users: []model.User{}}
			if err := s.writeJSON(path, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
		return nil, fmt.Errorf("jsonfile: reading %s: %w", usersFile, err)
	}

	var doc usersDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jsonfile: parsing %s: %w", usersFile, err)
	}
	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	return &doc, nil
}

// writeUsers persists the whole credential store.
func (s *Store) writeUsers(doc *usersDocument) error {
	return s.writeJSON(filepath.Join(s.dataDir, usersFile), doc)
}

// writeJSON marshals v (pretty-printed, to keep the files hand-editable) and
// writes it atomically: temp file in the same directory, then rename.
//
// WHY A TEMP FILE + RENAME?
// os.WriteFile truncates first and writes second — a crash (or a concurrent
// reader) in between sees a partial document. Renaming a fully-written temp
// file over the target swaps the content in a single atomic step. The xid
// suffix keeps concurrent writers from clobbering each other's temp files.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding %s: %w", filepath.Base(path), err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, xid.New().String())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort — don't leave temp files behind
		return fmt.Errorf("jsonfile: replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
