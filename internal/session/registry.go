// Package session provides the in-memory registry of authenticated sessions.
//
// SESSIONS VS JWT:
// A signed token (JWT) is stateless — the server can't revoke one before it
// expires. This app wants the opposite: logout must kill the session
// immediately, and restarting the process must log everyone out. That calls
// for plain server-side state: an opaque random token mapped to a username,
// held in memory for the lifetime of the process and nowhere else.
//
// The registry is an explicitly-owned object, created once in server.New and
// injected into whatever needs it. No package-level globals — globals make
// lifecycle invisible and tests flaky.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// tokenBytes is the entropy of a session token. 24 random bytes (48 hex
// characters) — unguessable, and collisions are not a practical concern.
const tokenBytes = 24

// Registry maps opaque bearer tokens to usernames.
//
// WHY A MUTEX?
// Go's HTTP server runs each request on its own goroutine, so the map is
// touched from many goroutines at once. sync.RWMutex lets concurrent
// Resolve calls proceed in parallel while Create/Destroy take the write lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]string // token -> username
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]string),
	}
}

// Create mints a new session token for the given username and registers it.
//
// Multiple concurrent sessions per username are allowed — logging in from a
// second browser does not kick out the first. Sessions never expire on their
// own; they end at logout or process restart.
func (r *Registry) Create(username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	r.sessions[token] = username
	r.mu.Unlock()

	return token, nil
}

// Resolve returns the username behind a token, or ("", false) if the token
// is unknown.
func (r *Registry) Resolve(token string) (string, bool) {
	r.mu.RLock()
	username, ok := r.sessions[token]
	r.mu.RUnlock()
	return username, ok
}

// Destroy removes a session. Destroying an unknown token is a no-op — logout
// never fails, even with a stale or garbage token.
func (r *Registry) Destroy(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len reports the number of live sessions. Used by tests and logging.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
