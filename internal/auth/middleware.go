// Package auth gates protected routes behind the session registry.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/productivity-hub/internal/session"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "username", name), ANY package that knows the string
// "username" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type contextKey,
// so only this package can read or write username values in the context.
type contextKey string

const usernameKey contextKey = "username"

// bearerPrefix is the exact scheme prefix the Authorization header must carry.
// "bearer x", "Bearer" with no space, or a bare token are all treated the same
// as no header at all — an invalid session.
const bearerPrefix = "Bearer "

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It extracts the bearer token from the Authorization header, resolves it
// through the session registry, and stores the username in the request
// context. If the token is missing, malformed, or unknown, it returns
// 401 Unauthorized and stops the request chain — the handler never runs.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	        // ... do stuff after the handler ...
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(sessions *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			username, ok := sessions.Resolve(token)
			if token == "" || !ok {
				http.Error(w, `{"error":"unauthorized","message":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}

			// Store the username in context so handlers can read it
			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext retrieves the authenticated username from the request
// context.
//
// Returns ("", false) if the request never passed RequireAuth.
// Returns (name, true) on a protected route.
//
// Usage in handlers:
//
//	username, ok := auth.UsernameFromContext(r.Context())
//	if !ok {
//	    // not authenticated
//	}
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok && name != ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is absent or doesn't carry the exact
// scheme prefix.
//
// Exported because logout reads the token too, without requiring a valid
// session (logout on a dead token still succeeds).
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, bearerPrefix)
}
