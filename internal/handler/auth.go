package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/productivity-hub/internal/auth"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/service"
)

// AuthHandler manages account registration and the session lifecycle.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create a credential record
//   - HandleLogin    → verify credentials, open a session, return token + bundle
//   - HandleLogout   → destroy the session behind the presented token
//
// The handler only parses HTTP and delegates; every rule (required fields,
// uniqueness, credential matching) lives in the AuthService.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// credentialsRequest is the body of both register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
// REQUEST BODY: {"username": "alice", "password": "pw12"}
//
// Responses:
//   - 200 {"message": "User registered successfully."}
//   - 400 when either field is missing
//   - 409 when the username is already taken
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Username and password are required.",
		})
		return
	}

	if err := h.authService.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully."})
}

// loginResponse is what a successful login returns: the bearer token the
// client must present from now on, plus the user's current data so the UI
// can render without a second round trip.
type loginResponse struct {
	Token       string        `json:"token"`
	Bundle      *model.Bundle `json:"bundle"`
	ProfileFile string        `json:"profileFile"`
}

// HandleLogin verifies credentials and opens a session.
//
// HTTP: POST /api/login
// REQUEST BODY: {"username": "alice", "password": "pw12"}
//
// Responses:
//   - 200 {"token": ..., "bundle": {...}, "profileFile": ...}
//   - 401 {"error": "unauthorized", "message": "Invalid credentials."}
//
// A malformed body falls through to the service with empty fields and fails
// the credential check — indistinguishable from wrong credentials, which is
// exactly the information a login endpoint should leak: none.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	// Decode errors are deliberately ignored here; empty credentials can
	// never match a record, so the request fails with the same 401.
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:       result.Token,
		Bundle:      result.Bundle,
		ProfileFile: result.ProfileFile,
	})
}

// HandleLogout destroys the presented session.
//
// HTTP: POST /api/logout
//
// WHY POST AND NOT GET?
// Logout is a state-changing operation. Using GET would be vulnerable to
// CSRF and to browsers pre-fetching the URL. POST ensures intentional action.
//
// This route is NOT behind RequireAuth: logging out with a token that is
// already dead (or absent) still returns 200. Logout never fails.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r)
	if token != "" {
		h.authService.Logout(token)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}
