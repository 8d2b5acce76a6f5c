package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/productivity-hub/internal/auth"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/service"
)

// UserHandler serves the authenticated user's bundle and profile.
//
// Every route here sits behind auth.RequireAuth, so the username is always
// available from the request context — the middleware already rejected
// anonymous requests with 401.
type UserHandler struct {
	bundleService *service.BundleService
	logger        *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(bundleService *service.BundleService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		bundleService: bundleService,
		logger:        logger,
	}
}

// bundleResponse is the {bundle, profileFile} pair returned whenever the
// client needs the user's full document.
type bundleResponse struct {
	Message     string        `json:"message,omitempty"`
	Bundle      *model.Bundle `json:"bundle"`
	ProfileFile string        `json:"profileFile"`
}

// HandleGet returns the user's bundle and document reference.
//
// HTTP: GET /api/user
// Auth: Required (RequireAuth middleware sets the username in context)
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	result, err := h.bundleService.Get(r.Context(), username)
	if err != nil {
		h.logger.Error("HandleGet: loading bundle failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundleResponse{
		Bundle:      result.Bundle,
		ProfileFile: result.ProfileFile,
	})
}

// profileRequest is the profile form body. All four fields are required.
type profileRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	School string `json:"school"`
	Goal   string `json:"goal"`
}

// HandleSaveProfile stores the profile form.
//
// HTTP: POST /api/user
// REQUEST BODY: {"name": ..., "phone": ..., "school": ..., "goal": ...}
//
// Responses:
//   - 200 {"message": "Profile saved successfully.", "bundle": {...}, "profileFile": ...}
//   - 400 when any field is missing
func (h *UserHandler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "All fields are required.",
		})
		return
	}

	result, err := h.bundleService.SaveProfile(r.Context(), username, req.Name, req.Phone, req.School, req.Goal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundleResponse{
		Message:     "Profile saved successfully.",
		Bundle:      result.Bundle,
		ProfileFile: result.ProfileFile,
	})
}
