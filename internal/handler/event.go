package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/productivity-hub/internal/auth"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/service"
)

// EventHandler reads and replaces the authenticated user's calendar events.
// Mirrors TodoHandler — same contract, different list.
type EventHandler struct {
	bundleService *service.BundleService
	logger        *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(bundleService *service.BundleService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		bundleService: bundleService,
		logger:        logger,
	}
}

// HandleList returns the user's calendar events as a bare JSON array.
//
// HTTP: GET /api/events
// Auth: Required
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	events, err := h.bundleService.Events(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

type eventsRequest struct {
	Events json.RawMessage `json:"events"`
}

// HandleSave replaces the calendar events wholesale.
//
// HTTP: POST /api/events
// REQUEST BODY: {"events": [{"date": "2026-03-14", "title": ..., "description": ...}, ...]}
//
// Responses:
//   - 200 {"message": "Events saved.", "events": [...]}
//   - 400 {"error": "validation_error", "message": "Events must be an array."}
func (h *EventHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid events JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Events must be an array.",
		})
		return
	}

	events, ok := decodeArray[model.Event](req.Events)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Events must be an array.",
		})
		return
	}

	saved, err := h.bundleService.SaveEvents(r.Context(), username, events)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Events saved.",
		"events":  saved,
	})
}
