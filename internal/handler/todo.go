package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/productivity-hub/internal/auth"
	"github.com/sakif/productivity-hub/internal/model"
	"github.com/sakif/productivity-hub/internal/service"
)

// TodoHandler reads and replaces the authenticated user's to-do list.
type TodoHandler struct {
	bundleService *service.BundleService
	logger        *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(bundleService *service.BundleService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		bundleService: bundleService,
		logger:        logger,
	}
}

// HandleList returns the user's to-do list.
//
// HTTP: GET /api/todos
// Auth: Required
//
// RESPONSE FORMAT: a bare JSON array —
//
//	[{"id":"1","title":"buy milk","completed":false}, ...]
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	todos, err := h.bundleService.Todos(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// todosRequest wraps the replacement list.
//
// WHY json.RawMessage FIRST?
// The contract rejects a body whose "todos" is not an array (object, string,
// number, null, or missing) with 400 — and leaves the stored list untouched.
// Decoding straight into []model.Todo can't tell "null" from "[]", so we
// keep the raw bytes and check the JSON kind ourselves.
type todosRequest struct {
	Todos json.RawMessage `json:"todos"`
}

// HandleSave replaces the to-do list wholesale.
//
// HTTP: POST /api/todos
// REQUEST BODY: {"todos": [{"id": ..., "title": ..., "completed": ...}, ...]}
//
// Responses:
//   - 200 {"message": "Todos saved.", "todos": [...]}
//   - 400 {"error": "validation_error", "message": "Todos must be an array."}
func (h *TodoHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req todosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid todos JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Todos must be an array.",
		})
		return
	}

	todos, ok := decodeArray[model.Todo](req.Todos)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Todos must be an array.",
		})
		return
	}

	saved, err := h.bundleService.SaveTodos(r.Context(), username, todos)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Todos saved.",
		"todos":   saved,
	})
}

// decodeArray decodes raw JSON that must be an array of T.
// Returns (nil, false) when the value is absent, null, or not an array.
//
// GENERICS:
// One tiny helper shared by the todos and events handlers — the element type
// is the only difference between them.
func decodeArray[T any](raw json.RawMessage) ([]T, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		// "null" decodes without error but is not an array.
		return nil, false
	}
	return items, true
}
