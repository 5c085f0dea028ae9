package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/learncamera/backend/internal/apperrors"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"detail": message})
}

// RespondAppError maps a service error to its status code.
// Errors that become 500 are logged with the given message.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, err error, logMessage string) {
	status, message := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(logMessage, zap.Error(err))
	}
	h.RespondError(w, status, message)
}

// DecodeJSON reads a JSON request body into dst and answers 400 when it is malformed.
// Returns false if a response has already been written.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
