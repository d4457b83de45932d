package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Staillim/GeoChat/services"
)

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps service errors onto HTTP statuses: validation
// sentinels become 400s with their user-facing message, missing documents
// become 404s, everything else is a generic 500.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, services.ErrPinNotFound):
		respondError(w, "No encontrado", http.StatusNotFound)
	case isValidationError(err):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, fallback, http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		services.ErrInvalidPin,
		services.ErrOwnPin,
		services.ErrSelfRequest,
		services.ErrConversationExists,
		services.ErrRequestAlreadyExists,
		services.ErrEmptyMessage,
		services.ErrMissingImage,
		services.ErrMissingLocation,
		services.ErrUnknownMessageType,
		services.ErrConversationNotActive,
		services.ErrNotParticipant,
		services.ErrNoMutualPermission,
		services.ErrNoPosition,
		services.ErrAlreadyRequested,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
