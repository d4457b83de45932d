package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// LiveLocationController handles location-sharing permissions and the
// live-location channel
type LiveLocationController struct {
	LiveLocationService *services.LiveLocationService
}

// NewLiveLocationController creates a new instance of LiveLocationController
func NewLiveLocationController(service *services.LiveLocationService) *LiveLocationController {
	return &LiveLocationController{LiveLocationService: service}
}

type sharingPairPayload struct {
	UserID      string `json:"userId"`
	RecipientID string `json:"recipientId"`
}

func decodePair(w http.ResponseWriter, r *http.Request) (sharingPairPayload, bool) {
	var payload sharingPairPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return payload, false
	}
	if payload.UserID == "" || payload.RecipientID == "" {
		respondError(w, "userId and recipientId are required", http.StatusBadRequest)
		return payload, false
	}
	return payload, true
}

// RequestSharing records a location-sharing request on the recipient
func (c *LiveLocationController) RequestSharing(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := c.LiveLocationService.RequestLocationSharing(r.Context(), payload.UserID, payload.RecipientID); err != nil {
		respondServiceError(w, err, "Failed to request location sharing")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Location sharing requested"})
}

// AcceptSharing grants mutual location visibility
func (c *LiveLocationController) AcceptSharing(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := c.LiveLocationService.AcceptLocationSharing(r.Context(), payload.UserID, payload.RecipientID); err != nil {
		respondServiceError(w, err, "Failed to accept location sharing")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Location sharing accepted"})
}

// RejectSharing drops a pending sharing request
func (c *LiveLocationController) RejectSharing(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := c.LiveLocationService.RejectLocationSharing(r.Context(), payload.UserID, payload.RecipientID); err != nil {
		respondServiceError(w, err, "Failed to reject location sharing")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Location sharing rejected"})
}

// StartSharing begins publishing the caller's live location to a recipient
func (c *LiveLocationController) StartSharing(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := c.LiveLocationService.StartSharing(r.Context(), payload.UserID, payload.RecipientID); err != nil {
		log.Printf("❌ Failed to start live location sharing: %v", err)
		respondServiceError(w, err, "Failed to start location sharing")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Live location sharing started"})
}

// StopSharing cancels the refresh loop and deletes the pairwise document
func (c *LiveLocationController) StopSharing(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := c.LiveLocationService.StopSharing(r.Context(), payload.UserID, payload.RecipientID); err != nil {
		respondServiceError(w, err, "Failed to stop location sharing")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Live location sharing stopped"})
}

// ListLiveLocations returns every active live location involving the user,
// published or received, for the map screen
func (c *LiveLocationController) ListLiveLocations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	locations, err := c.LiveLocationService.ListLiveLocations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch live locations")
		return
	}

	respondJSON(w, http.StatusOK, locations)
}

// GetSharedLocation returns the live location a peer shares with the caller
// GET /api/live-location?userId=<recipient>&senderId=<peer>
func (c *LiveLocationController) GetSharedLocation(w http.ResponseWriter, r *http.Request) {
	recipientID := r.URL.Query().Get("userId")
	senderID := r.URL.Query().Get("senderId")
	if recipientID == "" || senderID == "" {
		respondError(w, "userId and senderId are required", http.StatusBadRequest)
		return
	}

	location, err := c.LiveLocationService.GetSharedLocation(r.Context(), recipientID, senderID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch shared location")
		return
	}

	respondJSON(w, http.StatusOK, location)
}
