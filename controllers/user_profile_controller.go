package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/Staillim/GeoChat/models"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// CreateUserProfile registers a new profile, generating a PIN when absent
func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	createdProfile, err := c.UserProfileService.AddUserProfile(r.Context(), profile)
	if err != nil {
		log.Printf("❌ Failed to add profile: %v", err)
		respondError(w, "Failed to add profile", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile added successfully",
		"profile": createdProfile,
	})
}

// GetUserProfile fetches a profile by userId
func (c *UserProfileController) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateUserProfile handles updating mutable profile fields
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updatedProfile, err := c.UserProfileService.UpdateUserProfile(r.Context(), userID, updates)
	if err != nil {
		respondServiceError(w, err, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": updatedProfile,
	})
}

// DeleteUserProfile removes a profile
func (c *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.UserProfileService.DeleteUserProfile(r.Context(), userID); err != nil {
		respondServiceError(w, err, "Failed to delete profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully"})
}

// SearchUserByPin resolves a profile from its 6-digit PIN.
// GET /api/profiles/search/pin?pin=123456&userId=<requester>
func (c *UserProfileController) SearchUserByPin(w http.ResponseWriter, r *http.Request) {
	pin := r.URL.Query().Get("pin")
	requesterID := r.URL.Query().Get("userId")
	if requesterID == "" {
		respondError(w, "userId is required", http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.SearchByPin(r.Context(), requesterID, pin)
	if err != nil {
		respondServiceError(w, err, "Error al buscar el usuario. Intenta de nuevo.")
		return
	}

	// The PIN owner's contact card, without their PIN
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uid":         profile.UserID,
		"displayName": profile.DisplayName,
		"photoURL":    profile.PhotoURL,
		"email":       profile.Email,
	})
}

// RegeneratePin issues a fresh PIN for the user
func (c *UserProfileController) RegeneratePin(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	pin, err := c.UserProfileService.RegeneratePin(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to regenerate pin")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"pin": pin})
}

// UpdateLocation stores the user's reported coordinates
func (c *UserProfileController) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.UserProfileService.UpdateLocation(r.Context(), userID, payload.Latitude, payload.Longitude); err != nil {
		respondServiceError(w, err, "Failed to update location")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Location updated"})
}

// GetNearbyUsers returns profiles within radiusKm of the user (default 10km)
func (c *UserProfileController) GetNearbyUsers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	radiusKm, err := strconv.ParseFloat(r.URL.Query().Get("radiusKm"), 64)
	if err != nil || radiusKm <= 0 {
		radiusKm = 10
	}

	nearby, err := c.UserProfileService.GetNearbyUsers(r.Context(), userID, radiusKm)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch nearby users")
		return
	}

	respondJSON(w, http.StatusOK, nearby)
}
