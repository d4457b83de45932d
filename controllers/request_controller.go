package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RequestController handles the chat-request lifecycle
type RequestController struct {
	RequestService *services.RequestService
}

// NewRequestController creates a new instance of RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{RequestService: requestService}
}

// SendRequest creates a pending conversation plus its linked chat request
func (c *RequestController) SendRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	request, err := c.RequestService.SendRequest(r.Context(), payload.FromUserID, payload.ToUserID)
	if err != nil {
		log.Printf("❌ Failed to send chat request: %v", err)
		respondServiceError(w, err, "Error al enviar la solicitud. Intenta de nuevo.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Chat request sent",
		"request": request,
	})
}

// AcceptRequest resolves a pending request and activates its conversation
func (c *RequestController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RequestID      string `json:"requestId"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.RequestID == "" || payload.ConversationID == "" {
		respondError(w, "requestId and conversationId are required", http.StatusBadRequest)
		return
	}

	if err := c.RequestService.AcceptRequest(r.Context(), payload.RequestID, payload.ConversationID); err != nil {
		respondServiceError(w, err, "Error al aceptar la solicitud. Intenta de nuevo.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Chat request accepted"})
}

// RejectRequest resolves a pending request; the conversation is untouched
func (c *RequestController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.RequestID == "" {
		respondError(w, "requestId is required", http.StatusBadRequest)
		return
	}

	if err := c.RequestService.RejectRequest(r.Context(), payload.RequestID); err != nil {
		respondServiceError(w, err, "Error al rechazar la solicitud. Intenta de nuevo.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Chat request rejected"})
}

// GetIncomingRequests lists pending requests addressed to the user
func (c *RequestController) GetIncomingRequests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	requests, err := c.RequestService.GetIncomingRequests(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch incoming requests")
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// GetOutgoingRequests lists pending requests the user has sent
func (c *RequestController) GetOutgoingRequests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	requests, err := c.RequestService.GetOutgoingRequests(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch outgoing requests")
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// GetConversations lists every conversation the user participates in
func (c *RequestController) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	conversations, err := c.RequestService.GetConversations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch conversations")
		return
	}

	respondJSON(w, http.StatusOK, conversations)
}

// GetConversation fetches a single conversation by id
func (c *RequestController) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	conversation, err := c.RequestService.GetConversation(r.Context(), conversationID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch conversation")
		return
	}

	respondJSON(w, http.StatusOK, conversation)
}
