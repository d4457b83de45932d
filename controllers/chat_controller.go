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

// ChatController handles message dispatch and read-state endpoints
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// SendMessage appends a message to a conversation and updates its summary
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var message models.Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if message.ConversationID == "" || message.SenderID == "" {
		respondError(w, "Missing required fields: conversationId, senderId", http.StatusBadRequest)
		return
	}

	stored, err := c.ChatService.SendMessage(r.Context(), message)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		respondServiceError(w, err, "Error al enviar el mensaje. Intenta de nuevo.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Message sent successfully",
		"data":    stored,
	})
}

// GetMessages fetches messages for a conversation
// GET /api/chat/messages?conversationId=...&limit=50
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		respondError(w, "conversationId is required", http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	messages, err := c.ChatService.GetMessages(r.Context(), conversationID, limit)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// GetSharedLocations returns the latest location message from each peer
// across the user's active conversations
func (c *ChatController) GetSharedLocations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	locations, err := c.ChatService.GetSharedLocations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch shared locations")
		return
	}

	respondJSON(w, http.StatusOK, locations)
}

// MarkAsRead zeroes the caller's unread counter for a conversation
func (c *ChatController) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.ChatService.MarkAsRead(r.Context(), payload.ConversationID, payload.UserID); err != nil {
		respondServiceError(w, err, "Failed to mark conversation as read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Conversation marked as read"})
}

// MarkMessagesRead flags unread peer messages as read
func (c *ChatController) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.ChatService.MarkMessagesRead(r.Context(), payload.ConversationID, payload.UserID)
	if err != nil {
		respondServiceError(w, err, "Failed to mark messages as read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Messages marked as read",
		"updated": updated,
	})
}
