package routes

import (
	"github.com/Staillim/GeoChat/controllers"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RegisterRequestRoutes sets up routes for the chat-request lifecycle under /api/requests
// and conversation lookups under /api/conversations
func RegisterRequestRoutes(r *mux.Router, requestService *services.RequestService) {
	controller := controllers.NewRequestController(requestService)

	requestRouter := r.PathPrefix("/api/requests").Subrouter()
	requestRouter.HandleFunc("", controller.SendRequest).Methods("POST")
	requestRouter.HandleFunc("/accept", controller.AcceptRequest).Methods("POST")
	requestRouter.HandleFunc("/reject", controller.RejectRequest).Methods("POST")
	requestRouter.HandleFunc("/incoming/{userId}", controller.GetIncomingRequests).Methods("GET")
	requestRouter.HandleFunc("/outgoing/{userId}", controller.GetOutgoingRequests).Methods("GET")

	conversationRouter := r.PathPrefix("/api/conversations").Subrouter()
	conversationRouter.HandleFunc("/user/{userId}", controller.GetConversations).Methods("GET")
	conversationRouter.HandleFunc("/{conversationId}", controller.GetConversation).Methods("GET")
}
