package routes

import (
	"github.com/Staillim/GeoChat/controllers"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for messaging under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/send", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/shared-locations/{userId}", controller.GetSharedLocations).Methods("GET")
	chatRouter.HandleFunc("/mark-read", controller.MarkAsRead).Methods("POST")
	chatRouter.HandleFunc("/mark-messages-read", controller.MarkMessagesRead).Methods("POST")
}
