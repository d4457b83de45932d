package routes

import (
	"github.com/Staillim/GeoChat/controllers"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RegisterLiveLocationRoutes sets up routes for location sharing under /api/live-location
func RegisterLiveLocationRoutes(r *mux.Router, liveLocationService *services.LiveLocationService) {
	controller := controllers.NewLiveLocationController(liveLocationService)

	locationRouter := r.PathPrefix("/api/live-location").Subrouter()
	locationRouter.HandleFunc("", controller.GetSharedLocation).Methods("GET")
	locationRouter.HandleFunc("/all/{userId}", controller.ListLiveLocations).Methods("GET")
	locationRouter.HandleFunc("/request", controller.RequestSharing).Methods("POST")
	locationRouter.HandleFunc("/accept", controller.AcceptSharing).Methods("POST")
	locationRouter.HandleFunc("/reject", controller.RejectSharing).Methods("POST")
	locationRouter.HandleFunc("/start", controller.StartSharing).Methods("POST")
	locationRouter.HandleFunc("/stop", controller.StopSharing).Methods("POST")
}
