package routes

import (
	"github.com/Staillim/GeoChat/controllers"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("", controller.CreateUserProfile).Methods("POST")
	profileRouter.HandleFunc("/search/pin", controller.SearchUserByPin).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.UpdateUserProfile).Methods("PATCH")
	profileRouter.HandleFunc("/{userId}", controller.DeleteUserProfile).Methods("DELETE")
	profileRouter.HandleFunc("/{userId}/pin", controller.RegeneratePin).Methods("POST")
	profileRouter.HandleFunc("/{userId}/location", controller.UpdateLocation).Methods("PUT")
	profileRouter.HandleFunc("/{userId}/nearby", controller.GetNearbyUsers).Methods("GET")
}
