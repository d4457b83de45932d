package routes

import (
	"github.com/Staillim/GeoChat/controllers"
	"github.com/Staillim/GeoChat/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for presigned URL generation under /api/s3
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.HandleFunc("/generate-presigned-url", controller.GeneratePresignedURL).Methods("POST")
	s3Router.HandleFunc("/generate-read-url", controller.GetPresignedReadURL).Methods("POST")
}
