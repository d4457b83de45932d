package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Staillim/GeoChat/services"
)

// S3Controller issues presigned URLs for chat images and profile photos
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new instance of S3Controller
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// GeneratePresignedURL generates a presigned URL for uploads
func (c *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		respondError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		log.Printf("❌ Error generating pre-signed URL: %v", err)
		respondError(w, "Failed to generate pre-signed URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url, "fileName": key})
}

// GetPresignedReadURL generates a presigned URL for reading stored objects
func (c *S3Controller) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		respondError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		respondError(w, "Failed to generate read pre-signed URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
