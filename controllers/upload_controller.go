package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/utils"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves locally stored car images
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filename")
		return
	}

	contentType := utils.ContentTypeFor(filename)
	if contentType == "" {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_FORMAT", "Only png, jpg, jpeg and webp images are served")
		return
	}

	filePath := filepath.Join(uploadDir(), filename)
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}

func uploadDir() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return "./uploads"
}
