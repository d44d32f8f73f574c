package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/storage"
)

// DownloadURLRequest is the request body for POST /files/download-url.
type DownloadURLRequest struct {
	FileKey string `json:"file_key" binding:"required"`
}

// downloadURLHandler creates a time-limited presigned URL for a stored blob,
// for clients that cannot reach the public endpoint directly.
func (s *Server) downloadURLHandler(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Error:   "Storage service is not available",
		})
		return
	}

	var req DownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	ttl := 1 * time.Hour
	url, err := s.storage.GeneratePresignedDownloadURL(c.Request.Context(), req.FileKey, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to generate download URL",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"download_url": url,
		"expires_at":   time.Now().Add(ttl).Unix(),
	})
}

// deleteFileHandler handles DELETE /files/*key. Only post image blobs may be
// removed through the API.
func (s *Server) deleteFileHandler(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Error:   "Storage service is not available",
		})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, storage.BlobPrefix) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid file key",
		})
		return
	}

	if err := s.storage.DeleteBlob(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to delete file",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"file_key": key,
	})
}
