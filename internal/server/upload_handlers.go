package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// allowedImageExtensions mirrors what the frontend accepts
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename strips path components and anything that could
// escape the upload directory
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// uploadImage stores a preview image and returns its public URL.
// Filenames are prefixed with a unix timestamp to avoid collisions.
func (s *Server) uploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	if file.Size > s.config.Uploads.MaxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(file.Filename))
	dst := filepath.Join(s.config.Uploads.Dir, filename)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error().Err(err).Str("path", dst).Msg("Failed to save upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	s.logger.Info().Str("filename", filename).Int64("size", file.Size).Msg("Image uploaded")

	c.JSON(http.StatusCreated, gin.H{"url": "/static/images/" + filename})
}
