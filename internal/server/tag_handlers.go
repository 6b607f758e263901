package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Irakli288/my-portfolio/internal/projects"
)

type CreateTagRequest struct {
	Name string `json:"name" binding:"required" validate:"required,min=1,max=50"`
}

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.projectsService.ListTags(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tags")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) createTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	tag, err := s.projectsService.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, projects.ErrDuplicateTag) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tag already exists"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create tag")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (s *Server) deleteTag(c *gin.Context) {
	deleted, err := s.projectsService.DeleteTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete tag")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
