package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Irakli288/my-portfolio/internal/projects"
)

// ProjectRequest carries the editable fields of a project for both
// create and update
type ProjectRequest struct {
	Title           string   `json:"title" binding:"required" validate:"required,min=1,max=200"`
	Description     string   `json:"description" binding:"required" validate:"required,max=500"`
	FullDescription string   `json:"full_description" binding:"required" validate:"required"`
	PreviewImage    string   `json:"preview_image"`
	LiveURL         string   `json:"live_url" validate:"omitempty,url"`
	TagIDs          []string `json:"tag_ids"`
}

func (r *ProjectRequest) params() projects.ProjectParams {
	return projects.ProjectParams{
		Title:           r.Title,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		PreviewImage:    r.PreviewImage,
		LiveURL:         r.LiveURL,
		TagIDs:          r.TagIDs,
	}
}

func (s *Server) listProjects(c *gin.Context) {
	list, err := s.projectsService.List(c.Request.Context(), c.Query("tag"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list projects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getProject(c *gin.Context) {
	project, err := s.projectsService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) createProject(c *gin.Context) {
	var req ProjectRequest
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

	project, err := s.projectsService.Create(c.Request.Context(), req.params())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (s *Server) updateProject(c *gin.Context) {
	var req ProjectRequest
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

	project, err := s.projectsService.Update(c.Request.Context(), c.Param("id"), req.params())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, project)
}

func (s *Server) deleteProject(c *gin.Context) {
	deleted, err := s.projectsService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
