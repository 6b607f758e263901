package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Irakli288/my-portfolio/internal/models"
)

// ErrDuplicateTag is returned when creating a tag whose name already exists
var ErrDuplicateTag = errors.New("tag already exists")

// placeholderImage is used for projects created without an upload
const placeholderImage = "/static/images/placeholder.jpg"

// Service implements portfolio content management
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "projects_service").Logger(),
	}
}

// ProjectParams carries the editable fields of a project
type ProjectParams struct {
	Title           string
	Description     string
	FullDescription string
	PreviewImage    string
	LiveURL         string
	TagIDs          []string
}

// List returns all projects newest-first, tags preloaded. When tagID
// is non-empty only projects carrying that tag are returned.
func (s *Service) List(ctx context.Context, tagID string) ([]models.Project, error) {
	query := s.db.WithContext(ctx).Preload("Tags").Order("created_at DESC")

	if tagID != "" {
		query = query.
			Joins("JOIN project_tags ON project_tags.project_id = projects.id").
			Where("project_tags.tag_id = ?", tagID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByID returns a project with its tags, or nil if absent
func (s *Service) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// Create inserts a new project and assigns its tags
func (s *Service) Create(ctx context.Context, params ProjectParams) (*models.Project, error) {
	if params.PreviewImage == "" {
		params.PreviewImage = placeholderImage
	}

	project := &models.Project{
		Title:           params.Title,
		Description:     params.Description,
		FullDescription: params.FullDescription,
		PreviewImage:    params.PreviewImage,
		LiveURL:         params.LiveURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return s.replaceTags(tx, project, params.TagIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info().Str("project_id", project.ID).Str("title", project.Title).Msg("Project created")
	return s.GetByID(ctx, project.ID)
}

// Update overwrites a project's fields and replaces its tag set.
// Passing an empty PreviewImage keeps the existing image.
func (s *Service) Update(ctx context.Context, id string, params ProjectParams) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if params.PreviewImage == "" {
		params.PreviewImage = project.PreviewImage
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":            params.Title,
			"description":      params.Description,
			"full_description": params.FullDescription,
			"preview_image":    params.PreviewImage,
			"live_url":         params.LiveURL,
		}
		if err := tx.Model(&project).Updates(updates).Error; err != nil {
			return err
		}
		return s.replaceTags(tx, &project, params.TagIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info().Str("project_id", id).Msg("Project updated")
	return s.GetByID(ctx, id)
}

// Delete removes a project and its tag links
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load project: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&project).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info().Str("project_id", id).Msg("Project deleted")
	return true, nil
}

func (s *Service) replaceTags(tx *gorm.DB, project *models.Project, tagIDs []string) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return tx.Model(project).Association("Tags").Replace(tags)
}

// ListTags returns all tags ordered by name
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag inserts a tag. Names are unique; duplicates return ErrDuplicateTag.
func (s *Service) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check tag: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateTag
	}

	tag := &models.Tag{Name: name}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.logger.Info().Str("tag_id", tag.ID).Str("name", tag.Name).Msg("Tag created")
	return tag, nil
}

// DeleteTag removes a tag and its project links
func (s *Service) DeleteTag(ctx context.Context, id string) (bool, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load tag: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM project_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}

	s.logger.Info().Str("tag_id", id).Msg("Tag deleted")
	return true, nil
}
