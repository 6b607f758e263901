package projects

import (
	"context"
	"fmt"

	"github.com/Irakli288/my-portfolio/internal/models"
)

// Seed inserts sample projects when the table is empty so a fresh
// deployment has something to show
func (s *Service) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := []models.Project{
		{
			Title:           "E-commerce Website",
			Description:     "Современный интернет-магазин с адаптивным дизайном",
			FullDescription: "Полнофункциональный интернет-магазин с корзиной покупок, системой оплаты и админ-панелью для управления товарами.",
			PreviewImage:    "/static/images/project1-preview.jpg",
			LiveURL:         "https://example-shop.com",
		},
		{
			Title:           "Blog Platform",
			Description:     "Платформа для блогинга с системой комментариев",
			FullDescription: "Современная блог-платформа с редактором Markdown, системой тегов, комментариями и авторизацией пользователей. Адаптивный дизайн и SEO-оптимизация.",
			PreviewImage:    "/static/images/project2-preview.jpg",
			LiveURL:         "https://example-blog.com",
		},
		{
			Title:           "Portfolio Dashboard",
			Description:     "Интерактивная админ-панель для управления контентом",
			FullDescription: "Профессиональная админ-панель с графиками, аналитикой, управлением пользователями и контентом.",
			PreviewImage:    "/static/images/project3-preview.jpg",
			LiveURL:         "https://example-dashboard.com",
		},
	}

	if err := s.db.WithContext(ctx).Create(&samples).Error; err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}

	s.logger.Info().Int("count", len(samples)).Msg("Sample projects seeded")
	return nil
}
