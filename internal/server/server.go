package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Irakli288/my-portfolio/internal/auth"
	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/config"
	"github.com/Irakli288/my-portfolio/internal/database"
	"github.com/Irakli288/my-portfolio/internal/i18n"
	"github.com/Irakli288/my-portfolio/internal/models"
	"github.com/Irakli288/my-portfolio/internal/projects"
	"github.com/Irakli288/my-portfolio/internal/telegram"
)

// ApprovalNotifier tells the human approver about a pending access
// request. Implemented by telegram.Notifier; tests substitute a fake.
type ApprovalNotifier interface {
	NotifyApprover(token, label, userAgent string) error
}

// Server represents the HTTP server
type Server struct {
	router          *gin.Engine
	db              *gorm.DB
	config          *config.Config
	logger          zerolog.Logger
	validator       *validator.Validate
	store           *authflow.Store
	notifier        ApprovalNotifier
	projectsService *projects.Service
	version         string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := database.Open(cfg.Database, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// JWT secret is persisted so tokens survive restarts; generated on
	// first boot
	if err := bootstrapJWTSecret(db, zlog); err != nil {
		return nil, err
	}

	store := authflow.NewStore(db, zlog)
	projectsService := projects.NewService(db, zlog)

	if err := projectsService.Seed(context.Background()); err != nil {
		zlog.Warn().Err(err).Msg("Failed to seed sample projects")
	}

	// Notifications are best-effort end to end: a server without bot
	// credentials still serves the site, it just can't grant admin access
	var notifier ApprovalNotifier
	if cfg.Telegram.BotToken != "" {
		n, err := telegram.NewNotifier(cfg.Telegram, zlog)
		if err != nil {
			zlog.Warn().Err(err).Msg("Failed to initialize Telegram notifier - approval notifications disabled")
		} else {
			notifier = n
		}
	} else {
		zlog.Warn().Msg("TELEGRAM_BOT_TOKEN not set - approval notifications disabled")
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	server := &Server{
		db:              db,
		config:          cfg,
		logger:          zlog,
		validator:       validator.New(),
		store:           store,
		notifier:        notifier,
		projectsService: projectsService,
		version:         version,
	}

	server.setupRouter()

	return server, nil
}

// bootstrapJWTSecret loads the persisted signing secret, generating
// one on first boot (32 random bytes, hex encoded)
func bootstrapJWTSecret(db *gorm.DB, zlog zerolog.Logger) error {
	var appConfig models.AppConfig
	err := db.First(&appConfig).Error
	if err == nil {
		auth.InitializeJWT(appConfig.JWTSecret)
		zlog.Debug().Msg("Loaded JWT secret from database")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load app config: %w", err)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	appConfig = models.AppConfig{JWTSecret: hex.EncodeToString(secretBytes)}
	if err := db.Create(&appConfig).Error; err != nil {
		return fmt.Errorf("failed to persist app config: %w", err)
	}

	auth.InitializeJWT(appConfig.JWTSecret)
	zlog.Info().Msg("Generated new JWT secret")
	return nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded and bundled images
	s.router.Static("/static/images", s.config.Uploads.Dir)
	s.router.MaxMultipartMemory = s.config.Uploads.MaxSizeBytes

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public site data
	s.router.GET("/api/projects", s.listProjects)
	s.router.GET("/api/projects/:id", s.getProject)
	s.router.GET("/api/tags", s.listTags)
	s.router.GET("/api/translations/:lang", s.getTranslations)

	// Access-request handshake (no auth required: the token is the
	// only credential the browser holds at this point)
	s.router.POST("/api/auth/request", s.requestAccess)
	s.router.GET("/api/auth/status/:token", s.checkAuthStatus)
	s.router.GET("/api/auth/login", s.finalizeLogin)
	s.router.GET("/api/auth/config", s.getAuthConfig)

	// Admin API: every request re-validates the underlying auth
	// session against the store
	admin := s.router.Group("/api")
	admin.Use(AdminAuthMiddleware(s.store, s.logger))
	{
		admin.POST("/auth/logout", s.logout)

		admin.POST("/projects", s.createProject)
		admin.PUT("/projects/:id", s.updateProject)
		admin.DELETE("/projects/:id", s.deleteProject)

		admin.POST("/tags", s.createTag)
		admin.DELETE("/tags/:id", s.deleteTag)

		admin.POST("/uploads", s.uploadImage)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "portfolio-api",
		"version":   s.version,
	})
}

func (s *Server) getTranslations(c *gin.Context) {
	c.JSON(http.StatusOK, i18n.Strings(i18n.Lang(c.Param("lang"))))
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Server.Address,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
