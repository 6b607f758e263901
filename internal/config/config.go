package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// Database Configuration
	Database DatabaseConfig

	// Telegram Configuration (approval channel)
	Telegram TelegramConfig

	// Upload Configuration
	Uploads UploadConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address string // listen address (host:port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// TelegramConfig holds the approval-channel configuration.
// ApproverID is the single Telegram account allowed to approve or
// deny admin access requests.
type TelegramConfig struct {
	BotToken   string
	ApproverID int64
	BotURL     string // public t.me link shown on the login page
}

// UploadConfig holds image upload configuration
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	addr := os.Getenv("LISTEN_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	// Database URL - default to a local SQLite file, allow override for dev
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "portfolio.sqlite"
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")

	var approverID int64
	if raw := os.Getenv("TELEGRAM_APPROVER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_APPROVER_ID %q: %w", raw, err)
		}
		approverID = id
	}

	botURL := os.Getenv("TELEGRAM_BOT_URL")
	if botURL == "" {
		botURL = "https://t.me/your_bot_username"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "static/images"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Server: ServerConfig{
			Address: addr,
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Telegram: TelegramConfig{
			BotToken:   botToken,
			ApproverID: approverID,
			BotURL:     botURL,
		},
		Uploads: UploadConfig{
			Dir:          uploadDir,
			MaxSizeBytes: 16 << 20, // 16MB, matches the frontend limit
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
