package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/config"
	"github.com/Irakli288/my-portfolio/internal/database"
	"github.com/Irakli288/my-portfolio/internal/logger"
	"github.com/Irakli288/my-portfolio/internal/models"
	"github.com/Irakli288/my-portfolio/internal/telegram"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// The bot shares the SQLite file with the HTTP server; all
	// coordination between the two processes goes through it
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	// Migrations may run from either process, whichever starts first
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	store := authflow.NewStore(db, log)

	bot, err := telegram.NewBot(cfg.Telegram, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", version).Msg("Starting approval bot...")

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Bot stopped with error")
	}

	log.Info().Msg("Bot shutdown complete")
}
