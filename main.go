package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pillmate/pill-helper/internal/bot"
	"github.com/pillmate/pill-helper/internal/bot/handlers"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/config"
	"github.com/pillmate/pill-helper/internal/logger"
	"github.com/pillmate/pill-helper/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting Pill Helper Bot...")

	// Initialize services
	consultSvc := services.NewConsultService(cfg.Backend, cfg.UserProfile)
	prescriptionSvc := services.NewPrescriptionService(cfg.Backend)
	placesSvc := services.NewPlacesService(cfg.Places)
	identifier := services.NewStaticIdentifier()
	logger.Info("Services initialized successfully")

	telegramBot, err := bot.NewBot(cfg.TelegramToken,
		state.Services{
			Identifier: identifier,
			Consultant: consultSvc,
			Analyzer:   prescriptionSvc,
		},
		handlers.Dependencies{
			Places:     placesSvc,
			Consultant: consultSvc,
		},
	)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}
	logger.Info("Bot initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telegramBot.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("Bot stopped with error: %v", err)
	}
}
