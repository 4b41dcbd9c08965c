package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"eldertech/internal/api"
	"eldertech/internal/api/handlers"
	"eldertech/internal/repository"
	"eldertech/internal/service"
	"eldertech/pkg/auth"
	"eldertech/pkg/config"
	"eldertech/pkg/logger"
	"eldertech/pkg/postgres"

	"go.uber.org/zap"
)

// @title ElderTech Voice Assistant API
// @version 1.0
// @description AI-powered voice assistant backend for elderly care and support

// @host localhost:8000
// @BasePath /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	historyMaxSessions  = 512
	historyMaxExchanges = 10
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ElderTech voice assistant service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	convRepo := repository.NewConversationRepository(db, appLogger)
	msgRepo := repository.NewMessageRepository(db, appLogger)
	faqRepo := repository.NewFAQRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	feedbackRepo := repository.NewFeedbackRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	aiService := service.NewOpenAIService(&cfg.OpenAI, appLogger)

	history, err := service.NewConversationHistory(historyMaxSessions, historyMaxExchanges)
	if err != nil {
		appLogger.Fatal("Failed to initialize conversation history", zap.Error(err))
	}
	assistant := service.NewAssistant(aiService, history, appLogger)

	chatService := service.NewChatService(convRepo, msgRepo, assistant, appLogger)
	faqService := service.NewFAQService(faqRepo, categoryRepo, feedbackRepo, appLogger)
	speechService := service.NewSpeechService(aiService, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	faqHandler := handlers.NewFAQHandler(faqService, appLogger)
	speechHandler := handlers.NewSpeechHandler(speechService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, chatHandler, faqHandler, speechHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
