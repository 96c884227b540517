package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mueen-assist/internal/api"
	"mueen-assist/internal/api/handlers"
	"mueen-assist/internal/client"
	"mueen-assist/internal/index"
	"mueen-assist/internal/repository"
	"mueen-assist/internal/service"
	"mueen-assist/internal/store"
	"mueen-assist/pkg/auth"
	"mueen-assist/pkg/config"
	"mueen-assist/pkg/logger"
	"mueen-assist/pkg/postgres"

	"go.uber.org/zap"
)

// @title Mueen Assist API
// @version 1.0
// @description Dialogue resolution service for the Mueen customer support assistant

// @contact.name API Support
// @contact.email support@mueen.com.sa

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	appLogger.Info("Starting Mueen Assist service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db, appLogger)
	auditRepo := repository.NewAuditRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize document stores
	faqStore := store.NewFAQStore(cfg.Paths.DataDir)
	profileStore := store.NewProfileStore(cfg.Paths.DataDir)
	packageStore := store.NewPackageStore(cfg.Paths.DataDir)
	cacheStore := store.NewCacheStore(cfg.Paths.DataDir)

	// Initialize upstream clients
	catalogClient := client.NewCatalogClient(&cfg.Upstream, appLogger)
	crmClient := client.NewCRMClient(&cfg.Upstream, appLogger)

	// Initialize services
	embeddingService, err := service.NewEmbeddingService(&cfg.OpenAI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}

	idx := index.New(embeddingService, cfg.Retrieval.TopK)
	faqService := service.NewFAQService(faqStore, idx, &cfg.Retrieval, appLogger)
	if err := faqService.Reinitialize(ctx); err != nil {
		appLogger.Warn("FAQ index not available at startup", zap.Error(err))
	}

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	catalogService := service.NewCatalogService(catalogClient, packageStore, cacheStore, appLogger)
	profileService := service.NewProfileService(profileStore, crmClient, appLogger)
	leadService := service.NewLeadService(crmClient, profileStore, packageStore, auditRepo, appLogger)
	dispatcher := service.NewDispatcher(llmService, faqService, catalogService, profileService, leadService, sessionRepo, appLogger)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(dispatcher, sessionRepo, profileService, catalogService, appLogger)
	faqHandler := handlers.NewFAQHandler(faqService, appLogger)
	authHandler := handlers.NewAuthHandler(&cfg.Auth, jwtManager, appLogger)

	// Setup router
	app := api.SetupRouter(chatHandler, faqHandler, authHandler, jwtManager, appLogger)

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
