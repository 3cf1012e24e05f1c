package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	api "draftpilot-backend/cmd/api"
	draftdomain "draftpilot-backend/internal/draft/domain"
	draftRepo "draftpilot-backend/internal/draft/repository"
	draftUsecase "draftpilot-backend/internal/draft/usecase"
	"draftpilot-backend/pkg/ai"
	"draftpilot-backend/pkg/config"
	"draftpilot-backend/pkg/database"
	"draftpilot-backend/pkg/graph"
)

func main() {
	// Load configuration
	cfg := config.Load()
	cfg.MustValidate()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&draftdomain.IndexEntry{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	indexRepo := draftRepo.NewMessageIndexRepository(db)

	// Initialize Graph authenticator and client
	authenticator := graph.NewAuthenticator(cfg.GraphClientID, cfg.GraphClientSecret, cfg.GraphTenantID, cfg.GraphRedirectURI)
	graphClient := graph.NewClient(authenticator)

	// Initialize AI reply service
	aiService, err := ai.NewReplyService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiApiKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	// Initialize the draft pipeline (dependency injection)
	draftUsecaseInstance := draftUsecase.NewDraftUsecase(indexRepo, graphClient, aiService, cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(draftUsecaseInstance, graphClient, authenticator, cfg)

	// Delete the Graph subscription on shutdown so notifications stop cleanly
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		handler.Shutdown()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
