package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/awslabs/lisa-admin/internal/config"
	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/handlers"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/middleware"
	"github.com/awslabs/lisa-admin/internal/provision"
	"github.com/awslabs/lisa-admin/internal/queue"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/awslabs/lisa-admin/internal/router"
	"github.com/awslabs/lisa-admin/internal/services"
)

func main() {
	ctx := context.Background()

	// Load application configuration
	cfg := config.New()
	logger.Init(cfg.LogLevel)
	log.Println("Configuration loaded successfully")

	// Create DynamoDB client
	dbClient, err := database.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}
	log.Println("DynamoDB client initialized successfully")

	// Initialize entity stores
	modelDB := database.NewModelStore(dbClient, cfg.ModelsTableName)
	ragDB := database.NewRagRepositoryStore(dbClient, cfg.RagRepositoriesTableName)
	connDB := database.NewMcpConnectionStore(dbClient, cfg.McpConnectionsTableName)
	hostedDB := database.NewHostedMcpServerStore(dbClient, cfg.HostedMcpServersTableName)
	assistantDB := database.NewAssistantStackStore(dbClient, cfg.AssistantStacksTableName)
	prefsDB := database.NewUserPreferencesStore(dbClient, cfg.UserPreferencesTableName)
	bannerDB := database.NewBannerStore(dbClient, cfg.BannersTableName)

	for _, table := range []string{
		cfg.ModelsTableName,
		cfg.RagRepositoriesTableName,
		cfg.McpConnectionsTableName,
		cfg.HostedMcpServersTableName,
		cfg.AssistantStacksTableName,
		cfg.UserPreferencesTableName,
		cfg.BannersTableName,
	} {
		_ = dbClient.VerifyTable(ctx, table)
	}

	// Initialize repositories
	modelRepo := repository.NewModelRepository(modelDB)
	ragRepo := repository.NewRagRepositoryRepository(ragDB)
	connRepo := repository.NewMcpConnectionRepository(connDB)
	hostedRepo := repository.NewHostedMcpServerRepository(hostedDB)
	assistantRepo := repository.NewAssistantStackRepository(assistantDB)
	prefsRepo := repository.NewUserPreferencesRepository(prefsDB)
	bannerRepo := repository.NewBannerRepository(bannerDB)
	log.Println("Repositories initialized with DynamoDB backend")

	// Load AWS configuration for the image registry
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %v", err)
	}
	registry := services.NewImageRegistryService(awsCfg, cfg.AWSAccountID, cfg.DeploymentPrefix)
	log.Println("Image registry service initialized")

	// Initialize the provisioning engine
	invoker, err := provision.NewLambdaInvoker(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to initialize task invoker: %v", err)
	}
	engine := provision.NewEngine(invoker, hostedRepo, provision.Config{
		DeployServerARN:   cfg.DeployServerFunctionArn,
		PollDeploymentARN: cfg.PollDeploymentFunctionArn,
		DeleteStackARN:    cfg.DeleteStackFunctionArn,
		MonitorDeleteARN:  cfg.MonitorDeleteFunctionArn,
		PollInterval:      time.Duration(cfg.PollIntervalSeconds) * time.Second,
	})
	log.Println("Provisioning engine initialized")

	// Initialize job queue (with buffer size of 100)
	jobQueue := queue.NewJobQueue(100)

	// Initialize worker pool (5 concurrent workers)
	workerPool := queue.NewWorkerPool(jobQueue, 5)
	workerPool.Start(engine.Handle)
	log.Println("Provision workers started")

	// Initialize handlers
	h := router.Handlers{
		Health:      handlers.NewHealthHandler(),
		Config:      handlers.NewConfigHandler(),
		Models:      handlers.NewModelHandler(modelRepo),
		RagRepos:    handlers.NewRagRepositoryHandler(ragRepo, modelRepo),
		Connections: handlers.NewMcpConnectionHandler(connRepo),
		Hosted:      handlers.NewHostedMcpServerHandler(hostedRepo, registry, jobQueue),
		Assistants:  handlers.NewAssistantStackHandler(assistantRepo, modelRepo, ragRepo, connRepo, hostedRepo),
		Banner:      handlers.NewBannerHandler(bannerRepo),
		Preferences: handlers.NewUserPreferencesHandler(prefsRepo),
	}
	log.Println("Handlers initialized")

	// Setup router
	auth := middleware.NewAuthConfig(cfg.AuthAuthority, cfg.AuthAudience, cfg.AuthAdminGroup)
	r := router.Setup(h, auth)

	// Setup graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server gracefully...")

		// Close job queue to stop accepting new jobs
		jobQueue.Close()
		log.Println("Job queue closed, waiting for workers to finish...")

		// Wait for workers to finish processing current jobs
		workerPool.Wait()
		log.Println("All workers stopped")

		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
