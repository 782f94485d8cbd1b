package bootstrap

import (
	"context"
	"creatorlink/internal/config"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"fmt"

	authHandler "creatorlink/internal/auth/handler"
	authProcessor "creatorlink/internal/auth/processor"
	campaignHandler "creatorlink/internal/campaign/handler"
	campaignProcessor "creatorlink/internal/campaign/processor"
	"creatorlink/internal/clients/ai"
	"creatorlink/internal/clients/googleai"
	"creatorlink/internal/clients/mail"
	"creatorlink/internal/clients/storage"
	progressHandler "creatorlink/internal/progress/handler"
	progressProcessor "creatorlink/internal/progress/processor"
	taskdetailHandler "creatorlink/internal/taskdetail/handler"
	taskdetailProcessor "creatorlink/internal/taskdetail/processor"
	workflowHandler "creatorlink/internal/workflow/handler"
	workflowProcessor "creatorlink/internal/workflow/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	AuthHandler       authHandler.Handler
	CampaignHandler   campaignHandler.Handler
	WorkflowHandler   workflowHandler.Handler
	TaskDetailHandler taskdetailHandler.Handler
	ProgressHandler   progressHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store and run migrations
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := deps.Store.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize clients
	mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey,
		cfg.Services.DefaultEmailSender, cfg.Services.WebAppURI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create resend client: %w", err)
	}

	aiClient, err := ai.New(cfg.Services.OpenAIAPIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	analyzerClient, err := googleai.New(cfg.Services.GoogleAIAPIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	storageClient, err := storage.New(ctx, storage.Config{
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Endpoint:        cfg.Storage.Endpoint,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Initialize auth processor and handler
	authProc := authProcessor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	// Initialize campaign processor and handler
	campaignProc := campaignProcessor.New(&deps.Store, logger)
	deps.CampaignHandler = campaignHandler.New(campaignProc, logger)

	// Initialize workflow processor and handler
	workflowProc := workflowProcessor.New(&deps.Store, mailClient, logger)
	deps.WorkflowHandler = workflowHandler.New(workflowProc, aiClient, analyzerClient, logger)

	// Initialize task detail processor and handler
	taskdetailProc := taskdetailProcessor.New(&deps.Store, logger)
	deps.TaskDetailHandler = taskdetailHandler.New(taskdetailProc, workflowProc, storageClient, logger)

	// Initialize progress processor and handler
	progressProc := progressProcessor.New(&deps.Store, logger)
	deps.ProgressHandler = progressHandler.New(progressProc, logger)

	return deps, nil
}
