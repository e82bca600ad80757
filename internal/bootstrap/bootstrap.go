package bootstrap

import (
	"context"
	"fmt"

	authHandler "ventia-server/internal/auth/handler"
	authProcessor "ventia-server/internal/auth/processor"
	chatHandler "ventia-server/internal/chat/handler"
	chatProcessor "ventia-server/internal/chat/processor"
	"ventia-server/internal/clients/googleai"
	openaiClient "ventia-server/internal/clients/openai"
	"ventia-server/internal/config"
	conversationsHandler "ventia-server/internal/conversations/handler"
	conversationsProcessor "ventia-server/internal/conversations/processor"
	"ventia-server/internal/observability"
	"ventia-server/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	AuthHandler          authHandler.Handler
	ChatHandler          chatHandler.Handler
	ConversationsHandler conversationsHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize auth processor and handler
	authProc := authProcessor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	// Initialize the completion client for the configured provider
	var completionClient chatProcessor.CompletionClient
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		completionClient = openaiClient.New(cfg.AI.OpenAIAPIKey, cfg.AI.Model, logger)
	case config.ProviderGemini:
		completionClient = googleai.New(cfg.AI.GoogleAIAPIKey, cfg.AI.Model, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.AI.Provider)
	}

	// Initialize chat processor and handler
	chatProc := chatProcessor.New(&deps.Store, completionClient, cfg.AI.RequestTimeout, logger)
	deps.ChatHandler = chatHandler.New(chatProc, logger)

	// Initialize conversations processor and handler
	conversationsProc := conversationsProcessor.New(&deps.Store, logger)
	deps.ConversationsHandler = conversationsHandler.New(conversationsProc, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if db := d.Store.DB(); db != nil {
		_ = db.Close()
	}
}
